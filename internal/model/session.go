package model

import "time"

// Session is login session of a user
type Session struct {
	ID        string    `msgpack:"id"`
	UserID    int64     `msgpack:"userId"`
	Username  string    `msgpack:"username"`
	UserType  string    `msgpack:"userType"`
	CreatedAt time.Time `msgpack:"createdAt"`
	ExpiresAt time.Time `msgpack:"expiresAt"`
}

// IsAdmin reports whether session belongs to administrator
func (s *Session) IsAdmin() bool {
	return s.UserType == UserTypeAdmin
}
