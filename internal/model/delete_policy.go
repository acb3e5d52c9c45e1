package model

import "fmt"

// DeletePolicy specifies what happens to rows referencing a deleted customer
type DeletePolicy string

const (
	// DeletePolicyReject refuses to delete customer while accounts reference it
	DeletePolicyReject DeletePolicy = "reject"
	// DeletePolicyCascade deletes customer accounts, address and contact together with customer
	DeletePolicyCascade DeletePolicy = "cascade"
)

// ParseDeletePolicy converts raw value to DeletePolicy
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch p := DeletePolicy(s); p {
	case DeletePolicyReject, DeletePolicyCascade:
		return p, nil
	case "":
		return DeletePolicyReject, nil
	default:
		return "", fmt.Errorf("unknown delete policy %q, must be one of %q, %q", s, DeletePolicyReject, DeletePolicyCascade)
	}
}
