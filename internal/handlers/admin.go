package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/service"
)

// CustomersPath is admin page listing customers
const CustomersPath = "/admin/customers"

// AdminHTMLHandler serves admin pages
type AdminHTMLHandler struct {
	customerSvc service.CustomerService
	userSvc     service.UserService
	ctxProvider ContextProvider
	logger      logrus.FieldLogger
}

// NewAdminHTMLHandler builds new AdminHTMLHandler
func NewAdminHTMLHandler(
	customerSvc service.CustomerService,
	userSvc service.UserService,
	ctxProvider ContextProvider,
	logger logrus.FieldLogger,
) *AdminHTMLHandler {
	return &AdminHTMLHandler{
		customerSvc: customerSvc,
		userSvc:     userSvc,
		ctxProvider: ctxProvider,
		logger:      logger,
	}
}

// AllCustomers renders every customer
func (h *AdminHTMLHandler) AllCustomers(c echo.Context) error {
	customers, err := h.customerSvc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "admin/customers.html", page(h.ctxProvider, c, map[string]any{
		"title":     "Customers",
		"customers": customers,
	}))
}

// AllUsers renders every user
func (h *AdminHTMLHandler) AllUsers(c echo.Context) error {
	users, err := h.userSvc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "admin/users.html", page(h.ctxProvider, c, map[string]any{
		"title": "Users",
		"users": users,
	}))
}

// DeleteCustomerByID deletes customer and redirects back to customers page.
// Missing customer is treated as already deleted.
func (h *AdminHTMLHandler) DeleteCustomerByID(c echo.Context) error {
	id := c.Param("id")

	if err := h.customerSvc.DeleteByID(c.Request().Context(), id); err != nil {
		var notFoundErr *bankErrors.EntryNotFoundErr
		if !errors.As(err, &notFoundErr) {
			return err
		}
		h.logger.WithField("customerId", id).Debug("customer is already absent, nothing to delete")
	}

	return c.Redirect(http.StatusSeeOther, CustomersPath)
}
