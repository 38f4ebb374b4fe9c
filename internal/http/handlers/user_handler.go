// User and contact HTTP handlers.
//
//   - GET /users                 (all known phone numbers)
//   - GET /contacts?phone=P      (one user's contact list)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-messenger-backend/internal/services"
)

// ListUsersResponse wraps the phone numbers of every known user.
type ListUsersResponse struct {
	Users []string `json:"users"`
}

// ContactsResponse wraps a user's contact list.
type ContactsResponse struct {
	Contacts []string `json:"contacts"`
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List all registered users
// @Description Returns every known phone number. Used by clients to offer new chat targets.
// @Tags        Users
// @Produce     json
// @Success     200  {object}  handlers.ListUsersResponse
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	ok(c, http.StatusOK, ListUsersResponse{Users: h.svc.ListUsers(c.Request.Context())})
}

// GetContacts godoc
// @ID          getContacts
// @Summary     Get a user's contacts
// @Description Returns the contact list of the user identified by the phone query parameter, in insertion order.
// @Tags        Users
// @Produce     json
// @Param       phone  query  string  true  "User phone number"  example(5551234567)
// @Success     200  {object}  handlers.ContactsResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown phone"
// @Router      /contacts [get]
func (h *Handlers) GetContacts(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		// A missing phone reads as an unknown user, matching the original
		// client-facing behavior.
		fail(c, http.StatusNotFound, ErrCodeNotFound, "User not found")
		return
	}

	contacts, err := h.svc.Contacts(c.Request.Context(), phone)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "User not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, ContactsResponse{Contacts: contacts})
}
