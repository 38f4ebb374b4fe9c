// Chat HTTP handlers.
//
//   - GET  /chats/:contact?phone=P   (conversation history)
//   - POST /chats                    (start a chat between two existing users)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-messenger-backend/internal/domain"
	"github.com/tbourn/go-messenger-backend/internal/services"
)

// HistoryResponse wraps a conversation, ascending by timestamp.
type HistoryResponse struct {
	Chat []domain.Message `json:"chat"`
}

// StartChatRequest is the JSON payload for starting a chat.
type StartChatRequest struct {
	Phone   string `json:"phone" example:"5551234567"`
	Contact string `json:"contact" example:"5559876543"`
}

// StartChatResponse carries the caller's updated contact list and any
// history already exchanged with the new contact.
type StartChatResponse struct {
	Contacts []string         `json:"contacts"`
	Chat     []domain.Message `json:"chat"`
}

// GetHistory godoc
// @ID          getHistory
// @Summary     Get chat history with a contact
// @Description Returns every message exchanged between the phone and the contact, in either direction, ascending by timestamp.
// @Tags        Chats
// @Produce     json
// @Param       contact  path   string  true  "Contact phone number"
// @Param       phone    query  string  true  "Requesting user's phone number"
// @Success     200  {object}  handlers.HistoryResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown phone"
// @Router      /chats/{contact} [get]
func (h *Handlers) GetHistory(c *gin.Context) {
	phone := c.Query("phone")
	contact := c.Param("contact")
	if phone == "" {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "User not found")
		return
	}

	chat, err := h.svc.History(c.Request.Context(), phone, contact)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "User not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, HistoryResponse{Chat: chat})
}

// StartChat godoc
// @ID          startChat
// @Summary     Start a chat between two existing users
// @Description Links the two users as mutual contacts and returns the caller's updated contact list plus existing history. Both users must already exist.
// @Tags        Chats
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.StartChatRequest  true  "Chat parties"
// @Success     201  {object}  handlers.StartChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing fields"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown phone or contact"
// @Router      /chats [post]
func (h *Handlers) StartChat(c *gin.Context) {
	var req StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == "" || req.Contact == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Missing phone or contact in body")
		return
	}

	contacts, chat, err := h.svc.StartChat(c.Request.Context(), req.Phone, req.Contact)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("User %s not found", req.Phone))
		case errors.Is(err, services.ErrContactNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("Contact %s not found", req.Contact))
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, StartChatResponse{Contacts: contacts, Chat: chat})
}
