// Message HTTP handlers.
//
//   - POST /messages            (send a message over the request path)
//   - POST /messages/:id/seen   (recipient marks a message seen)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-messenger-backend/internal/services"
)

// SendMessageRequest is the JSON payload for sending a message. All fields
// are required.
type SendMessageRequest struct {
	From string `json:"from" example:"5551234567"`
	To   string `json:"to" example:"5559876543"`
	Text string `json:"text" example:"hi"`
}

// MarkSeenRequest identifies who is marking the message seen. It must be
// the message's recipient.
type MarkSeenRequest struct {
	Phone string `json:"phone" example:"5559876543"`
}

// MarkSeenResponse acknowledges a successful seen transition.
type MarkSeenResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// SendMessage godoc
// @ID          sendMessage
// @Summary     Send a message
// @Description Routes a message from one phone to another: links the two as contacts, stores the message, and pushes it to the recipient's live connection when online. Responds with the stored message.
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.SendMessageRequest  true  "Message to send"
// @Success     201  {object}  domain.Message
// @Failure     400  {object}  handlers.ErrorResponse  "Missing fields"
// @Router      /messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Missing fields")
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), req.From, req.To, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Missing fields")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, msg)
}

// MarkSeen godoc
// @ID          markSeen
// @Summary     Mark a message as seen
// @Description Sets the seen flag on a message. Only the recipient may do this; the sender's live connection is notified.
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Message id"
// @Param       body  body  handlers.MarkSeenRequest  true  "Who is marking it seen"
// @Success     200  {object}  handlers.MarkSeenResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Caller is not the recipient"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown message id"
// @Router      /messages/{id}/seen [post]
func (h *Handlers) MarkSeen(c *gin.Context) {
	id := c.Param("id")

	var req MarkSeenRequest
	// An unparseable body leaves the phone empty, which can never match the
	// recipient, so it falls out as 403 below.
	_ = c.ShouldBindJSON(&req)

	msg, err := h.svc.MarkSeen(c.Request.Context(), id, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMessageNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Message not found")
		case errors.Is(err, services.ErrNotRecipient):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "Only the recipient can mark seen")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, MarkSeenResponse{Success: true, ID: msg.ID})
}
