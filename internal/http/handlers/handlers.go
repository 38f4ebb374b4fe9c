// REST handler wiring.
//
// Handlers are transport-thin: they validate framing, call the messenger
// service, and translate results (including the service's sentinel errors)
// into HTTP responses. The response bodies and error strings here are a
// published contract — existing clients parse them — so they are preserved
// exactly.
package handlers

import (
	"context"

	"github.com/tbourn/go-messenger-backend/internal/domain"
)

// Messenger defines the routing and contact-graph operations consumed by
// the REST handlers. Implementations must be safe for concurrent use.
type Messenger interface {
	// ListUsers returns every known phone number.
	ListUsers(ctx context.Context) []string
	// Contacts returns phone's contact list in insertion order.
	Contacts(ctx context.Context, phone string) ([]string, error)
	// History returns the conversation between phone and contact, ascending
	// by timestamp.
	History(ctx context.Context, phone, contact string) ([]domain.Message, error)
	// Send routes one message and returns the stored copy.
	Send(ctx context.Context, from, to, text string) (*domain.Message, error)
	// MarkSeen flips a message's seen flag on behalf of its recipient.
	MarkSeen(ctx context.Context, id, by string) (domain.Message, error)
	// StartChat links two existing users and returns the caller's updated
	// contacts plus any existing history.
	StartChat(ctx context.Context, phone, contact string) ([]string, []domain.Message, error)
}

// Handlers groups the REST endpoints over a Messenger implementation.
type Handlers struct {
	svc Messenger
}

// New constructs a Handlers instance bound to the given service.
func New(svc Messenger) *Handlers {
	return &Handlers{svc: svc}
}
