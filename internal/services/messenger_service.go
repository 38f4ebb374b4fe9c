// Package services – MessengerService
//
// This file implements the single router operation set behind both the REST
// surface and the websocket channel. Factoring the logic here keeps the two
// transports as thin adapters: each validates its own framing, calls the
// service, and renders the result in its own wire format.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/go-messenger-backend/internal/domain"
	"github.com/tbourn/go-messenger-backend/internal/hub"
	"github.com/tbourn/go-messenger-backend/internal/store"
)

// Live-connection event names pushed by the service.
const (
	EventReceiveMessage = "receiveMessage"
	EventMessageSeen    = "messageSeen"
)

// SeenNotice is the payload of a messageSeen push event.
type SeenNotice struct {
	ID string `json:"id"`
	By string `json:"by"`
}

// Pusher is the delivery half of the live-connection registry consumed by
// the service. Implementations must not block.
type Pusher interface {
	// SendTo pushes ev to every session of phone; offline phones are a no-op.
	SendTo(phone string, ev hub.Event) int
	// Online reports whether phone has at least one live session.
	Online(phone string) bool
}

// MessengerService routes messages and maintains the contact graph. All
// methods are synchronous: they complete or fail immediately, with no
// queuing or retries. Delivery to an offline recipient is skipped — the
// message stays retrievable through History.
type MessengerService struct {
	// Users is the persisted user/contact store.
	Users *store.UserStore
	// Messages is the in-memory message store.
	Messages *store.MessageStore
	// Push delivers events to live sessions.
	Push Pusher

	// Now and NewID are seams for deterministic tests; they default to
	// wall-clock time and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

// NewMessengerService constructs a MessengerService with default id and
// clock sources.
func NewMessengerService(users *store.UserStore, msgs *store.MessageStore, push Pusher) *MessengerService {
	return &MessengerService{
		Users:    users,
		Messages: msgs,
		Push:     push,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// Login ensures a user record exists for phone and returns its contact
// list. Users are created on first reference, so logging in with a brand
// new phone succeeds with an empty list.
func (s *MessengerService) Login(ctx context.Context, phone string) ([]string, error) {
	if phone == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.Users.EnsureUser(phone); err != nil {
		return nil, err
	}
	return s.Users.GetContacts(phone)
}

// ListUsers returns every known phone number.
func (s *MessengerService) ListUsers(ctx context.Context) []string {
	return s.Users.ListUsers()
}

// Contacts returns phone's contact list, in insertion order.
func (s *MessengerService) Contacts(ctx context.Context, phone string) ([]string, error) {
	contacts, err := s.Users.GetContacts(phone)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return contacts, err
}

// Send routes one message. In order: make sender and recipient mutual
// contacts, build the message (fresh id, current wall-clock timestamp,
// seen=false), store it, and push it to the recipient's live sessions when
// online. The stored message is returned so the calling transport can
// acknowledge the sender with it.
//
// All three fields are required on every path; the websocket adapter applies
// the same validation as the REST one.
func (s *MessengerService) Send(ctx context.Context, from, to, text string) (*domain.Message, error) {
	if from == "" || to == "" || text == "" {
		return nil, ErrMissingFields
	}

	if err := s.Users.AddContact(from, to); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:        s.NewID(),
		From:      from,
		To:        to,
		Text:      text,
		Timestamp: s.Now().UnixMilli(),
		Seen:      false,
	}
	s.Messages.Put(msg)

	s.Push.SendTo(to, hub.Event{Name: EventReceiveMessage, Data: *msg})

	return msg, nil
}

// History returns every message between phone and contact, ascending by
// timestamp. The acting phone must be known; the contact need not be.
func (s *MessengerService) History(ctx context.Context, phone, contact string) ([]domain.Message, error) {
	if !s.Users.Exists(phone) {
		return nil, ErrUserNotFound
	}
	return s.Messages.Conversation(phone, contact), nil
}

// MarkSeen flips the seen flag of the message with the given id. Only the
// message's recipient may do so. The sender's live sessions are notified
// with a messageSeen event. Re-marking an already seen message is allowed
// and renotifies the sender.
func (s *MessengerService) MarkSeen(ctx context.Context, id, by string) (domain.Message, error) {
	msg, err := s.Messages.Get(id)
	if errors.Is(err, store.ErrMessageNotFound) {
		return domain.Message{}, ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	if msg.To != by {
		return domain.Message{}, ErrNotRecipient
	}

	updated, err := s.Messages.MarkSeen(id)
	if err != nil {
		return domain.Message{}, err
	}

	s.Push.SendTo(updated.From, hub.Event{
		Name: EventMessageSeen,
		Data: SeenNotice{ID: updated.ID, By: by},
	})

	return updated, nil
}

// StartChat links two existing users as contacts and returns the acting
// user's updated contact list along with any existing history between the
// pair. Both parties must already exist — this is the one path that does
// not create users — and the existence check happens before any mutation.
func (s *MessengerService) StartChat(ctx context.Context, phone, contact string) ([]string, []domain.Message, error) {
	if !s.Users.Exists(phone) {
		return nil, nil, ErrUserNotFound
	}
	if !s.Users.Exists(contact) {
		return nil, nil, ErrContactNotFound
	}

	if err := s.Users.AddContact(phone, contact); err != nil {
		return nil, nil, err
	}

	contacts, err := s.Users.GetContacts(phone)
	if err != nil {
		return nil, nil, err
	}
	return contacts, s.Messages.Conversation(phone, contact), nil
}
