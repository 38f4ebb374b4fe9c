package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/tbourn/go-messenger-backend/internal/domain"
)

// ErrMessageNotFound is returned when a message id is unknown.
var ErrMessageNotFound = errors.New("message not found")

// MessageStore holds every message sent during the lifetime of the process,
// keyed by id. Messages are deliberately not persisted — a restart loses
// them while the contact graph survives in the user store.
//
// Safe for concurrent use.
type MessageStore struct {
	mu   sync.RWMutex
	msgs map[string]*domain.Message
	seq  uint64
}

// NewMessageStore returns an empty message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{msgs: make(map[string]*domain.Message)}
}

// Put stores m and stamps it with the next insertion sequence number.
func (s *MessageStore) Put(m *domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	m.Seq = s.seq
	s.msgs[m.ID] = m
}

// Get returns a copy of the message with the given id, or ErrMessageNotFound.
func (s *MessageStore) Get(id string) (domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.msgs[id]
	if !ok {
		return domain.Message{}, ErrMessageNotFound
	}
	return *m, nil
}

// MarkSeen flips the seen flag on the message with the given id and returns
// a copy of the updated message. Repeated calls are harmless.
func (s *MessageStore) MarkSeen(id string) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.msgs[id]
	if !ok {
		return domain.Message{}, ErrMessageNotFound
	}
	m.Seen = true
	return *m, nil
}

// Conversation returns copies of every message exchanged between phones a
// and b, in either direction, ascending by timestamp. Messages sharing a
// timestamp keep insertion order, so the result is stable.
func (s *MessageStore) Conversation(a, b string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Message, 0)
	for _, m := range s.msgs {
		if m.Between(a, b) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}
