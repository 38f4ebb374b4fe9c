package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tbourn/go-messenger-backend/internal/domain"
)

func msg(id, from, to string, ts int64) *domain.Message {
	return &domain.Message{ID: id, From: from, To: to, Text: "t-" + id, Timestamp: ts}
}

func TestMessageStore_PutGet(t *testing.T) {
	s := NewMessageStore()
	s.Put(msg("m1", "111", "222", 10))

	got, err := s.Get("m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.From != "111" || got.To != "222" || got.Seen {
		t.Fatalf("unexpected message: %+v", got)
	}

	if _, err := s.Get("nope"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("err = %v; want ErrMessageNotFound", err)
	}
}

func TestMessageStore_MarkSeen(t *testing.T) {
	s := NewMessageStore()
	s.Put(msg("m1", "111", "222", 10))

	m, err := s.MarkSeen("m1")
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !m.Seen {
		t.Fatalf("seen not set")
	}

	// Re-marking is harmless.
	m, err = s.MarkSeen("m1")
	if err != nil || !m.Seen {
		t.Fatalf("re-mark: %v seen=%v", err, m.Seen)
	}

	if _, err := s.MarkSeen("nope"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("err = %v; want ErrMessageNotFound", err)
	}
}

func TestConversation_BothDirectionsSorted(t *testing.T) {
	s := NewMessageStore()
	s.Put(msg("m2", "222", "111", 20))
	s.Put(msg("m1", "111", "222", 10))
	s.Put(msg("m3", "111", "333", 15)) // different conversation
	s.Put(msg("m4", "111", "222", 30))

	forward := s.Conversation("111", "222")
	reverse := s.Conversation("222", "111")

	wantIDs := []string{"m1", "m2", "m4"}
	for name, got := range map[string][]domain.Message{"forward": forward, "reverse": reverse} {
		if len(got) != len(wantIDs) {
			t.Fatalf("%s: %d messages; want %d", name, len(got), len(wantIDs))
		}
		for i, id := range wantIDs {
			if got[i].ID != id {
				t.Errorf("%s[%d] = %s; want %s", name, i, got[i].ID, id)
			}
		}
	}
}

func TestConversation_EqualTimestampsKeepInsertionOrder(t *testing.T) {
	s := NewMessageStore()
	for i := 0; i < 5; i++ {
		s.Put(msg(fmt.Sprintf("m%d", i), "111", "222", 100))
	}

	got := s.Conversation("111", "222")
	for i := range got {
		want := fmt.Sprintf("m%d", i)
		if got[i].ID != want {
			t.Fatalf("order[%d] = %s; want %s (insertion order tie-break)", i, got[i].ID, want)
		}
	}
}

func TestConversation_EmptyWhenNoMessages(t *testing.T) {
	s := NewMessageStore()
	if got := s.Conversation("111", "222"); len(got) != 0 {
		t.Fatalf("expected empty conversation, got %v", got)
	}
}
