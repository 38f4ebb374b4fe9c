// Package domain defines the core data types of the messenger: users keyed
// by phone number and the messages they exchange. These types double as the
// wire representations used by both the REST surface and the live-connection
// channel, so their JSON shapes are part of the public contract.
package domain

// User is an account identified solely by its phone number. Users come into
// existence on first reference (a login or becoming someone's contact) and
// are never deleted.
//
// Fields:
//   - Phone: unique identifier; there is no separate account concept.
//   - Contacts: phone numbers this user has exchanged a chat with, in
//     insertion order, no duplicates. The relationship is always mutual:
//     if B appears here, A appears in B's list.
type User struct {
	Phone    string   `json:"phone"`
	Contacts []string `json:"contacts"`
}

// HasContact reports whether phone is already in the user's contact list.
func (u *User) HasContact(phone string) bool {
	for _, c := range u.Contacts {
		if c == phone {
			return true
		}
	}
	return false
}

// Message is a single text message between two phones. Messages are
// immutable after creation except for the Seen flag, which transitions
// false→true exactly once and may only be set by the recipient.
//
// Fields:
//   - ID: opaque UUID, globally unique, never reused.
//   - From / To: sender and recipient phone numbers.
//   - Text: message body.
//   - Timestamp: creation time in milliseconds since the Unix epoch.
//   - Seen: read marker, set by the recipient.
//   - Seq: process-local insertion counter used as a stable tie-break when
//     sorting messages with equal timestamps; not part of the wire format.
type Message struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Seen      bool   `json:"seen"`
	Seq       uint64 `json:"-"`
}

// Between reports whether the message belongs to the conversation between
// phones a and b, regardless of direction.
func (m *Message) Between(a, b string) bool {
	return (m.From == a && m.To == b) || (m.From == b && m.To == a)
}
