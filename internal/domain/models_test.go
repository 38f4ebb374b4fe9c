package domain

import (
	"encoding/json"
	"testing"
)

func TestUser_HasContact(t *testing.T) {
	u := &User{Phone: "111", Contacts: []string{"222", "333"}}

	if !u.HasContact("222") {
		t.Errorf("HasContact(222) = false; want true")
	}
	if u.HasContact("444") {
		t.Errorf("HasContact(444) = true; want false")
	}
	empty := &User{Phone: "555"}
	if empty.HasContact("111") {
		t.Errorf("empty contact list should not contain anything")
	}
}

func TestMessage_Between(t *testing.T) {
	m := &Message{From: "111", To: "222"}

	cases := []struct {
		a, b string
		want bool
	}{
		{"111", "222", true},
		{"222", "111", true},
		{"111", "333", false},
		{"333", "222", false},
		{"111", "111", false},
	}
	for _, tc := range cases {
		if got := m.Between(tc.a, tc.b); got != tc.want {
			t.Errorf("Between(%q, %q) = %v; want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMessage_JSONShape(t *testing.T) {
	m := Message{
		ID:        "abc",
		From:      "111",
		To:        "222",
		Text:      "hi",
		Timestamp: 1700000000000,
		Seen:      false,
		Seq:       42,
	}

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, k := range []string{"id", "from", "to", "text", "timestamp", "seen"} {
		if _, ok := got[k]; !ok {
			t.Errorf("wire message missing %q field", k)
		}
	}
	// The insertion counter is internal bookkeeping only.
	if _, ok := got["Seq"]; ok {
		t.Errorf("Seq must not be serialized")
	}
	if got["seen"] != false {
		t.Errorf("seen = %v; want false", got["seen"])
	}
}
