// Package store owns the process-wide messenger state: the user/contact
// graph persisted to a flat JSON file, and the in-memory message store.
//
// The user store is loaded once at construction and rewritten wholesale on
// every mutation. Snapshots are written to a temp file in the same directory
// and renamed into place, so a crash mid-write leaves the previous snapshot
// intact. The on-disk format is a single JSON object keyed by phone number:
//
//	{
//	  "111": { "phone": "111", "contacts": ["222"] },
//	  "222": { "phone": "222", "contacts": ["111"] }
//	}
//
// All methods are safe for concurrent use. Locking is coarse (one RWMutex
// over the whole map) which keeps the symmetric contact update atomic with
// respect to other requests.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tbourn/go-messenger-backend/internal/domain"
)

// ErrUserNotFound is returned when a phone number has no user record.
var ErrUserNotFound = errors.New("user not found")

// UserStore is the owned store object for the user/contact graph. Construct
// it with Open; the zero value is not usable.
type UserStore struct {
	mu    sync.RWMutex
	path  string
	users map[string]*domain.User
}

// Open loads the user store from path. A missing file is not an error — the
// store starts empty and the file is created on first mutation. A file that
// exists but does not parse is an error: failing at startup beats panicking
// mid-request.
func Open(path string) (*UserStore, error) {
	s := &UserStore{
		path:  path,
		users: make(map[string]*domain.User),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read user store %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.users); err != nil {
		return nil, fmt.Errorf("parse user store %s: %w", path, err)
	}

	// Normalize records whose phone field is missing or stale; the map key
	// is authoritative.
	for phone, u := range s.users {
		if u == nil {
			s.users[phone] = &domain.User{Phone: phone, Contacts: []string{}}
			continue
		}
		u.Phone = phone
		if u.Contacts == nil {
			u.Contacts = []string{}
		}
	}
	return s, nil
}

// Path returns the file backing this store.
func (s *UserStore) Path() string { return s.path }

// EnsureUser returns the record for phone, creating an empty one (and
// persisting) when the phone is unknown. It never fails on the lookup path;
// the only error source is the disk write on creation.
func (s *UserStore) EnsureUser(phone string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(phone)
}

func (s *UserStore) ensureLocked(phone string) (*domain.User, error) {
	if u, ok := s.users[phone]; ok {
		return u, nil
	}
	u := &domain.User{Phone: phone, Contacts: []string{}}
	s.users[phone] = u
	if err := s.persistLocked(); err != nil {
		return u, err
	}
	return u, nil
}

// AddContact ensures both users exist and links them symmetrically: each
// phone is appended to the other's contact list if absent. Re-adding an
// existing contact is a no-op; the snapshot is only rewritten when state
// actually changed.
func (s *UserStore) AddContact(userPhone, contactPhone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dirty := false

	user, ok := s.users[userPhone]
	if !ok {
		user = &domain.User{Phone: userPhone, Contacts: []string{}}
		s.users[userPhone] = user
		dirty = true
	}
	contact, ok := s.users[contactPhone]
	if !ok {
		contact = &domain.User{Phone: contactPhone, Contacts: []string{}}
		s.users[contactPhone] = contact
		dirty = true
	}

	if !user.HasContact(contactPhone) {
		user.Contacts = append(user.Contacts, contactPhone)
		dirty = true
	}
	if !contact.HasContact(userPhone) {
		contact.Contacts = append(contact.Contacts, userPhone)
		dirty = true
	}

	if !dirty {
		return nil
	}
	return s.persistLocked()
}

// Exists reports whether phone has a user record.
func (s *UserStore) Exists(phone string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[phone]
	return ok
}

// ListUsers returns every known phone number. Order is unspecified.
func (s *UserStore) ListUsers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	phones := make([]string, 0, len(s.users))
	for p := range s.users {
		phones = append(phones, p)
	}
	return phones
}

// GetContacts returns a copy of phone's contact list in insertion order, or
// ErrUserNotFound when the phone is unknown.
func (s *UserStore) GetContacts(phone string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[phone]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := make([]string, len(u.Contacts))
	copy(out, u.Contacts)
	return out, nil
}

// persistLocked rewrites the whole snapshot. Callers must hold the write
// lock. The temp-file-then-rename dance keeps the previous snapshot valid
// if the process dies mid-write.
func (s *UserStore) persistLocked() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace user store %s: %w", s.path, err)
	}
	return nil
}
