// Package services implements the message-routing and contact-graph logic
// shared by both transports (REST and the live-connection channel). This
// file centralizes the service-level error values so that callers can check
// them and translate them into transport responses.
package services

import "errors"

var (
	// ErrMissingFields is returned when a send request lacks a sender,
	// recipient, or message text.
	ErrMissingFields = errors.New("missing fields")

	// ErrUserNotFound indicates that the acting phone number has no user
	// record.
	ErrUserNotFound = errors.New("user not found")

	// ErrContactNotFound indicates that the other party of a chat has no
	// user record.
	ErrContactNotFound = errors.New("contact not found")

	// ErrMessageNotFound indicates an unknown message id.
	ErrMessageNotFound = errors.New("message not found")

	// ErrNotRecipient is returned when someone other than a message's
	// recipient tries to mark it seen.
	ErrNotRecipient = errors.New("only the recipient can mark seen")
)
