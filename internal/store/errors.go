package store

import "errors"

var (
	// ErrUserNotFound is returned by Login when no user has the given email.
	ErrUserNotFound = errors.New("no user registered with that email")
	// ErrDuplicateEmail is returned when an email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUnknownReference is returned when a new record points at a user,
	// post or menu that does not exist.
	ErrUnknownReference = errors.New("referenced record does not exist")
	ErrDuplicateID      = errors.New("record id already exists")
	ErrUnknownKind      = errors.New("unknown entity kind")
	ErrInvalidRecord    = errors.New("invalid record")
	// ErrCorrupt marks persisted data that could not be decoded or validated.
	ErrCorrupt = errors.New("corrupt collection")
)
