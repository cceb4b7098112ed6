package core

import "errors"

var (
	ErrNotSignedIn = errors.New("sign in first")
	ErrNotOwner    = errors.New("only the author can change this post")
	ErrNotFound    = errors.New("not found")

	ErrEmptySeed            = errors.New("enter a dish or menu concept first")
	ErrGeneratorUnavailable = errors.New("content generation is not configured")
	ErrMalformedDraft       = errors.New("model returned a malformed draft")
)
