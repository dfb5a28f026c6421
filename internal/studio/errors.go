package studio

import "errors"

var (
	// ErrInsufficientTokens means the balance could not cover the
	// generation cost. The HTTP layer maps this to 402 with a shop hint.
	ErrInsufficientTokens = errors.New("insufficient tokens")

	// ErrNoCurrentImage means an edit or commit was requested before any
	// image existed in the session.
	ErrNoCurrentImage = errors.New("no current image in session")

	// ErrBusy means a generation or edit is already in flight for the
	// session. One paid operation at a time.
	ErrBusy = errors.New("another operation is in progress")

	// ErrImageNotFound means the requested history entry does not exist
	// in this session.
	ErrImageNotFound = errors.New("image not found in session history")

	// ErrPromptRejected means the moderation gate refused the prompt
	// before any tokens were spent.
	ErrPromptRejected = errors.New("prompt rejected by moderation")

	// ErrGateway means the provider call failed. The debit has already
	// been refunded when this is returned.
	ErrGateway = errors.New("image service failed")
)
