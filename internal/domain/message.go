package domain

import "errors"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrHistoryNotFound is returned by history loaders when no saved history exists yet.
var ErrHistoryNotFound = errors.New("chat history not found")

type Message struct {
	Role    string
	Content string
}
