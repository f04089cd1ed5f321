package domain

// ConversationStore keeps the ordered chat history of the running session.
type ConversationStore interface {
	Add(msg Message)
	Recent(limit int) []Message
	All() []Message
	Replace(msgs []Message)
}
