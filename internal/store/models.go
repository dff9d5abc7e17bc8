package store

// Message is one stored conversation entry for a chat.
type Message struct {
	Role    string
	Content string
}
