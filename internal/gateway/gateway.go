package gateway

// Messenger defines the interface for communication gateways (Discord, Telegram, etc.)
type Messenger interface {
	// Start begins the message listening loop
	Start() error
	// Send sends a message to a specific chat
	Send(chatID string, text string) error
	// Stop gracefully shuts down the gateway
	Stop() error
}

// BotInfo carries the read-only facts the status and info commands report.
type BotInfo struct {
	Model      string
	BaseURL    string
	ScriptRoot string
}
