package store

import (
	"database/sql"

	_ "github.com/glebarez/go-sqlite"
)

// retainedMessages is how many entries are kept per chat; older ones are
// trimmed on every append.
const retainedMessages = 20

// HistoryStore persists per-chat conversation memory in sqlite. It is the
// only state that outlives a single task invocation.
type HistoryStore struct {
	DB *sql.DB
}

func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id TEXT,
		role TEXT,
		content TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return nil, err
	}

	return &HistoryStore{DB: db}, nil
}

// AddMessage appends one entry and trims the chat to the retained window.
func (h *HistoryStore) AddMessage(chatID string, role string, content string) error {
	_, err := h.DB.Exec(`INSERT INTO messages (chat_id, role, content) VALUES (?, ?, ?)`, chatID, role, content)
	if err != nil {
		return err
	}

	_, err = h.DB.Exec(`DELETE FROM messages
		WHERE chat_id = ?
		AND id NOT IN (
			SELECT id FROM messages WHERE chat_id = ? ORDER BY id DESC LIMIT ?
		)`, chatID, chatID, retainedMessages)
	return err
}

// GetRecent returns up to limit entries for a chat in chronological order.
func (h *HistoryStore) GetRecent(chatID string, limit int) ([]Message, error) {
	rows, err := h.DB.Query(`SELECT role, content FROM messages
		WHERE chat_id = ? ORDER BY id DESC LIMIT ?`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, err
		}
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to get chronological order
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return history, nil
}

// Clear drops all entries for one chat.
func (h *HistoryStore) Clear(chatID string) error {
	_, err := h.DB.Exec(`DELETE FROM messages WHERE chat_id = ?`, chatID)
	return err
}

// CountConversations reports how many distinct chats hold memory.
func (h *HistoryStore) CountConversations() (int, error) {
	var n int
	err := h.DB.QueryRow(`SELECT COUNT(DISTINCT chat_id) FROM messages`).Scan(&n)
	return n, err
}

func (h *HistoryStore) Close() error {
	return h.DB.Close()
}
