package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Flag is a boolean the backend serializes either as a JSON bool or as a
// sqlite 0/1 integer, depending on the endpoint.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return errors.Errorf("invalid flag value %q", data)
	}
	return nil
}

// Bool returns the flag as a plain bool.
func (f Flag) Bool() bool { return bool(f) }

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Time is a timestamp the backend serializes as an ISO string or as a
// sqlite datetime string.
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "unmarshaling timestamp")
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return errors.Errorf("unsupported timestamp format %q", s)
}

// User holds the profile fields the backend returns on login and
// auth-status checks.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date"`
}

// Limits holds the server-side usage counters of an authenticated user.
type Limits struct {
	IsPremium         Flag `json:"is_premium"`
	RequestsUsed      int  `json:"requests_used"`
	MaxRequests       int  `json:"max_requests"`
	CurrentChats      int  `json:"current_chats"`
	MaxChats          int  `json:"max_chats"`
	RequestsRemaining int  `json:"requests_remaining"`
}

// ChatSummary is one entry of the chat list.
type ChatSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreatedAt     Time   `json:"created_at"`
	LastMessageAt *Time  `json:"last_message_at"`
}

// Message is one user/assistant exchange of a chat.
type Message struct {
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	Timestamp   Time   `json:"timestamp"`
}

// ChatInfo holds the metadata returned alongside a chat's messages.
type ChatInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt Time   `json:"created_at"`
}

// UserRecord is one row of the admin users table.
type UserRecord struct {
	ID           string `json:"id"`
	Phone        string `json:"phone"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	CreatedAt    Time   `json:"created_at"`
	ChatCount    int    `json:"chat_count"`
	MessageCount int    `json:"message_count"`
	IsPremium    Flag   `json:"is_premium"`
	IsBanned     Flag   `json:"is_banned"`
}

// AdminStats holds the aggregate counters of the admin dashboard.
type AdminStats struct {
	TotalUsers    int `json:"total_users"`
	TotalPremium  int `json:"total_premium"`
	TotalBanned   int `json:"total_banned"`
	TotalChats    int `json:"total_chats"`
	TotalMessages int `json:"total_messages"`
}

// RegisterRequest holds the registration form fields.
type RegisterRequest struct {
	Phone     string `json:"phone"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date"`
}

// LoginResponse is the successful login payload.
type LoginResponse struct {
	User      *User  `json:"user"`
	SessionID string `json:"sessionId"`
}

// RegisterResponse is the successful registration payload.
type RegisterResponse struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

// CreateChatResponse is the successful chat creation payload.
type CreateChatResponse struct {
	ChatID string `json:"chatId"`
	Title  string `json:"title"`
}

// ChatMessagesResponse is the payload of a chat's message history.
type ChatMessagesResponse struct {
	Messages []*Message `json:"messages"`
	ChatInfo *ChatInfo  `json:"chatInfo"`
}
