package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Client calls the backend REST API. It carries no session state: the
// session token is passed per call by the session manager.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates an API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// envelope holds the failure fields every backend response may carry.
type envelope struct {
	Success   *bool  `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	IsBanned  Flag   `json:"is_banned"`
	LimitType string `json:"limit_type"`
}

// do performs one request and decodes the response into out (which may be
// nil). A failed response is returned as a *StatusError; a transport failure
// as a *NetworkError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var requestBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshaling request body")
		}
		requestBody = bytes.NewBuffer(payload)
	} else {
		requestBody = bytes.NewBuffer(nil)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, requestBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer response.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(response.Body).Decode(&raw); err != nil {
		if response.StatusCode >= 400 {
			// Some failures carry no JSON body at all.
			return &StatusError{StatusCode: response.StatusCode}
		}
		return errors.Wrap(err, "decoding response")
	}

	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return errors.Wrap(err, "decoding response envelope")
	}
	failed := response.StatusCode >= 400 || (e.Success != nil && !*e.Success)
	if failed {
		message := e.Error
		if message == "" {
			message = e.Message
		}
		return &StatusError{
			StatusCode: response.StatusCode,
			Message:    message,
			IsBanned:   e.IsBanned.Bool(),
			LimitType:  e.LimitType,
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, "decoding response payload")
		}
	}
	return nil
}

// Login authenticates by phone number.
func (c *Client) Login(ctx context.Context, phone string) (*LoginResponse, error) {
	out := &LoginResponse{}
	body := map[string]string{"phone": phone}
	if err := c.do(ctx, http.MethodPost, "/login", "", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, request *RegisterRequest) (*RegisterResponse, error) {
	out := &RegisterResponse{}
	if err := c.do(ctx, http.MethodPost, "/register", "", request, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AuthStatus validates a session token and returns the user it belongs to.
func (c *Client) AuthStatus(ctx context.Context, token string) (*User, error) {
	out := &struct {
		User *User `json:"user"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/auth/status", token, nil, out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout notifies the backend that the session is over.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/logout", token, nil, nil)
}

// UserLimits fetches the caller's usage counters.
func (c *Client) UserLimits(ctx context.Context, token string) (*Limits, error) {
	out := &struct {
		User *Limits `json:"user"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/user/limits", token, nil, out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// CreateChat creates a chat, optionally seeded with a first message.
func (c *Client) CreateChat(ctx context.Context, token, userID, firstMessage string) (*CreateChatResponse, error) {
	out := &CreateChatResponse{}
	body := map[string]string{"userId": userID, "firstMessage": firstMessage}
	if err := c.do(ctx, http.MethodPost, "/chats/create", token, body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListChats fetches the user's chat summaries.
func (c *Client) ListChats(ctx context.Context, token, userID string) ([]*ChatSummary, error) {
	out := &struct {
		Chats []*ChatSummary `json:"chats"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/chats/"+url.PathEscape(userID), token, nil, out); err != nil {
		return nil, err
	}
	return out.Chats, nil
}

// ChatMessages fetches a chat's full message history.
func (c *Client) ChatMessages(ctx context.Context, token, chatID string) (*ChatMessagesResponse, error) {
	out := &ChatMessagesResponse{}
	path := fmt.Sprintf("/chats/%s/messages", url.PathEscape(chatID))
	if err := c.do(ctx, http.MethodGet, path, token, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage sends a message to a chat and returns the interpretation.
func (c *Client) SendMessage(ctx context.Context, token, chatID, message string) (string, error) {
	out := &struct {
		Response string `json:"response"`
	}{}
	path := fmt.Sprintf("/chats/%s/message", url.PathEscape(chatID))
	body := map[string]string{"message": message}
	if err := c.do(ctx, http.MethodPost, path, token, body, out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// DeleteChat deletes a chat.
func (c *Client) DeleteChat(ctx context.Context, token, chatID, userID string) error {
	path := fmt.Sprintf("/chats/%s?userId=%s", url.PathEscape(chatID), url.QueryEscape(userID))
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// GuestMessage sends an unauthenticated message and returns the
// interpretation.
func (c *Client) GuestMessage(ctx context.Context, message, chatID string) (string, error) {
	out := &struct {
		Response string `json:"response"`
	}{}
	body := map[string]string{"message": message, "chatId": chatID}
	if err := c.do(ctx, http.MethodPost, "/guest/message", "", body, out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// AdminCheck reports whether the session belongs to an administrator.
func (c *Client) AdminCheck(ctx context.Context, token string) (bool, error) {
	out := &struct {
		IsAdmin bool `json:"is_admin"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/admin/check", token, nil, out); err != nil {
		return false, err
	}
	return out.IsAdmin, nil
}

// AdminStats fetches the dashboard counters.
func (c *Client) AdminStats(ctx context.Context, token string) (*AdminStats, error) {
	out := &struct {
		Stats *AdminStats `json:"stats"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/admin/stats", token, nil, out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

// AdminUsers fetches every user record.
func (c *Client) AdminUsers(ctx context.Context, token string) ([]*UserRecord, error) {
	out := &struct {
		Users []*UserRecord `json:"users"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/admin/users", token, nil, out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// ToggleUserPremium flips a user's premium flag and returns the new value.
func (c *Client) ToggleUserPremium(ctx context.Context, token, userID string) (bool, error) {
	out := &struct {
		IsPremium Flag `json:"is_premium"`
	}{}
	path := fmt.Sprintf("/admin/user/%s/toggle-premium", url.PathEscape(userID))
	if err := c.do(ctx, http.MethodPost, path, token, nil, out); err != nil {
		return false, err
	}
	return out.IsPremium.Bool(), nil
}

// ToggleUserBan flips a user's ban flag and returns the new value.
func (c *Client) ToggleUserBan(ctx context.Context, token, userID string) (bool, error) {
	out := &struct {
		IsBanned Flag `json:"is_banned"`
	}{}
	path := fmt.Sprintf("/admin/user/%s/toggle-ban", url.PathEscape(userID))
	if err := c.do(ctx, http.MethodPost, path, token, nil, out); err != nil {
		return false, err
	}
	return out.IsBanned.Bool(), nil
}

// PurchasePremium buys a premium plan ("monthly" or "yearly").
func (c *Client) PurchasePremium(ctx context.Context, token, plan string) error {
	body := map[string]string{"plan": plan}
	return c.do(ctx, http.MethodPost, "/premium/purchase", token, body, nil)
}
