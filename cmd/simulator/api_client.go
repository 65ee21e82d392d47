package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/api",
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type Temple struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	State     string   `json:"state"`
	Deity     string   `json:"deity"`
	Festivals []string `json:"festivals"`
}

type ChatReply struct {
	Message   string    `json:"message,omitempty"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

type apiError struct {
	Detail string `json:"detail"`
}

// RegisterUser creates a new account with a unique email derived from baseName
func (c *APIClient) RegisterUser(baseName string) (*User, string, error) {
	suffix := time.Now().UnixNano() % 1000000
	body := map[string]string{
		"username": fmt.Sprintf("%s_%d", baseName, suffix),
		"email":    fmt.Sprintf("%s_%d@example.com", strings.ToLower(baseName), suffix),
		"password": "testpassword123",
	}

	var result AuthResponse
	if err := c.do(http.MethodPost, "/auth/register", body, "", &result); err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}
	return &result.User, result.AccessToken, nil
}

// Login authenticates an existing account
func (c *APIClient) Login(email, password string) (*User, string, error) {
	var result AuthResponse
	err := c.do(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, "", &result)
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	return &result.User, result.AccessToken, nil
}

// ListTemples returns the catalog, optionally filtered
func (c *APIClient) ListTemples(state, deity string) ([]Temple, error) {
	q := url.Values{}
	if state != "" {
		q.Set("state", state)
	}
	if deity != "" {
		q.Set("deity", deity)
	}
	path := "/temples"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var temples []Temple
	if err := c.do(http.MethodGet, path, nil, "", &temples); err != nil {
		return nil, fmt.Errorf("list temples: %w", err)
	}
	return temples, nil
}

// SaveTemple adds a temple to the caller's saved list
func (c *APIClient) SaveTemple(token, templeID string) error {
	return c.do(http.MethodPost, "/temples/saved", map[string]string{"temple_id": templeID}, token, nil)
}

// SavedTemples lists the caller's saved temples
func (c *APIClient) SavedTemples(token string) ([]Temple, error) {
	var temples []Temple
	if err := c.do(http.MethodGet, "/temples/saved/list", nil, token, &temples); err != nil {
		return nil, fmt.Errorf("list saved temples: %w", err)
	}
	return temples, nil
}

// Chat sends one message to the assistant over REST
func (c *APIClient) Chat(token, message string) (*ChatReply, error) {
	var reply ChatReply
	if err := c.do(http.MethodPost, "/chat/mitra", map[string]string{"message": message}, token, &reply); err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return &reply, nil
}

// ChatWS sends each message over one websocket connection and waits for each reply
func (c *APIClient) ChatWS(token string, messages []string) ([]ChatReply, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/chat/mitra/ws?token=" + url.QueryEscape(token)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial websocket (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial websocket: %w", err)
	}
	defer conn.Close()

	replies := make([]ChatReply, 0, len(messages))
	for _, msg := range messages {
		if err := conn.WriteJSON(map[string]string{"message": msg}); err != nil {
			return replies, fmt.Errorf("send frame: %w", err)
		}
		conn.SetReadDeadline(time.Now().Add(c.httpClient.Timeout))

		var reply ChatReply
		if err := conn.ReadJSON(&reply); err != nil {
			return replies, fmt.Errorf("read frame: %w", err)
		}
		if reply.Error != "" {
			return replies, fmt.Errorf("assistant: %s", reply.Error)
		}
		replies = append(replies, reply)
	}
	return replies, nil
}

func (c *APIClient) do(method, path string, body interface{}, token string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		bodyBytes, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Detail)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
