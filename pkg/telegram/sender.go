package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAPIBaseURL = "https://api.telegram.org"
	requestTimeout    = 10 * time.Second

	// LocalEchoMessageID is the placeholder identifier returned when the
	// sender runs without credentials and only echoes to the process log.
	LocalEchoMessageID = -1

	// Bot API etiquette: stay well under the documented per-chat limits
	sendRatePerSecond = 3
)

// Receipt is the parsed sendMessage response body.
type Receipt struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Sender delivers text messages to one fixed chat destination. Without a bot
// token and chat id it degrades to a local echo: no network call, a logged
// message, and a synthetic success receipt.
type Sender struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

type SenderOption func(*Sender)

// WithBaseURL overrides the Bot API base URL (used in tests)
func WithBaseURL(baseURL string) SenderOption {
	return func(s *Sender) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(client *http.Client) SenderOption {
	return func(s *Sender) {
		s.client = client
	}
}

// NewSender creates a sender for the given destination credentials. Either
// credential may be empty, which enables the local-echo fallback.
func NewSender(token, chatID string, options ...SenderOption) *Sender {
	s := &Sender{
		token:   token,
		chatID:  chatID,
		baseURL: defaultAPIBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(sendRatePerSecond), sendRatePerSecond),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Enabled reports whether real delivery is configured
func (s *Sender) Enabled() bool {
	return s.token != "" && s.chatID != ""
}

// sendMessageRequest is the sendMessage call body
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send delivers one Markdown-formatted message and returns the delivery
// receipt. Transport failures propagate to the caller; the caller decides
// whether they are fatal for its own response path.
func (s *Sender) Send(ctx context.Context, text string) (*Receipt, error) {
	if !s.Enabled() {
		log.Printf("WARN: TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not configured, echoing locally")
		log.Printf("INFO: Message that would have been sent: %s", text)
		receipt := &Receipt{OK: true}
		receipt.Result.MessageID = LocalEchoMessageID
		return receipt, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait aborted: %w", err)
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sendMessage body: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sendMessage request failed: %w", err)
	}
	defer resp.Body.Close()

	// The body is decoded best-effort first: an error reply is a rejection
	// whether or not it carries a parseable receipt.
	var receipt Receipt
	decodeErr := json.NewDecoder(resp.Body).Decode(&receipt)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (decodeErr == nil && !receipt.OK) {
		return nil, fmt.Errorf("sendMessage rejected: status=%d description=%s", resp.StatusCode, receipt.Description)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode sendMessage response: %w", decodeErr)
	}

	return &receipt, nil
}
