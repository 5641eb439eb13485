package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"storefront/models"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

// TelegramPublisher sends and deletes order messages via the Telegram bot
// API. The API has no edit-in-place primitive used here, so an update is
// reflected as delete-then-resend by the caller.
type TelegramPublisher struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// NewTelegramPublisher creates a publisher for the given bot token and
// destination chat.
func NewTelegramPublisher(botToken, chatID string) (*TelegramPublisher, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram bot token not set")
	}
	if chatID == "" {
		return nil, fmt.Errorf("telegram chat ID not set")
	}

	return &TelegramPublisher{
		botToken:   botToken,
		chatID:     chatID,
		baseURL:    defaultTelegramBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Publish posts the formatted order message and returns the new message id.
func (t *TelegramPublisher) Publish(ctx context.Context, order *models.Order, event Event) (string, error) {
	payload := map[string]interface{}{
		"chat_id":    t.chatID,
		"text":       FormatOrderMessage(order, event),
		"parse_mode": "Markdown",
	}

	var result telegramResponse
	if err := t.post(ctx, "sendMessage", payload, &result); err != nil {
		return "", err
	}

	return strconv.FormatInt(result.Result.MessageID, 10), nil
}

// Retract deletes a previously posted message by its identifier.
func (t *TelegramPublisher) Retract(ctx context.Context, messageID string) error {
	id, err := strconv.ParseInt(messageID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid message ID %q: %w", messageID, err)
	}

	payload := map[string]interface{}{
		"chat_id":    t.chatID,
		"message_id": id,
	}

	var result telegramResponse
	return t.post(ctx, "deleteMessage", payload, &result)
}

func (t *TelegramPublisher) post(ctx context.Context, method string, payload map[string]interface{}, out *telegramResponse) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read telegram response: %w", err)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("invalid telegram response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("telegram %s error: %s", method, out.Description)
	}

	return nil
}
