package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

// fakeTelegram records calls to the bot API and serves canned responses.
type fakeTelegram struct {
	server   *httptest.Server
	requests []fakeRequest
	respond  func(method string) (int, string)
}

type fakeRequest struct {
	method  string
	payload map[string]interface{}
}

func newFakeTelegram(t *testing.T) *fakeTelegram {
	f := &fakeTelegram{
		respond: func(method string) (int, string) {
			if method == "sendMessage" {
				return http.StatusOK, `{"ok":true,"result":{"message_id":42}}`
			}
			return http.StatusOK, `{"ok":true,"result":true}`
		},
	}

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Path shape: /bot<token>/<method>
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		method := r.URL.Path[len("/bottest-token/"):]
		f.requests = append(f.requests, fakeRequest{method: method, payload: payload})

		status, body := f.respond(method)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestPublisher(t *testing.T, fake *fakeTelegram) *TelegramPublisher {
	pub, err := NewTelegramPublisher("test-token", "-100123")
	require.NoError(t, err)
	pub.baseURL = fake.server.URL
	return pub
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            uuid.MustParse("ab54e855-1c2d-4d6f-8a9b-0c1d2e3f4a5b"),
		Status:        models.StatusPending,
		PaymentMethod: models.PaymentCreditCard,
		Total:         decimal.RequireFromString("25.00"),
		CreatedAt:     time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
		User:          models.User{Name: "Alice", Email: "alice@example.com"},
		OrderItems: []models.OrderItem{
			{Quantity: 2, Price: decimal.RequireFromString("10.00"), Product: models.Product{Name: "Laptop"}},
			{Quantity: 1, Price: decimal.RequireFromString("5.00"), Product: models.Product{Name: "Mouse"}},
		},
	}
}

func TestNewTelegramPublisher_RequiresConfig(t *testing.T) {
	_, err := NewTelegramPublisher("", "-100123")
	assert.Error(t, err)

	_, err = NewTelegramPublisher("test-token", "")
	assert.Error(t, err)
}

func TestPublish_ReturnsMessageID(t *testing.T) {
	fake := newFakeTelegram(t)
	pub := newTestPublisher(t, fake)

	id, err := pub.Publish(context.Background(), sampleOrder(), EventReceipt)
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "sendMessage", req.method)
	assert.Equal(t, "-100123", req.payload["chat_id"])
	assert.Equal(t, "Markdown", req.payload["parse_mode"])
	assert.Contains(t, req.payload["text"], "ORDER CONFIRMED")
}

func TestPublish_APIError(t *testing.T) {
	fake := newFakeTelegram(t)
	fake.respond = func(string) (int, string) {
		return http.StatusBadRequest, `{"ok":false,"description":"Bad Request: chat not found"}`
	}
	pub := newTestPublisher(t, fake)

	_, err := pub.Publish(context.Background(), sampleOrder(), EventReceipt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestRetract_DeletesMessage(t *testing.T) {
	fake := newFakeTelegram(t)
	pub := newTestPublisher(t, fake)

	err := pub.Retract(context.Background(), "42")
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "deleteMessage", req.method)
	assert.Equal(t, "-100123", req.payload["chat_id"])
	assert.Equal(t, float64(42), req.payload["message_id"])
}

func TestRetract_InvalidMessageID(t *testing.T) {
	fake := newFakeTelegram(t)
	pub := newTestPublisher(t, fake)

	err := pub.Retract(context.Background(), "not-a-number")
	assert.Error(t, err)
	assert.Empty(t, fake.requests, "no request should be sent for a malformed id")
}

func TestFormatOrderMessage_Receipt(t *testing.T) {
	msg := FormatOrderMessage(sampleOrder(), EventReceipt)

	assert.Contains(t, msg, "ORDER CONFIRMED")
	assert.Contains(t, msg, "ORDER #AB54E855")
	assert.Contains(t, msg, "Mar 15, 2024")
	assert.Contains(t, msg, "Status: *PENDING*")
	assert.Contains(t, msg, "Credit Card")
	assert.Contains(t, msg, "Alice")
	assert.Contains(t, msg, "alice@example.com")
	assert.Contains(t, msg, "*Laptop*")
	assert.Contains(t, msg, "$10.00 = *$20.00*")
	assert.Contains(t, msg, "GRAND TOTAL: $25.00")
	assert.Contains(t, msg, "Thank you for your purchase")
}

func TestFormatOrderMessage_StatusUpdate(t *testing.T) {
	order := sampleOrder()
	order.Status = models.StatusShipped

	msg := FormatOrderMessage(order, EventStatusUpdate)

	assert.Contains(t, msg, "STATUS UPDATED")
	assert.Contains(t, msg, "Status: *SHIPPED*")
	assert.NotContains(t, msg, "ORDER CONFIRMED")
}

func TestFormatOrderMessage_MissingCustomerFields(t *testing.T) {
	order := sampleOrder()
	order.User = models.User{}

	msg := FormatOrderMessage(order, EventReceipt)

	assert.Contains(t, msg, "Customer")
	assert.Contains(t, msg, "N/A")
}
