package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramDeliver(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botsecret/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	tg := NewTelegram("secret", 0).WithBaseURL(srv.URL)
	require.NoError(t, tg.Deliver(context.Background(), 42, "hello"))
	assert.Equal(t, int64(42), got.ChatID)
	assert.Equal(t, "hello", got.Text)
}

func TestTelegramDeliverAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	err := NewTelegram("secret", 10).WithBaseURL(srv.URL).Deliver(context.Background(), 1, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramWithoutToken(t *testing.T) {
	assert.ErrorIs(t, NewTelegram("", 0).Deliver(context.Background(), 1, "x"), ErrNoToken)
}
