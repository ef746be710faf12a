package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender_Send(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":42}}`))
	}))
	defer server.Close()

	sender := NewSender("test-token", "12345", WithBaseURL(server.URL))

	receipt, err := sender.Send(context.Background(), "hola *mundo*")
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "12345", gotBody.ChatID)
	assert.Equal(t, "hola *mundo*", gotBody.Text)
	assert.Equal(t, "Markdown", gotBody.ParseMode)

	assert.True(t, receipt.OK)
	assert.Equal(t, int64(42), receipt.Result.MessageID)
}

func TestSender_Send_LocalEchoWithoutCredentials(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		chatID string
	}{
		{name: "no token", token: "", chatID: "12345"},
		{name: "no chat id", token: "test-token", chatID: ""},
		{name: "neither", token: "", chatID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := NewSender(tt.token, tt.chatID)
			assert.False(t, sender.Enabled())

			receipt, err := sender.Send(context.Background(), "mensaje local")
			require.NoError(t, err)
			assert.True(t, receipt.OK)
			assert.Equal(t, int64(LocalEchoMessageID), receipt.Result.MessageID)
		})
	}
}

func TestSender_Send_APIRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer server.Close()

	sender := NewSender("bad-token", "12345", WithBaseURL(server.URL))

	_, err := sender.Send(context.Background(), "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestSender_Send_TransportFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	sender := NewSender("test-token", "12345", WithBaseURL(server.URL))

	_, err := sender.Send(context.Background(), "hola")
	assert.Error(t, err)
}

func TestSender_Send_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer server.Close()

	sender := NewSender("test-token", "12345", WithBaseURL(server.URL))

	// The status rejection must win over the unparseable body
	_, err := sender.Send(context.Background(), "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
	assert.NotContains(t, err.Error(), "decode")
}
