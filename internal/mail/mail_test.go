package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookClient_Send(t *testing.T) {
	var got webhookRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"message":"Accepted","messageId":"m-1"}`))
	}))
	defer srv.Close()

	c := NewWebhookClient(srv.URL, "secret", time.Second)
	err := c.Send(context.Background(), Message{
		From:    "site@x.com",
		To:      []string{"jo@x.com"},
		Subject: "Hi",
		Body:    "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"jo@x.com"}, got.To)
	assert.Equal(t, "Hello", got.Text)
}

func TestWebhookClient_Send_Non2xxIsDeliveryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewWebhookClient(srv.URL, "", time.Second)
	err := c.Send(context.Background(), Message{To: []string{"jo@x.com"}})

	var de *DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []string{"jo@x.com"}, de.To)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookClient_Send_MissingMessageID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	err := NewWebhookClient(srv.URL, "", time.Second).Send(context.Background(), Message{To: []string{"a@b.co"}})
	assert.ErrorContains(t, err, "missing messageId")
}

func TestWebhookClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
	}))
	defer srv.Close()

	assert.NoError(t, NewWebhookClient(srv.URL, "", time.Second).Health(context.Background()))
}

func TestCompose(t *testing.T) {
	raw := string(compose(Message{
		From:    "site@x.com",
		To:      []string{"a@x.com", "b@x.com"},
		Subject: "Call Scheduled - Confirmation",
		Body:    "line one\nline two",
	}, time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)))

	assert.Contains(t, raw, "To: a@x.com, b@x.com\r\n")
	assert.Contains(t, raw, "Subject: Call Scheduled - Confirmation\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nline one\r\nline two"))
}

func TestConsoleSender_LogsMessage(t *testing.T) {
	log, hook := test.NewNullLogger()

	err := NewConsoleSender(log).Send(context.Background(), Message{To: []string{"a@x.com"}, Subject: "S", Body: "B"})

	require.NoError(t, err)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "B", hook.LastEntry().Message)
	assert.Equal(t, "S", hook.LastEntry().Data["subject"])
}
