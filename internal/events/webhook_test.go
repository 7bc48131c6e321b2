package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-canvas-vault/internal/config"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
)

// TestWebhookForwarder_DeliversPublishedEvent проверяет сквозную доставку:
// событие с шины сериализуется и доходит до вебхука.
func TestWebhookForwarder_DeliversPublishedEvent(t *testing.T) {
	type receivedPayload struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	received := make(chan receivedPayload, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p receivedPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		received <- p
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := config.Events{
		WebhookURL:     srv.URL,
		RequestTimeout: 2 * time.Second,
		QueueSize:      8,
	}
	forwarder := NewWebhookForwarder(cfg, logger.Nop())

	bus := NewBus(logger.Nop())
	forwarder.Attach(bus)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		forwarder.Run(ctx)
		close(done)
	}()

	bus.Publish(KeyAdded{KeyID: "k1", Provider: "openai"})

	select {
	case p := <-received:
		assert.Equal(t, "key:added", p.Event)

		var data KeyAdded
		require.NoError(t, json.Unmarshal(p.Data, &data))
		assert.Equal(t, "k1", data.KeyID)
		assert.Equal(t, "openai", data.Provider)
	case <-time.After(3 * time.Second):
		t.Fatal("webhook was not called")
	}

	cancel()
	<-done
}

// TestWebhookForwarder_FullQueueNeverBlocksPublisher проверяет, что при
// переполненной очереди Publish возвращается сразу, а событие отбрасывается.
func TestWebhookForwarder_FullQueueNeverBlocksPublisher(t *testing.T) {
	cfg := config.Events{
		WebhookURL:     "http://127.0.0.1:0", // drain loop is never started
		RequestTimeout: time.Second,
		QueueSize:      1,
	}
	forwarder := NewWebhookForwarder(cfg, logger.Nop())

	bus := NewBus(logger.Nop())
	forwarder.Attach(bus)

	finished := make(chan struct{})
	go func() {
		bus.Publish(VaultUnlocked{})   // fills the queue
		bus.Publish(SettingsChanged{}) // dropped, must not block
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full webhook queue")
	}
}
