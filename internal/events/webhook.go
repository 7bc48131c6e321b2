package events

import (
	"context"
	"time"

	"github.com/MKhiriev/go-canvas-vault/internal/config"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
)

// defaultQueueSize bounds the forwarder queue when the config leaves it unset.
const defaultQueueSize = 64

// webhookPayload is the JSON body POSTed to the collaborator endpoint.
type webhookPayload struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       Event     `json:"data"`
}

// WebhookForwarder mirrors bus events to an external collaborator endpoint
// over HTTP. Events are queued through a buffered channel so publishing
// never blocks on the network; when the queue is full the event is dropped
// with a warning.
type WebhookForwarder struct {
	client *utils.HTTPClient
	url    string
	queue  chan Event
	log    *logger.Logger

	unsubscribe func()
}

// NewWebhookForwarder constructs a forwarder POSTing to cfg.WebhookURL with
// the timeout and retry budget from cfg. Call [WebhookForwarder.Attach] to
// start receiving events and run the drain loop via
// [WebhookForwarder.Run].
func NewWebhookForwarder(cfg config.Events, log *logger.Logger) *WebhookForwarder {
	client := utils.NewHTTPClient()
	client.
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(cfg.RetryCount)

	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	return &WebhookForwarder{
		client: client,
		url:    cfg.WebhookURL,
		queue:  make(chan Event, size),
		log:    log,
	}
}

// Attach subscribes the forwarder to bus. Enqueueing is non-blocking: if the
// queue is full the event is dropped and logged, the publisher is never
// delayed.
func (f *WebhookForwarder) Attach(bus *Bus) {
	f.unsubscribe = bus.Subscribe(func(e Event) {
		select {
		case f.queue <- e:
		default:
			f.log.Warn().Str("event", e.Name()).Msg("webhook queue full, event dropped")
		}
	})
}

// Run drains the queue and POSTs each event until ctx is cancelled. It
// detaches from the bus on exit. Run blocks and is meant to be started as a
// background worker.
func (f *WebhookForwarder) Run(ctx context.Context) {
	defer func() {
		if f.unsubscribe != nil {
			f.unsubscribe()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-f.queue:
			f.send(ctx, e)
		}
	}
}

func (f *WebhookForwarder) send(ctx context.Context, e Event) {
	payload := webhookPayload{
		Event:      e.Name(),
		OccurredAt: time.Now().UTC(),
		Data:       e,
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(f.url)
	if err != nil {
		f.log.Warn().Err(err).Str("event", e.Name()).Msg("webhook delivery failed")
		return
	}
	if resp.IsError() {
		f.log.Warn().
			Str("event", e.Name()).
			Int("status", resp.StatusCode()).
			Msg("webhook endpoint returned an error")
	}
}
