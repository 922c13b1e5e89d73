package webhooks

import (
	"sort"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	DefaultRetention = time.Hour
	defaultCapacity  = 100
)

// Metrics counts received events by type and outcome.
type Metrics interface {
	ObserveWebhook(event string, outcome string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveWebhook(string, string) {}

// Receiver verifies, logs and remembers incoming events.
type Receiver struct {
	verifier Verifier
	recent   *ttlcache.Cache[string, Event]
	metrics  Metrics
	now      func() time.Time

	mu      sync.Mutex
	running bool
}

type Option func(*Receiver)

func WithMetrics(m Metrics) Option {
	return func(r *Receiver) {
		if m != nil {
			r.metrics = m
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Receiver) {
		r.now = now
	}
}

func NewReceiver(verifier Verifier, retention time.Duration, opts ...Option) *Receiver {
	if retention <= 0 {
		retention = DefaultRetention
	}
	r := &Receiver{
		verifier: verifier,
		recent: ttlcache.New(
			ttlcache.WithTTL[string, Event](retention),
			ttlcache.WithCapacity[string, Event](defaultCapacity),
			ttlcache.WithDisableTouchOnHit[string, Event](),
		),
		metrics: noopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the expiry loop in the background. It is a no-op when
// already running.
func (r *Receiver) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	go r.recent.Start()
}

// Stop ends the expiry loop started by Start. Safe to call when not running.
func (r *Receiver) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	r.recent.Stop()
}

// Receive checks the signature, parses the body and records the event.
func (r *Receiver) Receive(body []byte, signature string) (*Event, error) {
	if err := r.verifier.Verify(body, signature); err != nil {
		log.Warn().Msg("[Receiver Receive] webhook signature rejected")
		r.metrics.ObserveWebhook("", "rejected")
		return nil, err
	}

	ev, err := ParseEvent(body, r.now())
	if err != nil {
		log.Warn().Err(err).Msg("[Receiver Receive] webhook body rejected")
		r.metrics.ObserveWebhook("", "invalid")
		return nil, err
	}

	r.logEvent(*ev)
	r.recent.Set(ev.ID, *ev, ttlcache.DefaultTTL)
	r.metrics.ObserveWebhook(string(ev.Type), "accepted")
	return ev, nil
}

// Recent returns the retained events, newest first.
func (r *Receiver) Recent() []Event {
	items := r.recent.Items()
	events := make([]Event, 0, len(items))
	for _, item := range items {
		if item.IsExpired() {
			continue
		}
		events = append(events, item.Value())
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].ReceivedAt.After(events[j].ReceivedAt)
	})
	return events
}

func (r *Receiver) logEvent(ev Event) {
	var e *zerolog.Event
	if ev.Type == EventPaymentFailed {
		e = log.Warn()
	} else {
		e = log.Info()
	}

	e = e.Str("event", string(ev.Type)).
		Str("timestamp", ev.Timestamp).
		Str("environment", ev.Field("environment").String())

	if user := ev.Field("user"); user.Exists() {
		e = e.RawJSON("user", []byte(user.Raw))
	}
	if org := ev.Field("organization"); org.Exists() {
		e = e.RawJSON("organization", []byte(org.Raw))
	}

	switch ev.Type {
	case EventPaymentSuccess:
		e = e.RawJSON("transaction", rawOrNull(ev.Field("transaction")))
	case EventPaymentFailed:
		e = e.RawJSON("transaction", rawOrNull(ev.Field("transaction"))).
			Str("failureReason", ev.Field("failureReason").String())
	case EventUserConnected, EventUserDisconnected:
	default:
		e = e.Bool("unknownEvent", true)
	}
	e.Msg("[Receiver] webhook received")
}

func rawOrNull(r gjson.Result) []byte {
	if !r.Exists() {
		return []byte("null")
	}
	return []byte(r.Raw)
}
