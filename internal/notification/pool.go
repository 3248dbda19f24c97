package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"plantbox-backend/internal/model"
	"plantbox-backend/internal/store"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job is one alert notification to fan out to a box's subscriptions.
type Job struct {
	BoxID int64             `json:"-"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Pool manages a pool of workers delivering alert notifications. Delivery
// is best-effort: failures are logged and never reach the reading pipeline.
type Pool struct {
	size    int
	jobs    chan Job
	store   store.Store
	webpush *webpush.Options
	sender  Sender
}

// NewPool creates a new notification worker pool.
func NewPool(size int, s store.Store, webpushOptions *webpush.Options) *Pool {
	return &Pool{
		size:    size,
		jobs:    make(chan Job, size), // Buffered channel
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		go p.worker(ctx, i)
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	for {
		select {
		case job := <-p.jobs:
			p.deliver(ctx, job)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch enqueues a job without blocking the caller. If the queue is
// full the job is dropped and logged; losing a push beats stalling the
// reading pipeline.
func (p *Pool) Dispatch(job Job) {
	select {
	case p.jobs <- job:
	default:
		log.Printf("notification queue full, dropping push for box %d", job.BoxID)
	}
}

// Jobs returns the jobs channel for testing.
func (p *Pool) Jobs() chan Job {
	return p.jobs
}

// deliver fans one job out to every subscription registered for the box.
func (p *Pool) deliver(ctx context.Context, job Job) {
	subs, err := p.store.SubscriptionsForBox(ctx, job.BoxID)
	if err != nil {
		log.Printf("fetching subscriptions for box %d: %v", job.BoxID, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		log.Printf("encoding push payload for box %d: %v", job.BoxID, err)
		return
	}

	log.Printf("sending %d notifications for box %d", len(subs), job.BoxID)
	for _, sub := range subs {
		p.send(ctx, sub, payload)
	}
}

func (p *Pool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := p.sender.Send(payload, wpSub, p.webpush)
	if err != nil {
		log.Printf("sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are pruned on the spot.
	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription %s is expired, deleting", sub.Endpoint)
		if err := p.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}

// SetSender replaces the delivery implementation. Used by tests.
func (p *Pool) SetSender(s Sender) {
	p.sender = s
}
