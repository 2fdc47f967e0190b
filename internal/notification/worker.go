package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"campus-booking-backend/internal/model"
)

// EventKind classifies a booking event pushed to subscribers.
type EventKind string

const (
	EventBookingCreated   EventKind = "booking_created"
	EventBookingCancelled EventKind = "booking_cancelled"
)

// Event is one unit of work for the pool: notify subscribers of a resource
// about booking activity on it.
type Event struct {
	Kind       EventKind
	ResourceID int64
	BookingID  int64
}

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending booking notifications.
type WorkerPool struct {
	size    int
	jobs    chan Event
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Event, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case ev := <-wp.jobs:
			wp.notifyResourceSubscribers(ctx, ev)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an event for delivery.
func (wp *WorkerPool) Dispatch(ev Event) {
	wp.jobs <- ev
}

// notifyResourceSubscribers fetches the resource's subscriptions and pushes
// the event to each.
func (wp *WorkerPool) notifyResourceSubscribers(ctx context.Context, ev Event) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_resource_mapping srm ON srm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("srm.resource_id = ?", ev.ResourceID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for resource %d: %v", ev.ResourceID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	var resource model.Resource
	label := fmt.Sprintf("resource %d", ev.ResourceID)
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&resource, ev.ResourceID).Error; err != nil {
		log.Printf("Error fetching resource %d: %v", ev.ResourceID, err)
	} else if resource.Name != "" {
		label = resource.Name
	}

	var body string
	switch ev.Kind {
	case EventBookingCreated:
		body = fmt.Sprintf("%s has a new booking", label)
	case EventBookingCancelled:
		body = fmt.Sprintf("A booking on %s was cancelled", label)
	default:
		body = fmt.Sprintf("Booking activity on %s", label)
	}

	payload, err := json.Marshal(map[string]any{
		"title":      "Booking update",
		"body":       body,
		"booking_id": ev.BookingID,
	})
	if err != nil {
		log.Printf("Error building payload for resource %d: %v", ev.ResourceID, err)
		return
	}

	log.Printf("Sending %d notifications for resource %d", len(subscriptions), ev.ResourceID)
	for _, sub := range subscriptions {
		wp.push(ctx, payload, sub)
	}
}

func (wp *WorkerPool) push(ctx context.Context, payload []byte, sub model.PushSubscription) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
