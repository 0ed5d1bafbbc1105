package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"pump-maintenance-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans maintenance alerts out to push subscribers. A weekly save
// dispatches the equipment IDs whose logs crossed an alert rule; workers do
// the subscription lookups and pushes off the request path, so a slow or
// failing push service never delays a save.
type WorkerPool struct {
	size    int
	jobs    chan int
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int, size*4),
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
	log.Printf("notification worker %d started", id)
	for {
		select {
		case equipmentID := <-wp.jobs:
			wp.notifySubscribers(ctx, equipmentID)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert for the given equipment. Fire-and-forget: when the
// queue is full the alert is dropped rather than blocking the save that
// produced it.
func (wp *WorkerPool) Dispatch(equipmentID int) {
	select {
	case wp.jobs <- equipmentID:
	default:
		log.Printf("notification queue full, dropping alert for equipment %d", equipmentID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int { return wp.jobs }

// notifySubscribers pushes an alert to everyone subscribed to the equipment.
func (wp *WorkerPool) notifySubscribers(ctx context.Context, equipmentID int) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_equipment_mapping sem ON sem.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sem.equipment_equipment_id = ?", equipmentID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("error fetching subscriptions for equipment %d: %v", equipmentID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	label := fmt.Sprintf("equipment %d", equipmentID)
	var eq model.Equipment
	if err := wp.db.WithContext(ctx).
		Select("equipment_name").
		First(&eq, "equipment_id = ?", equipmentID).Error; err != nil {
		log.Printf("error fetching equipment %d: %v", equipmentID, err)
	} else if eq.EquipmentName != "" {
		label = eq.EquipmentName
	}

	message := fmt.Sprintf("Pump %s needs attention: check this week's maintenance log.", label)
	log.Printf("sending %d alert notifications for equipment %d", len(subscriptions), equipmentID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions.
	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription for endpoint %s is expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
