package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/realtime"
)

// AlertPublisher accepts alerts raised while serving a request. Publishing never fails the caller.
type AlertPublisher interface {
	Publish(message string, alertType models.AlertType)
}

// Broadcaster pushes events to connected clients
type Broadcaster interface {
	Broadcast(event *realtime.Event)
}

// AlertService stores system alerts and pushes new ones to the realtime feed
type AlertService struct {
	store       AlertStore
	broadcaster Broadcaster
}

// NewAlertService creates the service. broadcaster may be nil.
func NewAlertService(store AlertStore, broadcaster Broadcaster) *AlertService {
	return &AlertService{store: store, broadcaster: broadcaster}
}

// List returns every alert, newest first
func (s *AlertService) List(ctx context.Context) ([]models.Alert, error) {
	alerts, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// Create validates and stores an alert, then broadcasts it
func (s *AlertService) Create(ctx context.Context, message string, alertType models.AlertType) (*models.Alert, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, validationErr("message is required")
	}
	if alertType == "" {
		alertType = models.AlertInfo
	}
	if !alertType.IsValid() {
		return nil, &ValidationError{Code: "INVALID_ALERT_TYPE", Message: "Invalid alert type: " + string(alertType)}
	}

	alert := &models.Alert{Message: message, Type: alertType}
	if err := s.store.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(&realtime.Event{Type: realtime.EventAlert, Payload: alert})
	}
	return alert, nil
}

type alertRequest struct {
	message   string
	alertType models.AlertType
}

// AlertDispatcher writes alerts on a background worker so request paths never wait on them
type AlertDispatcher struct {
	alerts *AlertService
	queue  chan alertRequest
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAlertDispatcher starts the worker. size is the queue capacity.
func NewAlertDispatcher(alerts *AlertService, size int) *AlertDispatcher {
	if size <= 0 {
		size = 100
	}
	d := &AlertDispatcher{
		alerts: alerts,
		queue:  make(chan alertRequest, size),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *AlertDispatcher) worker() {
	defer close(d.done)
	for req := range d.queue {
		if _, err := d.alerts.Create(context.Background(), req.message, req.alertType); err != nil {
			log.Printf("alert error: type=%s err=%v", req.alertType, err)
		}
	}
}

// Publish queues an alert. When the queue is full the alert is dropped.
func (d *AlertDispatcher) Publish(message string, alertType models.AlertType) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("alert dispatcher closed, dropping alert: %s", message)
		return
	}

	select {
	case d.queue <- alertRequest{message: message, alertType: alertType}:
	default:
		log.Printf("alert queue full, dropping alert: %s", message)
	}
}

// Close stops accepting alerts and waits until queued ones are written
func (d *AlertDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
