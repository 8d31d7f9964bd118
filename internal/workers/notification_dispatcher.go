package workers

import (
	"context"
	"sync"
	"time"

	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/metrics"
	"bharatrohan/hangar/internal/models/dtos"
	"bharatrohan/hangar/internal/providers"
)

// NotificationResult is reported once per dispatched notice
type NotificationResult struct {
	Notice   dtos.MaintenanceNotice
	Err      error
	Duration time.Duration
}

// NotificationDispatcher delivers maintenance notices off the request path.
// Each notice gets its own goroutine and its own timeout and is attempted
// once. Results only reach the log, metrics and the optional results channel.
type NotificationDispatcher struct {
	notifier providers.Notifier
	timeout  time.Duration
	metrics  *metrics.MetricsRegistry
	results  chan<- NotificationResult

	wg sync.WaitGroup
}

// NewNotificationDispatcher creates a dispatcher. metricsReg may be nil.
func NewNotificationDispatcher(notifier providers.Notifier, timeout time.Duration, metricsReg *metrics.MetricsRegistry) *NotificationDispatcher {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &NotificationDispatcher{
		notifier: notifier,
		timeout:  timeout,
		metrics:  metricsReg,
	}
}

// WithResults makes the dispatcher publish each outcome on ch. Sends never
// block; outcomes are dropped when ch is full.
func (d *NotificationDispatcher) WithResults(ch chan<- NotificationResult) *NotificationDispatcher {
	d.results = ch
	return d
}

// Dispatch returns immediately.
func (d *NotificationDispatcher) Dispatch(notice dtos.MaintenanceNotice) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(notice)
	}()
}

// Wait blocks until every dispatched notice has finished or ctx is done.
func (d *NotificationDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *NotificationDispatcher) deliver(notice dtos.MaintenanceNotice) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	err := d.notify(ctx, notice)
	elapsed := time.Since(start)

	if err != nil {
		logging.Warn("Maintenance notification failed",
			"drone_id", notice.DroneID,
			"serial_num", notice.SerialNum,
			"multiple", notice.Multiple,
			"duration_ms", elapsed.Milliseconds(),
			"error", err.Error(),
		)
	} else {
		logging.Info("Maintenance notification sent",
			"drone_id", notice.DroneID,
			"serial_num", notice.SerialNum,
			"multiple", notice.Multiple,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	if d.metrics != nil {
		result := "sent"
		if err != nil {
			result = "failed"
		}
		d.metrics.NotificationsTotal.WithLabelValues(result).Inc()
		d.metrics.NotificationDuration.Observe(elapsed.Seconds())
	}

	if d.results != nil {
		select {
		case d.results <- NotificationResult{Notice: notice, Err: err, Duration: elapsed}:
		default:
		}
	}
}

// notify shields the caller from a panicking notifier
func (d *NotificationDispatcher) notify(ctx context.Context, notice dtos.MaintenanceNotice) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &providers.ProviderError{Code: "PANIC", Message: "notifier panicked"}
			logging.Error("Notifier panicked", "panic", r)
		}
	}()
	return d.notifier.Notify(ctx, notice)
}
