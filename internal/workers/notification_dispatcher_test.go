package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"bharatrohan/hangar/internal/metrics"
	"bharatrohan/hangar/internal/models/dtos"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockNotifier struct {
	notifyFunc func(ctx context.Context, notice dtos.MaintenanceNotice) error
}

func (m *mockNotifier) Notify(ctx context.Context, notice dtos.MaintenanceNotice) error {
	return m.notifyFunc(ctx, notice)
}

func TestNotificationDispatcher_ReportsSuccess(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	results := make(chan NotificationResult, 1)

	var calls int32
	d := NewNotificationDispatcher(&mockNotifier{
		notifyFunc: func(ctx context.Context, notice dtos.MaintenanceNotice) error {
			atomic.AddInt32(&calls, 1)
			return nil
		},
	}, time.Second, reg).WithResults(results)

	d.Dispatch(dtos.MaintenanceNotice{SerialNum: "1200", Multiple: 1})

	select {
	case res := <-results:
		if res.Err != nil {
			t.Errorf("Expected no error, got %v", res.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for result")
	}

	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("Expected wait to finish, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected exactly one attempt, got %d", calls)
	}
	if got := testutil.ToFloat64(reg.NotificationsTotal.WithLabelValues("sent")); got != 1 {
		t.Errorf("Expected 1 sent notification, got %v", got)
	}
}

func TestNotificationDispatcher_FailureIsNotRetried(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	results := make(chan NotificationResult, 1)

	var calls int32
	d := NewNotificationDispatcher(&mockNotifier{
		notifyFunc: func(ctx context.Context, notice dtos.MaintenanceNotice) error {
			atomic.AddInt32(&calls, 1)
			return errors.New("connection refused")
		},
	}, time.Second, reg).WithResults(results)

	d.Dispatch(dtos.MaintenanceNotice{SerialNum: "1200", Multiple: 2})
	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("Expected wait to finish, got %v", err)
	}

	res := <-results
	if res.Err == nil {
		t.Error("Expected failure to be reported")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected one attempt, got %d", calls)
	}
	if got := testutil.ToFloat64(reg.NotificationsTotal.WithLabelValues("failed")); got != 1 {
		t.Errorf("Expected 1 failed notification, got %v", got)
	}
}

func TestNotificationDispatcher_AppliesTimeout(t *testing.T) {
	results := make(chan NotificationResult, 1)

	d := NewNotificationDispatcher(&mockNotifier{
		notifyFunc: func(ctx context.Context, notice dtos.MaintenanceNotice) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}, 50*time.Millisecond, nil).WithResults(results)

	d.Dispatch(dtos.MaintenanceNotice{SerialNum: "2001"})

	select {
	case res := <-results:
		if !errors.Is(res.Err, context.DeadlineExceeded) {
			t.Errorf("Expected deadline exceeded, got %v", res.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Notifier was not bounded by the dispatch timeout")
	}
}

func TestNotificationDispatcher_RecoversFromPanic(t *testing.T) {
	results := make(chan NotificationResult, 1)

	d := NewNotificationDispatcher(&mockNotifier{
		notifyFunc: func(ctx context.Context, notice dtos.MaintenanceNotice) error {
			panic("boom")
		},
	}, time.Second, nil).WithResults(results)

	d.Dispatch(dtos.MaintenanceNotice{SerialNum: "2001"})
	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("Expected wait to finish, got %v", err)
	}

	if res := <-results; res.Err == nil {
		t.Error("Expected panic to surface as an error result")
	}
}

func TestNotificationDispatcher_WaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	d := NewNotificationDispatcher(&mockNotifier{
		notifyFunc: func(ctx context.Context, notice dtos.MaintenanceNotice) error {
			<-release
			return nil
		},
	}, time.Minute, nil)

	d.Dispatch(dtos.MaintenanceNotice{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected wait to give up with the context, got %v", err)
	}
}
