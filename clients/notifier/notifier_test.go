package notifier

import (
	"errors"
	"testing"
	"time"
)

type recordingNotifier struct {
	alerts   []Alert
	closed   bool
	closeErr error
}

func (r *recordingNotifier) SendAlert(alert Alert) { r.alerts = append(r.alerts, alert) }
func (r *recordingNotifier) Close() error {
	r.closed = true
	return r.closeErr
}

func TestMultiNotifier_FanOut(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{}
	m := NewMultiNotifier(a, nil, b)

	alert := Alert{Message: "settlement failed", Priority: "urgent", Received: time.Now()}
	m.SendAlert(alert)

	for i, r := range []*recordingNotifier{a, b} {
		if len(r.alerts) != 1 {
			t.Fatalf("notifier %d received %d alerts, want 1", i, len(r.alerts))
		}
		if r.alerts[0].Message != alert.Message {
			t.Errorf("notifier %d message = %q", i, r.alerts[0].Message)
		}
	}
}

func TestMultiNotifier_Close(t *testing.T) {
	a := &recordingNotifier{closeErr: errors.New("disconnect failed")}
	b := &recordingNotifier{}
	m := NewMultiNotifier(a, b)

	err := m.Close()
	if err == nil || err.Error() != "disconnect failed" {
		t.Errorf("err = %v, want first close error", err)
	}
	if !a.closed || !b.closed {
		t.Error("all notifiers must be closed even when one fails")
	}
}

func TestMultiNotifier_Empty(t *testing.T) {
	m := NewMultiNotifier(nil, nil)
	m.SendAlert(Alert{Message: "x"})
	if err := m.Close(); err != nil {
		t.Errorf("close of empty notifier set: %v", err)
	}
}
