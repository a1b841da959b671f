package notifier

import "time"

// Alert is a platform notification worth forwarding off-page. Only
// high/urgent priority notifications reach notifiers.
type Alert struct {
	Message  string
	Priority string
	Received time.Time
}

// Notifier is the interface for forwarding notification alerts to external
// channels.
type Notifier interface {
	// SendAlert forwards one alert. Implementations log and swallow their
	// own failures; an unreachable sink must not affect the page.
	SendAlert(alert Alert)

	// Close cleans up any resources.
	Close() error
}

// MultiNotifier broadcasts alerts to multiple notifiers.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a MultiNotifier, dropping nil entries.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	var active []Notifier
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &MultiNotifier{notifiers: active}
}

// SendAlert sends the alert to all registered notifiers.
func (m *MultiNotifier) SendAlert(alert Alert) {
	for _, n := range m.notifiers {
		n.SendAlert(alert)
	}
}

// Close closes all registered notifiers, returning the first error.
func (m *MultiNotifier) Close() error {
	var firstErr error
	for _, n := range m.notifiers {
		if err := n.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
