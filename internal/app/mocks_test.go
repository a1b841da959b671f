package app

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"tradebridge/clients/platformapi"
)

// manualScheduler runs callbacks when the test advances virtual time.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []manualTimer
}

type manualTimer struct {
	at time.Duration
	fn func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = append(s.timers, manualTimer{at: s.now + d, fn: fn})
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []func()
	var rest []manualTimer
	for _, tm := range s.timers {
		if tm.at <= s.now {
			due = append(due, tm.fn)
		} else {
			rest = append(rest, tm)
		}
	}
	s.timers = rest
	s.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// fakeEvents is an EventsClient with scripted connect results.
type fakeEvents struct {
	mu          sync.Mutex
	connectErrs []error // popped per attempt; nil entry = success
	connects    int

	msgCh chan json.RawMessage
	errCh chan error
}

func newFakeEvents(connectErrs ...error) *fakeEvents {
	return &fakeEvents{
		connectErrs: connectErrs,
		msgCh:       make(chan json.RawMessage, 16),
		errCh:       make(chan error, 16),
	}
}

func (f *fakeEvents) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if len(f.connectErrs) == 0 {
		return nil
	}
	err := f.connectErrs[0]
	f.connectErrs = f.connectErrs[1:]
	return err
}

func (f *fakeEvents) Connects() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects
}

func (f *fakeEvents) Messages() <-chan json.RawMessage { return f.msgCh }
func (f *fakeEvents) Errors() <-chan error             { return f.errCh }
func (f *fakeEvents) Close() error                     { return nil }

// fakeFetcher serves scripted market data per security.
type fakeFetcher struct {
	mu      sync.Mutex
	data    map[string]platformapi.MarketData
	errs    map[string]error
	fetched []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		data: make(map[string]platformapi.MarketData),
		errs: make(map[string]error),
	}
}

func (f *fakeFetcher) GetMarketData(ctx context.Context, securityID string) (platformapi.MarketData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, securityID)
	if err := f.errs[securityID]; err != nil {
		return platformapi.MarketData{}, err
	}
	return f.data[securityID], nil
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
