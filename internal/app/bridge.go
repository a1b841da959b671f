package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tradebridge/clients/notifier"
	"tradebridge/clients/platformapi"
	"tradebridge/clients/platformevents"
	"tradebridge/config"
	"tradebridge/internal/view"

	"github.com/jpillora/backoff"
	"go.uber.org/zap"
)

// ConnectionState tracks the push channel lifecycle. Owned solely by the
// bridge; transitions drive reconnection.
type ConnectionState int32

const (
	StateClosed ConnectionState = iota
	StateConnecting
	StateOpen
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// EventsClient is the push channel surface the bridge drives.
type EventsClient interface {
	Connect(ctx context.Context) error
	Messages() <-chan json.RawMessage
	Errors() <-chan error
	Close() error
}

// MarketDataFetcher is the REST surface the poll loop uses.
type MarketDataFetcher interface {
	GetMarketData(ctx context.Context, securityID string) (platformapi.MarketData, error)
}

// Bridge owns the realtime channel lifecycle and routes inbound messages to
// page mutations. One instance per page.
type Bridge struct {
	logger *zap.Logger
	cfg    *config.Config
	events EventsClient
	api    MarketDataFetcher
	page   *view.Page
	notif  notifier.Notifier
	sched  view.Scheduler

	state atomic.Int32

	// Fixed-delay reconnect policy: Min == Max pins the delay, no growth
	// and no attempt cap. An unreachable server retries at this cadence
	// forever; that is load-bearing behavior for compatibility.
	reconnect *backoff.Backoff

	reconnectMu      sync.Mutex
	reconnectPending bool
}

// NewBridge wires a bridge. api, notif and sched may be nil (no polling, no
// forwarding, system clock).
func NewBridge(
	logger *zap.Logger,
	cfg *config.Config,
	events EventsClient,
	api MarketDataFetcher,
	page *view.Page,
	notif notifier.Notifier,
	sched view.Scheduler,
) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sched == nil {
		sched = view.SystemScheduler()
	}

	delay := cfg.Channel.ReconnectDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}

	return &Bridge{
		logger: logger,
		cfg:    cfg,
		events: events,
		api:    api,
		page:   page,
		notif:  notif,
		sched:  sched,
		reconnect: &backoff.Backoff{
			Min:    delay,
			Max:    delay,
			Factor: 1,
			Jitter: false,
		},
	}
}

// Page returns the view model the bridge reconciles.
func (b *Bridge) Page() *view.Page {
	return b.page
}

// State returns the current channel state.
func (b *Bridge) State() ConnectionState {
	return ConnectionState(b.state.Load())
}

// Run connects the channel and processes events until ctx is cancelled.
// Nothing here is fatal to the caller: every failure path logs and continues.
func (b *Bridge) Run(ctx context.Context) error {
	b.Connect(ctx)

	var pollCh <-chan time.Time
	if b.cfg.Refresh.Enabled && b.api != nil {
		ticker := time.NewTicker(b.cfg.Refresh.Interval)
		defer ticker.Stop()
		pollCh = ticker.C
		b.logger.Info("market data auto-refresh enabled",
			zap.Duration("interval", b.cfg.Refresh.Interval),
		)
	}

	for {
		select {
		case <-ctx.Done():
			_ = b.events.Close()
			b.state.Store(int32(StateClosed))
			return nil

		case raw, ok := <-b.events.Messages():
			if !ok {
				return nil
			}
			b.HandleMessage(raw)

		case err, ok := <-b.events.Errors():
			if !ok {
				return nil
			}
			// The transport pairs every read error with a close, so one
			// event drives both: log the error, then reconnect.
			b.onError(err)
			b.onClose(ctx)

		case <-pollCh:
			b.pollMarketData(ctx)
		}
	}
}

// Connect opens the push channel. When the channel API is unavailable it
// reports and no-ops; the rest of the page keeps working without realtime
// updates. A dial failure schedules the next attempt.
func (b *Bridge) Connect(ctx context.Context) {
	b.state.Store(int32(StateConnecting))

	err := b.events.Connect(ctx)
	if err == nil {
		b.state.Store(int32(StateOpen))
		b.reconnect.Reset()
		b.logger.Info("channel connected")
		b.page.ShowToast("Connected to real-time updates", view.VariantSuccess, nil)
		return
	}

	b.state.Store(int32(StateClosed))

	if err == platformevents.ErrUnavailable {
		b.logger.Warn("channel unavailable, realtime updates disabled", zap.Error(err))
		return
	}

	b.logger.Warn("channel connect failed", zap.Error(err))
	b.scheduleReconnect(ctx)
}

// onError logs a channel error. It does not transition state; the paired
// close event drives reconnection.
func (b *Bridge) onError(err error) {
	b.logger.Error("channel error", zap.Error(err))
}

// onClose transitions to Closed and schedules exactly one reconnect attempt
// after the fixed delay.
func (b *Bridge) onClose(ctx context.Context) {
	b.state.Store(int32(StateClosed))
	b.logger.Info("channel disconnected")
	b.scheduleReconnect(ctx)
}

func (b *Bridge) scheduleReconnect(ctx context.Context) {
	b.reconnectMu.Lock()
	if b.reconnectPending {
		b.reconnectMu.Unlock()
		return
	}
	b.reconnectPending = true
	b.reconnectMu.Unlock()

	delay := b.reconnect.Duration()
	b.sched.AfterFunc(delay, func() {
		b.reconnectMu.Lock()
		b.reconnectPending = false
		b.reconnectMu.Unlock()

		if ctx.Err() != nil {
			return
		}
		b.Connect(ctx)
	})
}

// HandleMessage parses one raw frame and dispatches it by type. Malformed
// frames and unknown types are dropped and logged; they must never crash the
// handler chain.
func (b *Bridge) HandleMessage(raw []byte) {
	var msg ChannelMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		b.logger.Warn("dropping malformed channel frame", zap.Error(err))
		return
	}

	switch msg.Type {
	case msgTradeUpdate:
		var trade view.TradeUpdatePayload
		if err := json.Unmarshal(msg.Payload, &trade); err != nil {
			b.logger.Warn("dropping bad trade_update payload", zap.Error(err))
			return
		}
		b.page.PatchTradeStatus(trade)

	case msgMarketData:
		var md marketDataMessage
		if err := json.Unmarshal(msg.Payload, &md); err != nil {
			b.logger.Warn("dropping bad market_data payload", zap.Error(err))
			return
		}
		b.page.PatchMarketDataBySecurity(md.SecurityID, md.MarketDataPayload)

	case msgListingUpdate:
		var listing view.ListingUpdatePayload
		if err := json.Unmarshal(msg.Payload, &listing); err != nil {
			b.logger.Warn("dropping bad listing_update payload", zap.Error(err))
			return
		}
		b.page.PatchListing(listing)

	case msgNotification:
		var note view.NotificationPayload
		if err := json.Unmarshal(msg.Payload, &note); err != nil {
			b.logger.Warn("dropping bad notification payload", zap.Error(err))
			return
		}
		b.handleNotification(note)

	default:
		b.logger.Info("unknown channel message type", zap.String("type", msg.Type))
	}
}

// handleNotification bumps the unread badge for every notification and
// raises a pinned toast (plus external forwarding) for high/urgent ones.
func (b *Bridge) handleNotification(note view.NotificationPayload) {
	count := b.page.BumpNotificationBadge()
	b.logger.Debug("notification received",
		zap.String("priority", note.Priority),
		zap.Int("unread", count),
	)

	if note.Priority != view.PriorityHigh && note.Priority != view.PriorityUrgent {
		return
	}

	variant := view.VariantWarning
	if note.Priority == view.PriorityUrgent {
		variant = view.VariantDanger
	}
	b.page.ShowToast(note.Message, variant, &view.ToastOptions{
		Icon:   "fas fa-exclamation-triangle",
		Pinned: true,
	})

	if b.notif != nil {
		b.notif.SendAlert(notifier.Alert{
			Message:  note.Message,
			Priority: note.Priority,
			Received: time.Now(),
		})
	}
}

// pollMarketData issues one independent request per auto-refresh slot and
// patches each on completion. Requests race; last writer wins per slot. A
// failing element logs and toasts without blocking its siblings.
func (b *Bridge) pollMarketData(ctx context.Context) {
	targets := b.page.AutoRefreshTargets()
	if len(targets) == 0 {
		return
	}

	for key, securityID := range targets {
		go func(key, securityID string) {
			reqCtx, cancel := context.WithTimeout(ctx, b.cfg.Refresh.RequestTimeout)
			defer cancel()

			md, err := b.fetchMarketData(reqCtx, securityID)
			if err != nil {
				b.logger.Error("failed to refresh market data",
					zap.String("security", securityID),
					zap.Error(err),
				)
				return
			}
			b.page.PatchMarketData(key, view.MarketDataPayload(md))
		}(key, securityID)
	}
}

// fetchMarketData wraps the REST call: failures surface a user-visible toast
// with the reason and are re-raised to the caller.
func (b *Bridge) fetchMarketData(ctx context.Context, securityID string) (platformapi.MarketData, error) {
	md, err := b.api.GetMarketData(ctx, securityID)
	if err != nil {
		b.page.ShowToast(fmt.Sprintf("Request failed: %v", err), view.VariantDanger, nil)
		return md, err
	}
	return md, nil
}
