package view

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MarketElement is the rendered state of one market data slot on the page.
type MarketElement struct {
	SecurityID  string
	AutoRefresh bool

	PriceText     string
	VolumeText    string
	ChangeText    string
	ChangeVariant Variant

	// Transient flash highlights on the price. Set semantics, like a DOM
	// class list: repeated adds collapse, a single clear removes the class.
	HighlightUp   bool
	HighlightDown bool

	lastPrice float64
	hasPrice  bool
}

// TradeRow is the rendered state of one trade row.
type TradeRow struct {
	ID     string
	Status Badge

	ProgressPercent float64
	HasProgress     bool
}

// ListingRow is the rendered state of one listing row.
type ListingRow struct {
	ID         string
	Status     Badge
	PriceText  string
	SharesText string
}

// Toast is a transient inline alert on the page's toast stack.
type Toast struct {
	ID       string
	Message  string
	Variant  Variant
	Icon     string
	AutoHide bool
	Delay    time.Duration
}

// ToastOptions tweaks toast presentation.
type ToastOptions struct {
	Icon string

	// Pinned toasts stay until explicitly dismissed.
	Pinned bool

	// Delay overrides the page's default auto-dismiss delay when positive.
	Delay time.Duration
}

// PageConfig holds the page's timing knobs.
type PageConfig struct {
	// HighlightWindow is how long a price flash highlight stays applied.
	HighlightWindow time.Duration

	// ToastDelay is the default auto-dismiss delay for non-pinned toasts.
	ToastDelay time.Duration
}

// DefaultPageConfig matches the platform page's fixed timings.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		HighlightWindow: 2 * time.Second,
		ToastDelay:      5 * time.Second,
	}
}

// Page is the reconciled view model: the bridge's replacement for the DOM
// subtree it owns. Patch operations mutate only registered slots; a renderer
// reads a consistent copy via Snapshot. The page reflects the latest update
// applied, last writer wins.
type Page struct {
	logger *zap.Logger
	sched  Scheduler
	cfg    PageConfig

	mu       sync.Mutex
	markets  map[string]*MarketElement
	trades   map[string]*TradeRow
	listings map[string]*ListingRow
	toasts   []*Toast

	// Unread notification count. Monotonic within a session; only building
	// a fresh Page resets it.
	unread int
}

// NewPage creates an empty page with the given timings.
func NewPage(logger *zap.Logger, sched Scheduler, cfg PageConfig) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sched == nil {
		sched = SystemScheduler()
	}
	if cfg.HighlightWindow <= 0 {
		cfg.HighlightWindow = DefaultPageConfig().HighlightWindow
	}
	if cfg.ToastDelay <= 0 {
		cfg.ToastDelay = DefaultPageConfig().ToastDelay
	}

	return &Page{
		logger:   logger,
		sched:    sched,
		cfg:      cfg,
		markets:  make(map[string]*MarketElement),
		trades:   make(map[string]*TradeRow),
		listings: make(map[string]*ListingRow),
	}
}

// RegisterMarketElement registers a market data slot under elementKey.
// autoRefresh marks the slot for the periodic poll loop.
func (p *Page) RegisterMarketElement(elementKey, securityID string, autoRefresh bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.markets[elementKey] = &MarketElement{
		SecurityID:  securityID,
		AutoRefresh: autoRefresh,
	}
}

// RegisterTradeRow registers a trade row keyed by trade ID.
func (p *Page) RegisterTradeRow(tradeID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.trades[tradeID] = &TradeRow{ID: tradeID}
}

// RegisterListingRow registers a listing row keyed by listing ID.
func (p *Page) RegisterListingRow(listingID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.listings[listingID] = &ListingRow{ID: listingID}
}

// PatchMarketData updates the slot registered under elementKey with the
// sub-fields present in data. Absent fields leave their sub-field untouched.
func (p *Page) PatchMarketData(elementKey string, data MarketDataPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()

	el, ok := p.markets[elementKey]
	if !ok {
		p.logger.Debug("market data for unregistered element", zap.String("element", elementKey))
		return
	}
	p.applyMarketData(elementKey, el, data)
}

// PatchMarketDataBySecurity updates every slot whose security matches.
// Channel pushes are keyed by security, not by page slot.
func (p *Page) PatchMarketDataBySecurity(securityID string, data MarketDataPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, el := range p.markets {
		if el.SecurityID == securityID {
			p.applyMarketData(key, el, data)
		}
	}
}

// applyMarketData mutates one element. Caller holds p.mu.
func (p *Page) applyMarketData(elementKey string, el *MarketElement, data MarketDataPayload) {
	if data.LastPrice != nil {
		newPrice := *data.LastPrice
		if el.hasPrice && el.lastPrice != newPrice {
			up := newPrice > el.lastPrice
			p.flashPrice(elementKey, el, up)
		}
		el.PriceText = FormatCurrency(newPrice)
		el.lastPrice = newPrice
		el.hasPrice = true
	}

	if data.Volume != nil {
		el.VolumeText = FormatNumber(*data.Volume)
	}

	if data.Change != nil {
		pct := 0.0
		if data.ChangePercent != nil {
			pct = *data.ChangePercent
		}
		el.ChangeText = FormatChange(*data.Change, pct)
		// Zero counts as non-negative.
		if *data.Change >= 0 {
			el.ChangeVariant = VariantSuccess
		} else {
			el.ChangeVariant = VariantDanger
		}
	}
}

// flashPrice applies a transient direction highlight and schedules its
// removal. Timers are fire-and-forget and may stack under rapid updates; a
// later clear of an already-cleared class is a no-op. Caller holds p.mu.
func (p *Page) flashPrice(elementKey string, el *MarketElement, up bool) {
	if up {
		el.HighlightUp = true
	} else {
		el.HighlightDown = true
	}

	p.sched.AfterFunc(p.cfg.HighlightWindow, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if el, ok := p.markets[elementKey]; ok {
			if up {
				el.HighlightUp = false
			} else {
				el.HighlightDown = false
			}
		}
	})
}

// PatchTradeStatus updates the trade row keyed by trade.ID: status badge per
// the fixed status table, progress indicator verbatim when present.
func (p *Page) PatchTradeStatus(trade TradeUpdatePayload) {
	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.trades[trade.ID]
	if !ok {
		p.logger.Debug("trade update for unknown row", zap.String("trade", trade.ID))
		return
	}

	row.Status = TradeStatusBadge(trade.Status)

	if trade.ProgressPercent != nil {
		row.ProgressPercent = *trade.ProgressPercent
		row.HasProgress = true
	}
}

// PatchListing updates the listing row keyed by listing.ID.
func (p *Page) PatchListing(listing ListingUpdatePayload) {
	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.listings[listing.ID]
	if !ok {
		p.logger.Debug("listing update for unknown row", zap.String("listing", listing.ID))
		return
	}

	if listing.Status != "" {
		row.Status = ListingStatusBadge(listing.Status)
	}
	if listing.CurrentPrice != nil {
		row.PriceText = FormatCurrency(*listing.CurrentPrice)
	}
	if listing.SharesRemaining != nil {
		row.SharesText = FormatNumber(*listing.SharesRemaining)
	}
}

// ShowToast pushes a toast onto the stack and returns its ID for log
// correlation. Non-pinned toasts self-dismiss after the configured delay.
func (p *Page) ShowToast(message string, variant Variant, opts *ToastOptions) string {
	t := &Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Variant:  variant,
		AutoHide: true,
		Delay:    p.cfg.ToastDelay,
	}
	if opts != nil {
		t.Icon = opts.Icon
		t.AutoHide = !opts.Pinned
		if opts.Delay > 0 {
			t.Delay = opts.Delay
		}
	}

	p.mu.Lock()
	p.toasts = append(p.toasts, t)
	p.mu.Unlock()

	if t.AutoHide {
		p.sched.AfterFunc(t.Delay, func() {
			p.DismissToast(t.ID)
		})
	}

	return t.ID
}

// DismissToast removes a toast from the stack. Unknown IDs are a no-op, so a
// late auto-dismiss timer racing a manual dismissal is harmless.
func (p *Page) DismissToast(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, t := range p.toasts {
		if t.ID == id {
			p.toasts = append(p.toasts[:i], p.toasts[i+1:]...)
			return
		}
	}
}

// BumpNotificationBadge increments the unread counter and returns the new
// value. The counter never decrements within a session.
func (p *Page) BumpNotificationBadge() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.unread++
	return p.unread
}

// UnreadCount returns the current unread notification count.
func (p *Page) UnreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unread
}

// AutoRefreshTargets returns (elementKey, securityID) pairs for slots opted
// into the periodic poll.
func (p *Page) AutoRefreshTargets() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	targets := make(map[string]string)
	for key, el := range p.markets {
		if el.AutoRefresh && el.SecurityID != "" {
			targets[key] = el.SecurityID
		}
	}
	return targets
}

// Snapshot is a point-in-time copy of the page for renderers and tests.
type Snapshot struct {
	Markets  map[string]MarketElement
	Trades   map[string]TradeRow
	Listings map[string]ListingRow
	Toasts   []Toast
	Unread   int
}

// Snapshot copies the page state under the lock.
func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := Snapshot{
		Markets:  make(map[string]MarketElement, len(p.markets)),
		Trades:   make(map[string]TradeRow, len(p.trades)),
		Listings: make(map[string]ListingRow, len(p.listings)),
		Toasts:   make([]Toast, 0, len(p.toasts)),
		Unread:   p.unread,
	}
	for k, el := range p.markets {
		snap.Markets[k] = *el
	}
	for k, row := range p.trades {
		snap.Trades[k] = *row
	}
	for k, row := range p.listings {
		snap.Listings[k] = *row
	}
	for _, t := range p.toasts {
		snap.Toasts = append(snap.Toasts, *t)
	}
	return snap
}

// Market returns a copy of one market element and whether it exists.
func (p *Page) Market(elementKey string) (MarketElement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	el, ok := p.markets[elementKey]
	if !ok {
		return MarketElement{}, false
	}
	return *el, true
}

// Trade returns a copy of one trade row and whether it exists.
func (p *Page) Trade(tradeID string) (TradeRow, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.trades[tradeID]
	if !ok {
		return TradeRow{}, false
	}
	return *row, true
}

// Listing returns a copy of one listing row and whether it exists.
func (p *Page) Listing(listingID string) (ListingRow, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.listings[listingID]
	if !ok {
		return ListingRow{}, false
	}
	return *row, true
}

// Toasts returns a copy of the current toast stack, oldest first.
func (p *Page) Toasts() []Toast {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Toast, 0, len(p.toasts))
	for _, t := range p.toasts {
		out = append(out, *t)
	}
	return out
}
