package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/metrics"
)

const DefaultPollInterval = 5 * time.Minute

// Subscriber receives match list snapshots. Every call gets its own copy.
type Subscriber func(matches []match.Match)

type feedRunner interface {
	RunCycle(ctx context.Context, loc locale.Locale) CycleResult
	Snapshot() ([]match.Match, uint64, bool)
}

type BrokerConfig struct {
	PollInterval  time.Duration
	DefaultLocale locale.Locale
	Logger        *logging.Logger
	Metrics       *metrics.Collectors
}

type subscription struct {
	id       uint64
	callback Subscriber
}

// Broker fans feed updates out to subscribers and owns the poll timer. The
// timer runs only while at least one subscriber is registered.
type Broker struct {
	feed     feedRunner
	interval time.Duration
	logger   *logging.Logger
	metrics  *metrics.Collectors

	mu         sync.Mutex
	subs       []subscription
	nextID     uint64
	locale     locale.Locale
	pollCtx    context.Context
	pollCancel context.CancelFunc
	workers    sync.WaitGroup

	// Deliveries go through one queue drained by a single goroutine at a
	// time, so subscribers see generations in order and a callback may call
	// back into the broker.
	notifyMu      sync.Mutex
	pending       []delivery
	delivering    bool
	lastDelivered uint64
}

// delivery is a queued fan-out. A nil target means every subscriber.
type delivery struct {
	target *subscription
	list   []match.Match
	gen    uint64
}

func NewBroker(feed feedRunner, cfg BrokerConfig) *Broker {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	loc := cfg.DefaultLocale
	if loc == "" {
		loc = locale.Default
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Broker{
		feed:     feed,
		interval: interval,
		logger:   logger.Named("broker"),
		metrics:  cfg.Metrics,
		locale:   loc,
	}
}

// Subscribe registers callback. The first subscriber, or one asking for a
// different locale, switches the shared locale and starts a cycle at once.
// A subscriber keeping the active locale also gets the current list right
// away when a cycle has committed. Callbacks may call Subscribe or Refresh;
// such deliveries run after the current fan-out. The returned function
// unregisters the callback and is safe to call more than once.
func (b *Broker) Subscribe(callback Subscriber, loc locale.Locale) func() {
	if callback == nil {
		return func() {}
	}
	if loc == "" {
		loc = locale.Default
	}

	b.mu.Lock()
	b.nextID++
	sub := subscription{id: b.nextID, callback: callback}
	b.subs = append(b.subs, sub)
	first := len(b.subs) == 1
	changed := loc != b.locale
	b.locale = loc
	if first {
		b.startPollingLocked()
	}
	pollCtx := b.pollCtx
	count := len(b.subs)
	b.mu.Unlock()

	b.metrics.Subscribers(count)
	b.logger.Info("subscriber added", "subscribers", count, "locale", loc.String())

	if !changed {
		if snapshot, gen, ok := b.feed.Snapshot(); ok {
			b.deliverOne(sub, snapshot, gen)
		}
	}
	if first || changed {
		b.spawn(func() { b.runCycle(pollCtx, loc) })
	}

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(sub.id) })
	}
}

// Locale returns the locale shared by all subscribers.
func (b *Broker) Locale() locale.Locale {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locale
}

// SubscriberCount reports the number of registered callbacks.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Refresh runs a cycle now with the active locale, outside the timer.
func (b *Broker) Refresh(ctx context.Context) CycleResult {
	loc := b.Locale()
	result := b.feed.RunCycle(ctx, loc)
	if result.Committed() {
		b.deliverAll(result.Matches, result.Generation)
	}
	return result
}

// Close drops every subscriber, stops the timer and waits for in-flight
// cycles to return.
func (b *Broker) Close() {
	b.mu.Lock()
	b.subs = nil
	b.stopPollingLocked()
	b.mu.Unlock()
	b.metrics.Subscribers(0)
	b.workers.Wait()
}

func (b *Broker) unsubscribe(id uint64) {
	b.mu.Lock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			break
		}
	}
	count := len(b.subs)
	if count == 0 {
		b.stopPollingLocked()
	}
	b.mu.Unlock()

	b.metrics.Subscribers(count)
	b.logger.Info("subscriber removed", "subscribers", count)
}

func (b *Broker) startPollingLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	b.pollCtx = ctx
	b.pollCancel = cancel
	b.spawn(func() { b.pollLoop(ctx) })
}

func (b *Broker) stopPollingLocked() {
	if b.pollCancel != nil {
		b.pollCancel()
	}
	b.pollCtx = nil
	b.pollCancel = nil
}

func (b *Broker) spawn(fn func()) {
	b.workers.Add(1)
	go func() {
		defer b.workers.Done()
		fn()
	}()
}

func (b *Broker) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.runCycle(ctx, b.Locale())
		}
	}
}

func (b *Broker) runCycle(ctx context.Context, loc locale.Locale) {
	if ctx == nil || ctx.Err() != nil {
		return
	}
	result := b.feed.RunCycle(ctx, loc)
	if !result.Committed() {
		return
	}
	b.deliverAll(result.Matches, result.Generation)
}

func (b *Broker) deliverAll(list []match.Match, gen uint64) {
	b.enqueue(delivery{list: list, gen: gen})
}

func (b *Broker) deliverOne(sub subscription, list []match.Match, gen uint64) {
	b.enqueue(delivery{target: &sub, list: list, gen: gen})
}

// enqueue drains the queue on the calling goroutine, or only appends d when
// a drain is already running, including one further up this goroutine's
// stack when a callback calls back into the broker.
func (b *Broker) enqueue(d delivery) {
	b.notifyMu.Lock()
	b.pending = append(b.pending, d)
	if b.delivering {
		b.notifyMu.Unlock()
		return
	}
	b.delivering = true

	for len(b.pending) > 0 {
		next := b.pending[0]
		b.pending[0] = delivery{}
		b.pending = b.pending[1:]

		targets, list, ok := b.resolveLocked(next)
		if !ok {
			continue
		}

		b.notifyMu.Unlock()
		for _, sub := range targets {
			b.invoke(sub, match.CloneList(list))
		}
		b.notifyMu.Lock()
	}

	b.pending = nil
	b.delivering = false
	b.notifyMu.Unlock()
}

// resolveLocked applies the generation check and picks the recipients.
// A fan-out older than one already delivered is dropped; a single snapshot
// that fell behind is replaced with the current list.
func (b *Broker) resolveLocked(d delivery) ([]subscription, []match.Match, bool) {
	if d.target == nil {
		if d.gen < b.lastDelivered {
			return nil, nil, false
		}
		b.lastDelivered = d.gen

		b.mu.Lock()
		subs := append([]subscription(nil), b.subs...)
		b.mu.Unlock()
		return subs, d.list, true
	}

	if !b.isSubscribed(d.target.id) {
		return nil, nil, false
	}
	list := d.list
	if d.gen < b.lastDelivered {
		if latest, _, ok := b.feed.Snapshot(); ok {
			list = latest
		}
	}
	return []subscription{*d.target}, list, true
}

func (b *Broker) isSubscribed(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if sub.id == id {
			return true
		}
	}
	return false
}

func (b *Broker) invoke(sub subscription, list []match.Match) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("subscriber panicked", "subscription", sub.id, "panic", r)
		}
	}()
	sub.callback(list)
}
