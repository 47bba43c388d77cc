package aggregation

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cafe/internal/core/domain/model/stats"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
)

// Recorder receives every applied result. The Prometheus adapter implements it.
type Recorder interface {
	RecordStats(s stats.AggregateStats)
	ObserveRecompute(elapsed time.Duration)
}

// Engine recomputes AggregateStats on change notifications and hands the
// latest value to subscribers.
//
// Notifications are coalesced: any number of Notify calls made while a
// recompute is running produce exactly one further recompute over the newest
// snapshot.
//
// Example:
//
//	engine := aggregation.NewEngine(store, recorder, logger)
//	go func() { _ = engine.Run(ctx) }()
//
//	updates, cancel := engine.Subscribe(4)
//	defer cancel()
//	for s := range updates {
//	    fmt.Println(s.TotalOrders, s.TotalRevenue)
//	}
type Engine struct {
	source     SnapshotSource
	calculator services.StatsCalculator
	recorder   Recorder
	logger     *slog.Logger
	now        func() time.Time

	notify chan struct{}
	latest atomic.Pointer[stats.AggregateStats]

	mu           sync.Mutex
	applied      bool
	lastSequence uint64
	subscribers  map[uint64]chan stats.AggregateStats
	nextID       uint64
}

// NewEngine creates an engine whose latest value is the empty statistics until
// the first recompute. recorder may be nil.
func NewEngine(source SnapshotSource, recorder Recorder, logger *slog.Logger) *Engine {
	e := &Engine{
		source:      source,
		calculator:  services.NewStatsCalculator(),
		recorder:    recorder,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		notify:      make(chan struct{}, 1),
		subscribers: make(map[uint64]chan stats.AggregateStats),
	}
	empty := stats.Empty(e.now())
	e.latest.Store(&empty)
	return e
}

// Latest returns the most recent fully computed statistics.
func (e *Engine) Latest() stats.AggregateStats {
	return *e.latest.Load()
}

// Notify schedules a recompute. It never blocks.
func (e *Engine) Notify() {
	select {
	case e.notify <- struct{}{}:
	default:
	}
}

// Publish lets the engine sit behind any change feed.
func (e *Engine) Publish(_ context.Context, _ ...ports.OrderChanged) error {
	e.Notify()
	return nil
}

// Run recomputes once and then on every notification until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	e.recomputeAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.notify:
			e.recomputeAndLog(ctx)
		}
	}
}

// Recompute reads a snapshot from the source and applies it.
func (e *Engine) Recompute(ctx context.Context) error {
	snapshot, err := e.source.Snapshot(ctx)
	if err != nil {
		return err
	}
	e.Apply(snapshot)
	return nil
}

// Apply computes statistics from a pushed snapshot. It returns false, and
// changes nothing, when the snapshot is older than the last one applied.
func (e *Engine) Apply(snapshot Snapshot) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.applied && snapshot.Sequence < e.lastSequence {
		return false
	}

	started := time.Now()
	computed := e.calculator.Calculate(snapshot.Orders, e.now(), snapshot.Sequence)
	e.latest.Store(&computed)
	e.applied = true
	e.lastSequence = snapshot.Sequence

	if e.recorder != nil {
		e.recorder.RecordStats(computed)
		e.recorder.ObserveRecompute(time.Since(started))
	}
	for _, ch := range e.subscribers {
		offer(ch, computed)
	}
	return true
}

// Subscribe returns a channel that receives the current value immediately and
// every later result. A subscriber that falls behind loses older values, never
// the newest. cancel closes the channel.
func (e *Engine) Subscribe(buffer int) (<-chan stats.AggregateStats, func()) {
	if buffer < 1 {
		buffer = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	ch := make(chan stats.AggregateStats, buffer)
	ch <- e.Latest()
	e.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (e *Engine) recomputeAndLog(ctx context.Context) {
	if err := e.Recompute(ctx); err != nil && ctx.Err() == nil {
		e.logger.Error("stats recompute failed", slog.String("error", err.Error()))
	}
}

func offer(ch chan stats.AggregateStats, value stats.AggregateStats) {
	select {
	case ch <- value:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- value:
	default:
	}
}
