package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	"collection-pricer/core/clock"
	"collection-pricer/core/kvstore"
	"collection-pricer/core/logger"
	"collection-pricer/core/metrics"
	"collection-pricer/core/reconcile"
	"collection-pricer/feature/inventory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// prefetchReserve is the fraction (1/n) of the time budget kept free of prefetching.
const prefetchReserve = 10

// ErrRunInProgress is returned when a run is requested while another is active.
var ErrRunInProgress = errors.New("a refresh run is already in progress")

// Resolver prices one item. It must not fail; problems degrade to unresolved.
type Resolver interface {
	Resolve(ctx context.Context, item inventory.Item) reconcile.Resolution
	// Prefetch warms cheap sources for upcoming items.
	Prefetch(ctx context.Context, items []inventory.Item, limit int)
}

// Budget is the per-run scraped fetch budget.
type Budget interface {
	Reset()
	Restore(n int)
	Used() int
}

// Snapshotter records a collection value snapshot after a completed run.
type Snapshotter interface {
	Capture(ctx context.Context) error
}

// Deps are the collaborators of a Scheduler.
type Deps struct {
	Inventory inventory.Inventory
	Resolver  Resolver
	Budget    Budget
	// Store holds the cursor and the last refreshed timestamp.
	Store   kvstore.Store
	Clock   clock.Clock
	Logger  *zap.Logger
	Metrics *metrics.Manager
	// Snapshots is optional.
	Snapshots Snapshotter
}

// Report describes one invocation. Processed counts this invocation's rows,
// RunProcessed those of every invocation of the run.
type Report struct {
	RunID        string        `json:"run_id"`
	State        State         `json:"state"`
	Resumed      bool          `json:"resumed"`
	Processed    int           `json:"processed"`
	Resolved     int           `json:"resolved"`
	Remaining    int           `json:"remaining"`
	RunProcessed int           `json:"run_processed"`
	BudgetUsed   int           `json:"budget_used"`
	ValueWritten string        `json:"value_written"`
	Took         time.Duration `json:"took"`
	Next         *Position     `json:"next,omitempty"`
}

// Status describes the persisted scheduler state.
type Status struct {
	State         State      `json:"state"`
	Running       bool       `json:"running"`
	Cursor        *Cursor    `json:"cursor,omitempty"`
	LastRefreshed *time.Time `json:"last_refreshed,omitempty"`
}

// Scheduler drives the checkpointed refresh of every inventory row.
type Scheduler struct {
	cfg  Config
	deps Deps

	mu      sync.Mutex
	stateMu sync.RWMutex
	state   State
}

// NewScheduler returns an idle scheduler.
func NewScheduler(cfg Config, deps Deps) *Scheduler {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &Scheduler{cfg: cfg, deps: deps, state: StateIdle}
}

// State returns the in-memory state of the last invocation.
func (s *Scheduler) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Scheduler) enter(to State) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if err := checkTransition(s.state, to); err != nil {
		return err
	}
	s.state = to
	return nil
}

// Run processes the next batch: it resumes the persisted cursor if there is
// one, otherwise it starts a fresh run.
func (s *Scheduler) Run(ctx context.Context) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()
	return s.invoke(ctx)
}

// Restart discards any persisted cursor and starts a fresh run.
func (s *Scheduler) Restart(ctx context.Context) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	if err := deleteCursor(ctx, s.deps.Store); err != nil {
		return nil, err
	}
	s.deps.Logger.Info("Refresh cursor discarded")
	return s.invoke(ctx)
}

// RunToCompletion invokes Run until the run completes or ctx ends.
func (s *Scheduler) RunToCompletion(ctx context.Context) (*Report, error) {
	for {
		report, err := s.Run(ctx)
		if err != nil {
			return report, err
		}
		if report.State == StateComplete || ctx.Err() != nil {
			return report, nil
		}
	}
}

// Status reports the persisted state without running anything.
func (s *Scheduler) Status(ctx context.Context) (*Status, error) {
	cur, err := loadCursor(ctx, s.deps.Store)
	if err != nil {
		return nil, err
	}
	last, err := loadLastRefreshed(ctx, s.deps.Store)
	if err != nil {
		return nil, err
	}

	st := &Status{Cursor: cur, LastRefreshed: last, State: StateIdle}
	switch {
	case cur != nil:
		st.State = StateCheckpointed
	case last != nil:
		st.State = StateComplete
	}
	if !s.mu.TryLock() {
		st.Running = true
		st.State = s.State()
	} else {
		s.mu.Unlock()
	}
	return st, nil
}

func (s *Scheduler) invoke(ctx context.Context) (*Report, error) {
	start := s.deps.Clock.Now()
	store := s.deps.Store

	cur, err := loadCursor(ctx, store)
	if err != nil {
		return nil, err
	}
	resumed := cur != nil
	if resumed {
		s.deps.Budget.Restore(cur.BudgetUsed)
	} else {
		cur = &Cursor{RunID: uuid.NewString(), StartedAt: start, OwnedOnly: s.cfg.OwnedOnly}
		s.deps.Budget.Reset()
	}
	log := logger.WithRun(s.deps.Logger, cur.RunID)

	plan, err := BuildPlan(ctx, s.deps.Inventory, PlanOptions{
		Reference:       cur.StartedAt,
		FreshnessWindow: s.cfg.FreshnessWindow,
		OwnedOnly:       cur.OwnedOnly,
	})
	if err != nil {
		s.fail(start)
		return nil, err
	}
	todo := remaining(plan, cur.Next)
	log.Info("Refresh invocation started",
		zap.Bool("resumed", resumed),
		zap.Int("remaining", len(todo)),
		zap.Int("budget_used", s.deps.Budget.Used()))

	report := &Report{RunID: cur.RunID, Resumed: resumed}

	if len(todo) > 0 {
		if err := s.enter(passState(todo[0].Pos.Pass)); err != nil {
			return nil, err
		}
		window := todo[:min(len(todo), s.cfg.BatchSize)]
		items := make([]inventory.Item, len(window))
		for i, e := range window {
			items[i] = e.Item
		}
		s.prefetch(ctx, start, items)
	}
	exhausted := s.overBudget(start)

	staged := make([]inventory.RowUpdate, 0, min(len(todo), s.cfg.BatchSize))
	value := decimal.Zero
	i := 0
	for ; i < len(todo); i++ {
		if report.Processed >= s.cfg.BatchSize || ctx.Err() != nil {
			break
		}
		// At least one row per invocation so a run always makes progress, unless
		// the prefetch already spent the budget.
		if (report.Processed > 0 || exhausted) && s.overBudget(start) {
			break
		}
		e := todo[i]
		if err := s.enter(passState(e.Pos.Pass)); err != nil {
			return nil, err
		}

		update, resolved := s.process(ctx, e)
		staged = append(staged, update)
		value = value.Add(decimal.NewFromFloat(update.Total))
		report.Processed++
		if resolved {
			report.Resolved++
		}
	}

	// Flushing must not be cut short by the cancellation that ended the loop.
	flushCtx := context.WithoutCancel(ctx)
	if err := s.flush(flushCtx, staged); err != nil {
		log.Error("Refresh write-back failed", zap.Error(err))
		s.fail(start)
		return nil, err
	}
	cur.Processed += report.Processed
	cur.BudgetUsed = s.deps.Budget.Used()

	report.Remaining = len(todo) - i
	report.RunProcessed = cur.Processed
	report.BudgetUsed = cur.BudgetUsed
	report.ValueWritten = value.StringFixed(2)

	if i < len(todo) {
		next := todo[i].Pos
		cur.Next = next
		if err := saveCursor(flushCtx, store, cur); err != nil {
			s.fail(start)
			return nil, err
		}
		if err := s.enter(StateCheckpointed); err != nil {
			return nil, err
		}
		report.State = StateCheckpointed
		report.Next = &next
		report.Took = s.deps.Clock.Now().Sub(start)
		s.deps.Metrics.RefreshRun(string(StateCheckpointed), report.Took)
		log.Info("Refresh checkpointed",
			zap.Int("processed", report.Processed),
			zap.Int("remaining", report.Remaining),
			zap.String("next_pass", next.Pass.String()))
		return report, nil
	}

	if err := s.complete(flushCtx, cur, log); err != nil {
		s.fail(start)
		return nil, err
	}
	report.State = StateComplete
	report.Took = s.deps.Clock.Now().Sub(start)
	s.deps.Metrics.RefreshRun(string(StateComplete), report.Took)
	log.Info("Refresh complete",
		zap.Int("processed", cur.Processed),
		zap.Int("budget_used", cur.BudgetUsed))
	return report, nil
}

// process resolves one row and stages its write. A row is never interrupted
// half way, so the caller's cancellation is not passed down.
func (s *Scheduler) process(ctx context.Context, e Entry) (inventory.RowUpdate, bool) {
	res := s.deps.Resolver.Resolve(context.WithoutCancel(ctx), e.Item)

	update := inventory.RowUpdate{
		RowID:      e.Row.ID,
		Confidence: res.Confidence,
		Method:     string(res.Method),
		ItemKey:    e.Item.Key,
	}
	effective := 0.0
	if e.Row.Price != nil {
		effective = *e.Row.Price
	}
	if res.Resolved() {
		price := res.Value()
		at := s.deps.Clock.Now()
		update.Price = &price
		update.PricedAt = &at
		effective = price
		s.deps.Metrics.RefreshRow("resolved")
	} else {
		s.deps.Metrics.RefreshRow("unresolved")
	}
	update.Total = e.Item.Total(effective)
	return update, res.Resolved()
}

func (s *Scheduler) flush(ctx context.Context, staged []inventory.RowUpdate) error {
	if len(staged) == 0 {
		return nil
	}
	return s.deps.Inventory.WriteBack(ctx, staged)
}

func (s *Scheduler) complete(ctx context.Context, cur *Cursor, log *zap.Logger) error {
	if err := deleteCursor(ctx, s.deps.Store); err != nil {
		return err
	}
	now := s.deps.Clock.Now()
	if err := saveLastRefreshed(ctx, s.deps.Store, now); err != nil {
		log.Warn("Failed to record last refreshed time", zap.Error(err))
	}
	s.deps.Metrics.RefreshComplete(now)
	if err := s.enter(StateComplete); err != nil {
		return err
	}
	if s.cfg.SnapshotOnComplete && s.deps.Snapshots != nil {
		if err := s.deps.Snapshots.Capture(ctx); err != nil {
			log.Warn("Failed to record value snapshot", zap.Error(err))
		}
	}
	return nil
}

// prefetch warms the batch within the time budget, leaving a tenth of it for
// resolving and flushing.
func (s *Scheduler) prefetch(ctx context.Context, start time.Time, items []inventory.Item) {
	if s.cfg.TimeBudget <= 0 {
		s.deps.Resolver.Prefetch(ctx, items, s.cfg.CatalogConcurrency)
		return
	}
	deadline := start.Add(s.cfg.TimeBudget - s.cfg.TimeBudget/prefetchReserve)
	left := deadline.Sub(s.deps.Clock.Now())
	if left <= 0 {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, left)
	defer cancel()
	s.deps.Resolver.Prefetch(pctx, items, s.cfg.CatalogConcurrency)
}

func (s *Scheduler) overBudget(start time.Time) bool {
	return s.cfg.TimeBudget > 0 && s.deps.Clock.Now().Sub(start) > s.cfg.TimeBudget
}

func (s *Scheduler) fail(start time.Time) {
	_ = s.enter(StateIdle)
	s.deps.Metrics.RefreshRun("failed", s.deps.Clock.Now().Sub(start))
}

func passState(p Pass) State {
	if p == PassOwned {
		return StateOwnedPass
	}
	return StateUnownedPass
}
