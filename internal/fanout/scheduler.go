package fanout

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/generation"
	"github.com/geo-copy/geo-api/internal/platform/logger"
	"github.com/geo-copy/geo-api/internal/redact"
	"github.com/geo-copy/geo-api/internal/task"
)

// Variant count bounds per product.
const (
	MinCount = 1
	MaxCount = domain.CopyTypeCount
)

// ErrRunInProgress is returned by TryRun while another run is active.
var ErrRunInProgress = errors.New("a fan-out run is already in progress")

// Generator runs one buffered generation.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (generation.Result, error)
}

// Shuffler permutes copy types in place.
type Shuffler func(types []domain.CopyType)

func randomShuffle(types []domain.CopyType) {
	rand.Shuffle(len(types), func(i, j int) {
		types[i], types[j] = types[j], types[i]
	})
}

// Report summarizes a finished run. Products holds the input products, with
// their variants replaced when at least one of their tasks succeeded; the IDs
// of those products are listed in UpdatedIDs.
type Report struct {
	RunID      string           `json:"runId"`
	Model      string           `json:"model"`
	Count      int              `json:"count"`
	Products   []domain.Product `json:"products"`
	UpdatedIDs []string         `json:"updatedProductIds"`
	Total      int              `json:"total"`
	Succeeded  int              `json:"succeeded"`
	Empty      int              `json:"empty"`
	Failed     int              `json:"failed"`
	Outcomes   []Outcome        `json:"outcomes"`
	DurationMS int64            `json:"durationMs"`
}

// Scheduler runs fan-out generations. Runs on one scheduler are serialized.
type Scheduler struct {
	generator   Generator
	workerCount int
	shuffle     Shuffler
	observer    func(Snapshot)
	logger      *slog.Logger

	progress Progress
	runMu    sync.Mutex
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkerCount sets the worker pool size.
func WithWorkerCount(n int) Option {
	return func(s *Scheduler) {
		s.workerCount = n
	}
}

// WithShuffler replaces the random copy type permutation.
func WithShuffler(fn Shuffler) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.shuffle = fn
		}
	}
}

// WithObserver registers a function called after every settled task. It
// may be called from several goroutines at once.
func WithObserver(fn func(Snapshot)) Option {
	return func(s *Scheduler) {
		s.observer = fn
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScheduler creates a Scheduler.
func NewScheduler(gen Generator, opts ...Option) *Scheduler {
	s := &Scheduler{
		generator:   gen,
		workerCount: task.DefaultWorkerPoolConfig().WorkerCount,
		shuffle:     randomShuffle,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "fanout_scheduler"))
	return s
}

// ClampCount bounds a requested variant count to [MinCount, MaxCount].
func ClampCount(count int) int {
	return max(MinCount, min(count, MaxCount))
}

// Progress returns the progress of the current or last run.
func (s *Scheduler) Progress() Snapshot {
	return s.progress.Snapshot()
}

// TryRun is Run, except that it returns ErrRunInProgress instead of
// waiting when another run is active.
func (s *Scheduler) TryRun(ctx context.Context, products []domain.Product, model string, count int) (Report, error) {
	if !s.runMu.TryLock() {
		return Report{}, ErrRunInProgress
	}
	defer s.runMu.Unlock()
	return s.run(ctx, products, model, count), nil
}

// Run generates up to count variants for every product and waits for all
// tasks to settle. It never fails: tasks that error are logged and left
// out of the result. Cancelling ctx aborts in-flight calls; tasks dequeued
// afterwards are reported as skipped and still count toward progress.
func (s *Scheduler) Run(ctx context.Context, products []domain.Product, model string, count int) Report {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.run(ctx, products, model, count)
}

func (s *Scheduler) run(ctx context.Context, products []domain.Product, model string, count int) Report {
	start := time.Now()
	k := ClampCount(count)
	runID := uuid.New()
	total := len(products) * k

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("run_id", runID.String()),
		slog.String("model", model))
	log.Info("fan-out run started",
		slog.Int("products", len(products)),
		slog.Int("count", k),
		slog.Int("tasks", total),
		slog.Int("workers", s.workerCount))

	// One outcome cell per (product, slot); each task owns exactly one.
	cells := make([][]Outcome, len(products))
	queue := task.NewTaskQueue(total, log)
	for i, p := range products {
		types := domain.AllCopyTypes()
		s.shuffle(types)
		cells[i] = make([]Outcome, k)
		for j := 0; j < k; j++ {
			t := newGenerationTask(p.ID, types[j], model, s.generator, &cells[i][j])
			if err := queue.Enqueue(t); err != nil {
				// The queue is sized for every task.
				log.Error("failed to enqueue generation task", slog.String("error", err.Error()))
			}
		}
	}
	queue.Close()

	s.progress.begin(runID, total)
	defer s.progress.finish()

	pool := task.NewWorkerPool(queue, task.WorkerPoolConfig{WorkerCount: s.workerCount}, log)
	pool.SetErrorHandler(func(t task.Task, err error) {
		gt, ok := t.(*GenerationTask)
		if !ok {
			return
		}
		log.Warn("generation task failed",
			slog.String("product_id", gt.productID),
			slog.String("copy_type", gt.copyType.String()),
			slog.Int64("duration_ms", gt.out.DurationMS),
			slog.String("error", redact.Error(err)))
	})
	pool.SetDoneHandler(func(task.Task, error) {
		snap := s.progress.advance()
		if s.observer != nil {
			s.observer(snap)
		}
	})
	pool.StartContext(ctx)
	pool.Wait()

	report := Report{
		RunID:      runID.String(),
		Model:      model,
		Count:      k,
		Products:   make([]domain.Product, len(products)),
		UpdatedIDs: []string{},
		Total:      total,
		Outcomes:   make([]Outcome, 0, total),
	}
	for i, p := range products {
		var fresh []domain.GeoVariant
		for _, o := range cells[i] {
			switch o.Status {
			case OutcomeSucceeded:
				report.Succeeded++
				fresh = append(fresh, newVariant(p, o))
			case OutcomeEmpty:
				report.Empty++
			default:
				report.Failed++
			}
			report.Outcomes = append(report.Outcomes, o)
		}

		if len(fresh) > 0 {
			report.Products[i] = p.WithVariants(fresh)
			report.UpdatedIDs = append(report.UpdatedIDs, p.ID)
		} else {
			report.Products[i] = p
		}
	}
	report.DurationMS = time.Since(start).Milliseconds()

	log.Info("fan-out run finished",
		slog.Int("succeeded", report.Succeeded),
		slog.Int("empty", report.Empty),
		slog.Int("failed", report.Failed),
		slog.Int64("duration_ms", report.DurationMS))
	return report
}

// newVariant builds the variant recorded for a successful outcome.
func newVariant(p domain.Product, o Outcome) domain.GeoVariant {
	return domain.GeoVariant{
		ProductName:         p.Name,
		ProductType:         string(p.Category),
		CoreFunctions:       []string{o.CopyType.String()},
		TargetAudience:      []string{},
		UnsuitableScenarios: []string{},
		KeyConclusion:       o.Content,
		CopyType:            o.CopyType,
	}
}
