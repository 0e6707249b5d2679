package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/store"
)

// RefreshFailure records a product whose keywords could not be refreshed.
type RefreshFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// RefreshReport summarizes one keyword refresh run.
type RefreshReport struct {
	RunID     string           `json:"run_id"`
	Scanned   int              `json:"scanned"`
	Updated   int              `json:"updated"`
	Unchanged int              `json:"unchanged"`
	Failures  []RefreshFailure `json:"failures"`
}

// Failed returns the number of products that could not be refreshed.
func (r *RefreshReport) Failed() int {
	return len(r.Failures)
}

// KeywordRefresherConfig controls the concurrency of a refresh run.
type KeywordRefresherConfig struct {
	// Workers is the number of concurrent keyword writes
	Workers int
	// BatchSize is the number of products read per scan query
	BatchSize int
}

// DefaultKeywordRefresherConfig returns the configuration used when none is
// given.
func DefaultKeywordRefresherConfig() KeywordRefresherConfig {
	return KeywordRefresherConfig{
		Workers:   DefaultWorkerPoolConfig().WorkerCount,
		BatchSize: 200,
	}
}

// KeywordRefresher recomputes the searchKeywords field of every product from
// its title.
type KeywordRefresher struct {
	products store.ProductStore
	config   KeywordRefresherConfig
	logger   *slog.Logger
}

// NewKeywordRefresher creates a KeywordRefresher.
// It returns an error if products is nil.
func NewKeywordRefresher(
	products store.ProductStore,
	config KeywordRefresherConfig,
	logger *slog.Logger,
) (*KeywordRefresher, error) {
	if products == nil {
		return nil, errors.New("products cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultKeywordRefresherConfig()
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}

	return &KeywordRefresher{
		products: products,
		config:   config,
		logger:   logger.With(slog.String("component", "keyword_refresher")),
	}, nil
}

// Run scans every product in identifier order and rewrites the keywords of
// those whose stored set differs from the one derived from the title.
//
// Run returns only after every submitted write has finished. Products
// without a title and failed writes are recorded in the report and do not
// stop the run. A scan failure or cancellation of ctx stops the run; the
// partial report is returned together with the error.
func (r *KeywordRefresher) Run(ctx context.Context) (*RefreshReport, error) {
	tally := &refreshTally{report: RefreshReport{RunID: uuid.NewString(), Failures: []RefreshFailure{}}}
	log := r.logger.With(slog.String("run_id", tally.report.RunID))
	start := time.Now()

	log.Info("keyword refresh started",
		slog.Int("workers", r.config.Workers),
		slog.Int("batch_size", r.config.BatchSize))

	queue := NewTaskQueue(r.config.BatchSize, log)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: r.config.Workers}, log)
	pool.SetErrorHandler(func(t Task, err error) {
		tally.fail(t.ID(), err)
	})
	pool.Start(ctx)

	runErr := r.scan(ctx, queue, tally)

	queue.Close()
	pool.Wait()

	report := tally.snapshot()
	attrs := []any{
		slog.Int("scanned", report.Scanned),
		slog.Int("updated", report.Updated),
		slog.Int("unchanged", report.Unchanged),
		slog.Int("failed", report.Failed()),
		slog.Duration("duration", time.Since(start)),
	}
	if runErr != nil {
		log.Error("keyword refresh aborted", append(attrs, slog.String("error", runErr.Error()))...)
		return &report, runErr
	}
	log.Info("keyword refresh completed", attrs...)
	return &report, nil
}

// scan pages through the collection and submits a task for every product
// whose keywords are stale.
func (r *KeywordRefresher) scan(ctx context.Context, queue *TaskQueue, tally *refreshTally) error {
	var after *store.Cursor
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := r.products.Query(ctx, store.ProductQuery{
			Limit:      r.config.BatchSize,
			StartAfter: after,
		})
		if err != nil {
			return fmt.Errorf("failed to scan products: %w", err)
		}

		for _, p := range batch {
			tally.scanned()

			title, ok := p.Title()
			if !ok {
				tally.fail(p.ID, domain.ErrMissingTitle)
				continue
			}
			keywords := domain.DeriveSearchKeywords(title)
			if _, stored := p.Get(domain.FieldSearchKeywords); stored &&
				domain.KeywordsEqual(keywords, p.SearchKeywords()) {
				tally.unchanged()
				continue
			}

			t := &keywordTask{products: r.products, productID: p.ID, keywords: keywords, tally: tally}
			if err := queue.EnqueueContext(ctx, t); err != nil {
				return err
			}
		}

		if len(batch) < r.config.BatchSize {
			return nil
		}
		after = &store.Cursor{ID: batch[len(batch)-1].ID}
	}
}

// keywordTask writes the derived keywords of one product.
type keywordTask struct {
	products  store.ProductStore
	productID string
	keywords  []string
	tally     *refreshTally
}

func (t *keywordTask) ID() string   { return t.productID }
func (t *keywordTask) Type() string { return TaskTypeKeywordRefresh }

func (t *keywordTask) Execute(ctx context.Context) error {
	if err := t.products.SetSearchKeywords(ctx, t.productID, t.keywords); err != nil {
		return err
	}
	t.tally.updated()
	return nil
}

// refreshTally accumulates a report from concurrent workers.
type refreshTally struct {
	mu     sync.Mutex
	report RefreshReport
}

func (t *refreshTally) scanned() {
	t.mu.Lock()
	t.report.Scanned++
	t.mu.Unlock()
}

func (t *refreshTally) unchanged() {
	t.mu.Lock()
	t.report.Unchanged++
	t.mu.Unlock()
}

func (t *refreshTally) updated() {
	t.mu.Lock()
	t.report.Updated++
	t.mu.Unlock()
}

func (t *refreshTally) fail(id string, err error) {
	t.mu.Lock()
	t.report.Failures = append(t.report.Failures, RefreshFailure{ID: id, Reason: err.Error()})
	t.mu.Unlock()
}

func (t *refreshTally) snapshot() RefreshReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	report := t.report
	report.Failures = make([]RefreshFailure, len(t.report.Failures))
	copy(report.Failures, t.report.Failures)
	return report
}
