package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"setlist/internal/catalog"
	"setlist/internal/logging"
	"setlist/internal/services"
	"setlist/internal/state"
	"setlist/internal/storage"
)

// ErrEmptyDataset is returned when the working dataset is missing or empty.
// It is a configuration error: retrying cannot fix it until scan runs.
var ErrEmptyDataset = fmt.Errorf("%w: working dataset is empty; run scan first", services.ErrConfiguration)

// ErrBusy is returned when another process holds the batch lock.
var ErrBusy = errors.New("another batch run is in progress")

// Runner executes one persisted batch step per call.
type Runner struct {
	store    storage.Store
	state    *state.Store
	wipName  string
	size     int
	enrich   EnrichFunc
	lock     *flock.Flock
	lockPath string
	logger   *slog.Logger
	now      func() time.Time
}

// Options configures a Runner.
type Options struct {
	Store     storage.Store
	State     *state.Store
	WIPName   string
	BatchSize int
	Enrich    EnrichFunc
	// LockPath is the file locked for the duration of a step. Empty disables
	// cross-process locking.
	LockPath string
	Logger   *slog.Logger
}

// NewRunner builds a Runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Store == nil || opts.State == nil || opts.Enrich == nil {
		return nil, errors.New("batch runner requires store, state and enrich function")
	}
	if opts.WIPName == "" {
		return nil, errors.New("batch runner requires a working dataset name")
	}
	r := &Runner{
		store:    opts.Store,
		state:    opts.State,
		wipName:  opts.WIPName,
		size:     opts.BatchSize,
		enrich:   opts.Enrich,
		lockPath: opts.LockPath,
		logger:   logging.NewComponentLogger(opts.Logger, "batch"),
		now:      time.Now,
	}
	if opts.LockPath != "" {
		r.lock = flock.New(opts.LockPath)
	}
	return r, nil
}

// RunOnce loads the working dataset, steps it from the persisted cursor,
// writes the dataset back in full and only then persists the new cursor.
func (r *Runner) RunOnce(ctx context.Context) (StepResult, error) {
	ctx = services.WithStage(ctx, "enrich")
	if r.lock != nil {
		ok, err := r.lock.TryLock()
		if err != nil {
			return StepResult{}, fmt.Errorf("acquire batch lock: %w", err)
		}
		if !ok {
			return StepResult{}, ErrBusy
		}
		defer func() {
			if err := r.lock.Unlock(); err != nil {
				r.logger.Warn("failed to release batch lock",
					logging.String("lock", r.lockPath),
					logging.Error(err))
			}
		}()
	}

	songs, _, err := catalog.Load(r.store, r.wipName)
	if err != nil {
		return StepResult{}, err
	}
	if len(songs) == 0 {
		return StepResult{}, ErrEmptyDataset
	}
	cursor, err := r.state.Cursor(ctx)
	if err != nil {
		return StepResult{}, fmt.Errorf("read cursor: %w", err)
	}

	started := r.now()
	res := Step(ctx, songs, cursor, r.size, r.enrich)
	if res.Complete && res.End == res.Start {
		r.logger.Info("all songs processed",
			logging.String(logging.FieldEventType, "batch_complete"),
			logging.Int("total", res.Total))
		return res, nil
	}

	// The step's progress is kept even when ctx ended mid-slice.
	persistCtx := context.WithoutCancel(ctx)
	if err := catalog.Save(r.store, r.wipName, res.Songs); err != nil {
		return res, err
	}
	if err := r.state.SetCursor(persistCtx, res.Cursor); err != nil {
		return res, fmt.Errorf("persist cursor: %w", err)
	}

	run := state.Run{
		ID:         uuid.NewString(),
		StartedAt:  started,
		FinishedAt: r.now(),
		Start:      res.Start,
		End:        res.End,
		Total:      res.Total,
		Enriched:   res.Enriched,
		Skipped:    res.Skipped,
		Complete:   res.Complete,
	}
	if err := r.state.RecordRun(persistCtx, run); err != nil {
		r.logger.Warn("failed to record batch run", logging.Error(err))
	}

	r.logger.Info("batch processed",
		logging.String(logging.FieldEventType, "batch_step"),
		logging.Int("start", res.Start+1),
		logging.Int("end", res.End),
		logging.Int("total", res.Total),
		logging.Int("enriched", res.Enriched),
		logging.Int("skipped", res.Skipped),
		logging.Bool("complete", res.Complete),
		logging.Bool("interrupted", res.Interrupted))
	return res, nil
}

// Reset rewinds the cursor to the start of the dataset.
func (r *Runner) Reset(ctx context.Context) error {
	return r.state.SetCursor(ctx, 0)
}
