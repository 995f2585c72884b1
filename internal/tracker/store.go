package tracker

import (
	"context"
	"time"

	"github.com/Tiliavir/tcheck/internal/model"
)

// Store is the remote document store holding checkpoints.
type Store interface {
	// Find returns the checkpoints whose date equals day, ascending by time.
	Find(ctx context.Context, day time.Time) ([]model.Checkpoint, error)
	// Insert persists c and returns it with its assigned id.
	Insert(ctx context.Context, c model.Checkpoint) (model.Checkpoint, error)
	// Update replaces time, project, message and registered of the
	// checkpoint with c's id. It fails with model.ErrMissingID if c has none.
	Update(ctx context.Context, c model.Checkpoint) error
	// Delete removes the checkpoint with c's id.
	Delete(ctx context.Context, c model.Checkpoint) error
	// DistinctDates returns every date holding at least one checkpoint,
	// ascending.
	DistinctDates(ctx context.Context) ([]time.Time, error)
}

// TaskSource fetches the external task list.
type TaskSource interface {
	FetchTasks(ctx context.Context) ([]model.Task, error)
}
