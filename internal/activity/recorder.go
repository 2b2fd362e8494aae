package activity

import (
	"context"
	"log/slog"

	"github.com/taskroster/taskroster/internal/eventbus"
	"github.com/taskroster/taskroster/pkg/panicerr"
)

const subscriberBuffer = 256

// Recorder archives every bus event as a Record.
type Recorder struct {
	repo  Repository
	bus   *eventbus.Bus
	subID string
	ch    <-chan *eventbus.Event
}

// NewRecorder subscribes immediately so that events published before Run
// starts are not lost.
func NewRecorder(repo Repository, bus *eventbus.Bus) *Recorder {
	id, ch := bus.Subscribe(subscriberBuffer)
	return &Recorder{repo: repo, bus: bus, subID: id, ch: ch}
}

// Run records events until ctx is done.
func (r *Recorder) Run(ctx context.Context) error {
	defer r.bus.Unsubscribe(r.subID)
	record := panicerr.SafeContext(r.record)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-r.ch:
			if !ok {
				return nil
			}
			if err := record(ctx, ev); err != nil {
				slog.ErrorContext(ctx, "failed to record activity",
					"event_id", ev.ID, "event_type", string(ev.Type), "error", err)
			}
		}
	}
}

func (r *Recorder) record(ctx context.Context, ev *eventbus.Event) error {
	return r.repo.Create(ctx, &Record{
		ID:        ev.ID,
		TaskID:    ev.ResourceID,
		EventType: string(ev.Type),
		ActorID:   ev.ActorID,
		Metadata:  ev.Metadata,
		CreatedAt: ev.CreatedAt,
	})
}
