package history

import (
	"context"
	"sync"
	"time"

	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/log"
)

// Recorder journals flow events. Write failures are logged and dropped so
// the demo keeps running with a broken or locked database.
type Recorder struct {
	db  *DB
	ctx context.Context
	now func() time.Time

	mu      sync.Mutex
	payload flow.Payload
	started map[string]bool
}

var _ flow.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder writing to db. payload describes the runs
// it is about to see.
func NewRecorder(ctx context.Context, db *DB, payload flow.Payload) *Recorder {
	return &Recorder{
		db:      db,
		ctx:     ctx,
		now:     time.Now,
		payload: payload,
		started: make(map[string]bool),
	}
}

// SetPayload changes the payload recorded for runs started afterwards.
func (r *Recorder) SetPayload(p flow.Payload) {
	r.mu.Lock()
	r.payload = p
	r.mu.Unlock()
}

// Observe implements flow.Observer.
func (r *Recorder) Observe(ev flow.Event) {
	if ev.RunID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	at := r.now()
	if !r.started[ev.RunID] {
		run := Run{
			ID:        ev.RunID,
			Payload:   r.payload.Name,
			Network:   r.payload.Network,
			StartedAt: at,
		}
		if ev.Kind == flow.EventSubmitted {
			run.Prompt = ev.Detail
		}
		if err := r.db.StartRun(r.ctx, run); err != nil {
			log.ErrorErr(log.CatDB, "Failed to record run start", err, "run", ev.RunID)
			return
		}
		r.started[ev.RunID] = true
	}

	rec := EventRecord{
		RunID:  ev.RunID,
		Kind:   ev.Kind,
		Step:   ev.Step.String(),
		Detail: ev.Detail,
		At:     at,
	}
	if err := r.db.AppendEvent(r.ctx, rec); err != nil {
		log.ErrorErr(log.CatDB, "Failed to record event", err, "run", ev.RunID, "kind", ev.Kind)
	}

	var err error
	switch ev.Kind {
	case flow.EventDeployed:
		err = r.db.FinishRun(r.ctx, ev.RunID, OutcomeDeployed, ev.Step.String(), ev.Detail, at)
		delete(r.started, ev.RunID)
	case flow.EventReset:
		err = r.db.FinishRun(r.ctx, ev.RunID, OutcomeReset, ev.Step.String(), "", at)
		delete(r.started, ev.RunID)
	}
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to finish run", err, "run", ev.RunID)
	}
}
