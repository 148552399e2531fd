package tracing

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/chaindemo/internal/flow"
)

// Recorder turns flow events into spans: one demo.run span per run with
// demo.generate and demo.deploy children.
type Recorder struct {
	tracer trace.Tracer

	mu      sync.Mutex
	payload flow.Payload
	runs    map[string]*runSpans
}

type runSpans struct {
	ctx      context.Context
	root     trace.Span
	generate trace.Span
	deploy   trace.Span
}

var _ flow.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder using tracer.
func NewRecorder(tracer trace.Tracer, payload flow.Payload) *Recorder {
	return &Recorder{
		tracer:  tracer,
		payload: payload,
		runs:    make(map[string]*runSpans),
	}
}

// SetPayload changes the payload attributes of runs started afterwards.
func (r *Recorder) SetPayload(p flow.Payload) {
	r.mu.Lock()
	r.payload = p
	r.mu.Unlock()
}

// Open returns the number of runs with an unfinished root span.
func (r *Recorder) Open() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

// Observe implements flow.Observer.
func (r *Recorder) Observe(ev flow.Event) {
	if ev.RunID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rs := r.runs[ev.RunID]
	if rs == nil {
		if ev.Kind == flow.EventReset {
			return
		}
		ctx, root := r.tracer.Start(context.Background(), SpanRun, trace.WithAttributes(
			attribute.String(AttrRunID, ev.RunID),
			attribute.String(AttrPayload, r.payload.Name),
			attribute.String(AttrNetwork, r.payload.Network),
		))
		rs = &runSpans{ctx: ctx, root: root}
		r.runs[ev.RunID] = rs
	}

	switch ev.Kind {
	case flow.EventSubmitted:
		rs.root.AddEvent(EventPromptSubmitted, trace.WithAttributes(attribute.Int(AttrPromptLen, len(ev.Detail))))

	case flow.EventGenerateStarted:
		_, rs.generate = r.tracer.Start(rs.ctx, SpanGenerate)

	case flow.EventCodeRevealed:
		if rs.generate != nil {
			rs.generate.AddEvent(EventCodeRevealed)
		}

	case flow.EventContractReady:
		endOK(rs.generate)
		rs.generate = nil

	case flow.EventSessionCreated:
		rs.root.AddEvent(EventSessionKey)

	case flow.EventDeployStarted:
		_, rs.deploy = r.tracer.Start(rs.ctx, SpanDeploy)

	case flow.EventDeployStatus:
		if rs.deploy != nil {
			rs.deploy.AddEvent(EventDeployStatus, trace.WithAttributes(attribute.String(AttrMessage, ev.Detail)))
		}

	case flow.EventDeployed:
		if rs.deploy != nil {
			rs.deploy.SetAttributes(attribute.String(AttrTxHash, ev.Detail))
			endOK(rs.deploy)
		}
		rs.root.SetAttributes(
			attribute.String(AttrOutcome, "deployed"),
			attribute.String(AttrStep, ev.Step.String()),
		)
		endOK(rs.root)
		delete(r.runs, ev.RunID)

	case flow.EventReset:
		for _, s := range []trace.Span{rs.generate, rs.deploy} {
			if s != nil {
				s.SetStatus(codes.Error, "reset")
				s.End()
			}
		}
		rs.root.SetAttributes(
			attribute.String(AttrOutcome, "reset"),
			attribute.String(AttrStep, ev.Step.String()),
		)
		rs.root.SetStatus(codes.Error, "reset before deploy")
		rs.root.End()
		delete(r.runs, ev.RunID)
	}
}

func endOK(s trace.Span) {
	if s == nil {
		return
	}
	s.SetStatus(codes.Ok, "")
	s.End()
}
