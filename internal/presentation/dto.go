// Package presentation converts demo records into JSON-friendly shapes.
package presentation

import (
	"time"

	"github.com/zjrosen/chaindemo/internal/history"
)

// RunDTO represents a journaled demo run for presentation
type RunDTO struct {
	ID         string     `json:"id"`
	Payload    string     `json:"payload"`
	Network    string     `json:"network"`
	Prompt     string     `json:"prompt,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	DurationMS int64      `json:"duration_ms"`
	FinalStep  string     `json:"final_step"`
	Outcome    string     `json:"outcome"`
	TxHash     string     `json:"tx_hash,omitempty"`
	EventCount int        `json:"event_count"`
	Events     []EventDTO `json:"events,omitempty"`
}

// EventDTO represents one journaled flow event
type EventDTO struct {
	Kind   string    `json:"kind"`
	Step   string    `json:"step"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// StatsDTO summarizes the journal
type StatsDTO struct {
	Runs            int   `json:"runs"`
	Deployed        int   `json:"deployed"`
	Reset           int   `json:"reset"`
	Running         int   `json:"running"`
	AvgDeployMillis int64 `json:"avg_deploy_ms"`
}

// FromRun converts a history run to a DTO.
func FromRun(run history.Run) RunDTO {
	return RunDTO{
		ID:         run.ID,
		Payload:    run.Payload,
		Network:    run.Network,
		Prompt:     run.Prompt,
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: utcPtr(run.FinishedAt),
		DurationMS: run.Duration().Milliseconds(),
		FinalStep:  run.FinalStep,
		Outcome:    string(run.Outcome),
		TxHash:     run.TxHash,
		EventCount: run.EventCount,
	}
}

// FromRuns converts a slice of runs. The result is never nil so JSON
// output is "[]" for an empty journal.
func FromRuns(runs []history.Run) []RunDTO {
	dtos := make([]RunDTO, 0, len(runs))
	for _, r := range runs {
		dtos = append(dtos, FromRun(r))
	}
	return dtos
}

// FromRunWithEvents converts a run together with its events.
func FromRunWithEvents(run history.Run, events []history.EventRecord) RunDTO {
	dto := FromRun(run)
	dto.Events = make([]EventDTO, 0, len(events))
	for _, ev := range events {
		dto.Events = append(dto.Events, EventDTO{
			Kind:   string(ev.Kind),
			Step:   ev.Step,
			Detail: ev.Detail,
			At:     ev.At.UTC(),
		})
	}
	return dto
}

// FromStats converts journal stats to a DTO.
func FromStats(s history.Stats) StatsDTO {
	return StatsDTO{
		Runs:            s.Runs,
		Deployed:        s.Deployed,
		Reset:           s.Reset,
		Running:         s.Running,
		AvgDeployMillis: s.AvgDeploy.Milliseconds(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
