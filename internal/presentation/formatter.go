package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatRuns formats a list of runs as JSON
func (f *Formatter) FormatRuns(runs []RunDTO) error {
	return f.encode(runs)
}

// FormatRun formats a single run, including its events, as JSON
func (f *Formatter) FormatRun(run RunDTO) error {
	return f.encode(run)
}

// FormatStats formats journal stats as JSON
func (f *Formatter) FormatStats(stats StatsDTO) error {
	return f.encode(stats)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
