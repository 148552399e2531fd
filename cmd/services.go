package cmd

import (
	"context"
	"time"

	"github.com/zjrosen/chaindemo/internal/config"
	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/history"
	"github.com/zjrosen/chaindemo/internal/log"
	"github.com/zjrosen/chaindemo/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

// services holds the optional observers a demo run reports to. Each one
// that fails to open is logged and left out.
type services struct {
	observers []flow.Observer
	db        *history.DB
	provider  *tracing.Provider
}

func openServices(ctx context.Context, c config.Config) *services {
	if ctx == nil {
		ctx = context.Background()
	}
	payload, err := flow.LookupPayload(c.Demo.Payload)
	if err != nil {
		payload = flow.DefaultPayload()
	}

	s := &services{}

	if c.History.Enabled {
		db, err := history.NewDB(config.ExpandHome(c.History.Path))
		if err != nil {
			log.ErrorErr(log.CatDB, "Run history unavailable", err, "path", c.History.Path)
		} else {
			s.db = db
			s.observers = append(s.observers, history.NewRecorder(ctx, db, payload))
		}
	}

	provider, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		log.ErrorErr(log.CatTrace, "Tracing unavailable", err, "exporter", c.Tracing.Exporter)
	} else {
		s.provider = provider
		if provider.Enabled() {
			s.observers = append(s.observers, tracing.NewRecorder(provider.Tracer(), payload))
		}
	}

	return s
}

// Observers returns the observers to register on the flow controller.
func (s *services) Observers() []flow.Observer {
	return s.observers
}

// Close flushes spans and closes the history database.
func (s *services) Close() {
	if s.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := s.provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
		cancel()
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.ErrorErr(log.CatDB, "Closing history failed", err)
		}
	}
}

// openHistory opens the journal for the history subcommands.
func openHistory(c config.Config) (*history.DB, error) {
	return history.NewDB(config.ExpandHome(c.History.Path))
}
