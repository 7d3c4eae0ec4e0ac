package dataserver

import (
	"context"
	"log"

	"github.com/kestreldata/geofleet/internal/catalog"
	"github.com/kestreldata/geofleet/internal/geonames"
	"github.com/kestreldata/geofleet/internal/manager"
)

// NewSpawner builds a manager.SpawnFunc bound to cfg. cmd/geofleetd
// wires this into manager.New so internal/manager never has to know
// this package exists.
func NewSpawner(cfg Config) manager.SpawnFunc {
	return func(ctx context.Context, entry catalog.Entry, progress chan<- manager.ProgressEvent, exit chan<- manager.ExitEvent) manager.Handle {
		srv, err := New(ctx, entry, cfg)
		if err != nil {
			// New fails only if the downloader cannot be built
			// (geonames.NewDownloader returns no error for any proxy
			// setting); such a failure is surfaced as an immediate
			// crash rather than a handle that can never run.
			log.Printf("dataserver: %s: %v", entry.Code, err)
			go func() {
				exit <- manager.ExitEvent{Code: entry.Code, Kind: manager.ExitCrashed, Reason: &genericError{err: err}}
			}()
			return &deadHandle{}
		}
		go srv.Run(progress, exit)
		return srv
	}
}

// deadHandle is returned when New itself fails, so the manager still
// gets a non-nil Handle to hold until the ExitEvent above arrives.
type deadHandle struct{}

func (*deadHandle) Shutdown()     {}
func (*deadHandle) SetTrace(bool) {}
func (*deadHandle) Entries() []geonames.CountryIndexEntry { return nil }
