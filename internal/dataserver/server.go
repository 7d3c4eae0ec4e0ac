package dataserver

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/kestreldata/geofleet/internal/catalog"
	"github.com/kestreldata/geofleet/internal/geonames"
	"github.com/kestreldata/geofleet/internal/manager"
)

// Config holds the per-deployment settings every Server shares: where
// to download through, and where scratch/cache files live on disk.
type Config struct {
	ProxyHost  string
	ProxyPort  int
	ScratchDir string // downloaded ZIPs live here until extracted
	CacheDir   string // FCP cache files + etag sidecars live here
}

type controlKind int

const (
	controlTrace controlKind = iota
)

type controlMsg struct {
	kind    controlKind
	traceOn bool
}

// Server is one country's data server. Construct with New; the manager
// runs its pipeline with `go srv.Run(...)`.
type Server struct {
	entry catalog.Entry
	cfg   Config

	downloader *geonames.Downloader

	ctx    context.Context
	cancel context.CancelFunc

	control      chan controlMsg
	shuttingDown atomic.Bool
	trace        atomic.Bool
	entries      atomic.Pointer[[]geonames.CountryIndexEntry]
}

// New constructs a Server bound to one catalog entry. ctx is the
// manager's per-country cancellation token: cancelling it forcibly
// kills the server exactly as `reset` requires, whether or not
// Shutdown was ever called.
func New(ctx context.Context, entry catalog.Entry, cfg Config) (*Server, error) {
	d, err := geonames.NewDownloader(cfg.ProxyHost, cfg.ProxyPort)
	if err != nil {
		return nil, fmt.Errorf("building downloader: %w", err)
	}

	sctx, cancel := context.WithCancel(ctx)
	return &Server{
		entry:      entry,
		cfg:        cfg,
		downloader: d,
		ctx:        sctx,
		cancel:     cancel,
		control:    make(chan controlMsg, 4),
	}, nil
}

// Shutdown requests orderly termination (manager.Handle). Cancelling
// the server's own context is what interrupts any in-flight download
// or file I/O — the same context a manager-initiated reset would
// cancel, the difference being the shuttingDown flag Run uses to tell
// the two apart when deciding what to report.
func (s *Server) Shutdown() {
	s.shuttingDown.Store(true)
	s.cancel()
}

// SetTrace toggles verbose logging. Non-blocking: if the control
// channel is momentarily full, the toggle is dropped rather than
// stalling the caller.
func (s *Server) SetTrace(on bool) {
	select {
	case s.control <- controlMsg{kind: controlTrace, traceOn: on}:
	default:
	}
}

// Entries returns the server's loaded index, or nil before startup has
// reached running. Safe to call from any goroutine: it only ever reads
// the atomic pointer Run stores once, after the index is built and
// will never be mutated again.
func (s *Server) Entries() []geonames.CountryIndexEntry {
	if p := s.entries.Load(); p != nil {
		return *p
	}
	return nil
}

// Run executes the 8-stage startup pipeline and then blocks serving
// until Shutdown or a forced reset cancels the server's context. It
// sends progress events throughout and exactly one terminal ExitEvent
// before returning, with one exception: a cancellation without
// Shutdown after the server has reached running ends serve without an
// ExitEvent, since a reset rebuilds the manager's record synchronously
// and expects no confirming message. A cancellation without Shutdown
// during startup is reported as a crash.
func (s *Server) Run(progress chan<- manager.ProgressEvent, exit chan<- manager.ExitEvent) {
	code := s.entry.Code
	name := manager.ServerName(code)

	progress <- manager.ProgressEvent{Code: code, Kind: manager.ProgressInit, Timestamp: time.Now()}

	entries, err := s.buildIndex(progress)
	if err != nil {
		if s.shuttingDown.Load() {
			// Shutdown was requested mid-pipeline: the pipeline's own
			// error is just ctx cancellation propagating up, not a
			// genuine download/parse failure, so this still counts as
			// a clean stop rather than a crash.
			exit <- manager.ExitEvent{Code: code, Kind: manager.ExitStopped}
			return
		}
		s.finish(exit, code, err)
		return
	}

	progress <- manager.ProgressEvent{Code: code, Kind: manager.ProgressPhaseComplete}

	if len(entries) == 0 {
		exit <- manager.ExitEvent{Code: code, Kind: manager.ExitNoCities}
		return
	}

	s.entries.Store(&entries)

	completed := time.Now()
	progress <- manager.ProgressEvent{
		Code:      code,
		Kind:      manager.ProgressRunning,
		CityCount: len(entries),
		Completed: completed,
		MemUsage:  estimateMemUsage(entries),
	}

	log.Printf("%s: running with %d cities", name, len(entries))
	s.serve(exit, code)
}

// serve blocks until the server's context is cancelled, opportunistically
// applying trace toggles in the meantime. This is the "running" state of
// the server's lifecycle.
func (s *Server) serve(exit chan<- manager.ExitEvent, code string) {
	for {
		select {
		case <-s.ctx.Done():
			if s.shuttingDown.Load() {
				exit <- manager.ExitEvent{Code: code, Kind: manager.ExitStopped}
			}
			// else: the manager is resetting this country and already
			// rebuilt the record; no confirmation message is expected.
			return
		case msg := <-s.control:
			if msg.kind == controlTrace {
				s.trace.Store(msg.traceOn)
			}
		}
	}
}

// buildIndex runs stages 2 through 6 of the startup pipeline, returning
// the joined CountryIndexEntry set or a crash reason.
func (s *Server) buildIndex(progress chan<- manager.ProgressEvent) ([]geonames.CountryIndexEntry, manager.Reason) {
	code := s.entry.Code

	progress <- manager.ProgressEvent{Code: code, Kind: manager.ProgressCheckingForUpdate, Substatus: "checking_for_update"}

	zipURL := geonames.CountryZipURL(code)

	if rec, ok := geonames.ReadEtag(s.cfg.CacheDir, code); ok && geonames.HasCache(s.cfg.CacheDir, code) {
		if rec.IsFresh(time.Now()) {
			return s.readCachedIndex(code)
		}
		if newEtag, err := s.downloader.ETag(s.ctx, zipURL); err == nil && newEtag != "" && newEtag == rec.ETag {
			return s.readCachedIndex(code)
		}
	}

	return s.rebuildIndex(progress, code, zipURL)
}

func (s *Server) readCachedIndex(code string) ([]geonames.CountryIndexEntry, manager.Reason) {
	entries, err := geonames.ReadFCP(s.cfg.CacheDir, code)
	if err != nil {
		return nil, &FCPCountryFileError{Err: err}
	}
	return entries, nil
}

func (s *Server) rebuildIndex(progress chan<- manager.ProgressEvent, code, zipURL string) ([]geonames.CountryIndexEntry, manager.Reason) {
	progress <- manager.ProgressEvent{Code: code, Kind: manager.ProgressCountryFileDownload, Substatus: "country_file_download"}

	zipPath := filepath.Join(s.cfg.ScratchDir, code+".zip")
	etag, err := s.downloader.Get(s.ctx, zipURL, zipPath)
	if err != nil {
		return nil, &RetryLimitExceeded{Code: code, Err: err}
	}
	progress <- manager.ProgressEvent{Code: code, Kind: manager.ProgressDelta, Delta: 40}

	textPath, err := extractSingleMember(zipPath)
	os.Remove(zipPath) // scratch ZIP is deleted once extraction has been attempted
	if err != nil {
		return nil, &CountryZipFileError{Path: zipPath, Err: err}
	}
	defer os.Remove(textPath)
	progress <- manager.ProgressEvent{Code: code, Kind: manager.ProgressDelta, Delta: 20}

	f, err := os.Open(textPath)
	if err != nil {
		return nil, &CountryFileError{Err: err}
	}
	places, admins, err := geonames.ParseCountryFile(f)
	f.Close()
	if err != nil {
		return nil, &CountryFileError{Err: err}
	}
	progress <- manager.ProgressEvent{Code: code, Kind: manager.ProgressDelta, Delta: 30}

	entries := geonames.BuildIndex(places, admins)
	if err := geonames.WriteFCP(s.cfg.CacheDir, code, entries, etag, time.Now()); err != nil {
		return nil, &genericError{err: fmt.Errorf("writing FCP cache: %w", err)}
	}

	return entries, nil
}

func (s *Server) finish(exit chan<- manager.ExitEvent, code string, reason manager.Reason) {
	exit <- manager.ExitEvent{Code: code, Kind: manager.ExitCrashed, Reason: reason}
}

// extractSingleMember extracts the sole text member of a geonames
// country ZIP to a sibling file, grounded on
// andreiashu-geobed/geobed.go's loadGeonamesCities/processZipEntry zip
// handling, adapted from in-memory scanning to extraction because this
// pipeline needs the raw file path for the parse stage to re-open.
func extractSingleMember(zipPath string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("opening zip %s: %w", zipPath, err)
	}
	defer r.Close()

	if len(r.File) == 0 {
		return "", fmt.Errorf("zip %s has no members", zipPath)
	}
	member := r.File[0]

	rc, err := member.Open()
	if err != nil {
		return "", fmt.Errorf("opening member %s: %w", member.Name, err)
	}
	defer rc.Close()

	destPath := zipPath + ".txt"
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("extracting %s: %w", member.Name, err)
	}
	return destPath, nil
}

// estimateMemUsage gives a rough per-country memory sample from the
// index size. This is a sample, not an instrumented measurement — the
// source's own erlang:process_info-based figure was approximate too.
func estimateMemUsage(entries []geonames.CountryIndexEntry) uint64 {
	const approxBytesPerEntry = 256
	return uint64(len(entries)) * approxBytesPerEntry
}
