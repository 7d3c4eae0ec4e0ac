package manager

import (
	"context"
	"log"
	"time"

	"github.com/kestreldata/geofleet/internal/catalog"
)

// SpawnFunc starts a data server for a catalog entry and returns the
// manager's Handle to it. The spawned goroutine must send its progress
// and exit events on the given channels and must send exactly one
// ExitEvent before returning. Supplied by the caller (cmd/geofleetd
// wires this to internal/dataserver.NewSpawner) so this package never imports
// internal/dataserver — supervision becomes ownership of the child's
// channels plus its cancellation func, nothing more.
type SpawnFunc func(ctx context.Context, entry catalog.Entry, progress chan<- ProgressEvent, exit chan<- ExitEvent) Handle

// Manager is the Country Manager: the singleton coordinator that owns
// the CountryStatus table. Construct with New and run its loop with
// Run; every other interaction happens by sending a Command on
// Commands().
type Manager struct {
	cat   *catalog.Catalog
	aux   AuxStore
	spawn SpawnFunc

	table map[string]*CountryStatus
	order []*CountryStatus

	cancel map[string]context.CancelFunc

	trace           bool
	pendingShutdown bool

	cmdCh      chan Command
	progressCh chan ProgressEvent
	exitCh     chan ExitEvent
}

// New builds the initial CountryStatus table, one stopped record per
// catalog entry, sorted into the default presentation order (continent
// descending, country_name ascending). aux may be nil if the deployment
// has no auxiliary document store configured.
func New(cat *catalog.Catalog, aux AuxStore, spawn SpawnFunc) *Manager {
	entries := cat.All()
	table := make(map[string]*CountryStatus, len(entries))
	records := make([]*CountryStatus, 0, len(entries))
	for _, e := range entries {
		s := &CountryStatus{
			CountryCode: e.Code,
			ServerName:  ServerName(e.Code),
			CountryName: e.Name,
			Continent:   e.Continent,
			Status:      StatusStopped,
		}
		table[e.Code] = s
		records = append(records, s)
	}

	return &Manager{
		cat:        cat,
		aux:        aux,
		spawn:      spawn,
		table:      table,
		order:      defaultOrder(records),
		cancel:     make(map[string]context.CancelFunc),
		cmdCh:      make(chan Command),
		progressCh: make(chan ProgressEvent, len(entries)),
		exitCh:     make(chan ExitEvent, len(entries)),
	}
}

// Aux returns the auxiliary document-store handle supplied at
// construction. The core gives it no operation beyond holding it —
// this accessor exists so an external caller (e.g. the admin surface)
// can reach it without the manager mediating every read.
func (m *Manager) Aux() AuxStore {
	return m.aux
}

// Commands returns the channel callers send Command values on. The
// channel is unbuffered: a send blocks until Run's select loop is ready
// for it, which is what gives strict arrival-order command processing
// without any queue data structure.
func (m *Manager) Commands() chan<- Command {
	return m.cmdCh
}

// Run is the manager's single select loop. It owns the CountryStatus
// table exclusively: no other goroutine ever reads or writes m.table or
// m.order, so no mutex guards them. Run returns once the fleet has
// drained after a terminate command, or when ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-m.cmdCh:
			reply := m.dispatch(cmd)
			cmd.Reply <- reply
			if m.drained() {
				return nil
			}

		case ev := <-m.progressCh:
			m.applyProgress(ev)

		case ev := <-m.exitCh:
			m.applyExit(ev)
			if m.drained() {
				return nil
			}
		}
	}
}

// drained reports whether a pending terminate has nothing left to wait
// for: every record has reached a state with no live handle. The
// manager exits normally once the fleet is empty in this sense and a
// pending-shutdown flag is set — "empty" here means no live data
// server remains, since CountryStatus records
// themselves are never removed from the table.
func (m *Manager) drained() bool {
	if !m.pendingShutdown {
		return false
	}
	for _, s := range m.table {
		if s.Status == StatusStarting || s.Status == StatusStarted {
			return false
		}
	}
	return true
}

func (m *Manager) dispatch(cmd Command) Reply {
	switch cmd.Kind {
	case CmdStatus:
		return Reply{Status: ReplyOK, Records: m.snapshot(), ManagerTrace: m.trace}

	case CmdStatusStarted:
		var out []*CountryStatus
		for _, s := range m.order {
			if s.Status == StatusStarted {
				out = append(out, s.clone())
			}
		}
		return Reply{Status: ReplyOK, Records: out}

	case CmdStart:
		return m.start(cmd.Code)

	case CmdStartAll:
		for _, s := range m.order {
			if s.Status == StatusStopped {
				m.startLocked(s)
			}
		}
		return Reply{Status: ReplyOK, Records: m.snapshot()}

	case CmdShutdown:
		s, ok := m.table[cmd.Code]
		if !ok {
			return Reply{Status: ReplyOK} // noop: no such server to shut down
		}
		if s.Handle != nil {
			s.Handle.Shutdown()
		}
		return Reply{Status: ReplyOK, Record: s.clone()}

	case CmdShutdownAll:
		for _, s := range m.order {
			if (s.Status == StatusStarting || s.Status == StatusStarted) && s.Handle != nil {
				s.Handle.Shutdown()
			}
		}
		m.pendingShutdown = false
		return Reply{Status: ReplyOK, Records: m.snapshot()}

	case CmdTerminate:
		for _, s := range m.order {
			if (s.Status == StatusStarting || s.Status == StatusStarted) && s.Handle != nil {
				s.Handle.Shutdown()
			}
		}
		m.pendingShutdown = true
		return Reply{Status: ReplyGoodbye, Records: m.snapshot()}

	case CmdReset:
		return m.reset(cmd.Code)

	case CmdResetAll:
		var out []*CountryStatus
		for _, s := range m.order {
			if s.Status == StatusCrashed {
				m.resetLocked(s)
				out = append(out, s.clone())
			}
		}
		return Reply{Status: ReplyOK, Records: out}

	case CmdTrace:
		m.trace = cmd.TraceOn
		return Reply{Status: ReplyOK}

	case CmdTraceCountry:
		s, ok := m.table[cmd.Code]
		if !ok {
			return errorReply(ErrNoSuchCountryServer)
		}
		if s.Trace != cmd.TraceOn {
			if s.Handle != nil {
				s.Handle.SetTrace(cmd.TraceOn)
			}
			s.Trace = cmd.TraceOn
		}
		return Reply{Status: ReplyOK}

	case CmdSort:
		m.order = sortRecords(m.order, cmd.SortColumn, cmd.SortDirection)
		return Reply{Status: ReplyOK, Records: m.snapshot()}

	default:
		log.Printf("manager: unknown command kind %d", cmd.Kind)
		return Reply{Status: ReplyError, Reason: "unknown_command"}
	}
}

func (m *Manager) start(code string) Reply {
	s, ok := m.table[code]
	if !ok {
		return errorReply(ErrCountryServerNotFound)
	}
	if s.Status != StatusStopped {
		return errorReply(ErrAlreadyStarted)
	}
	m.startLocked(s)
	return Reply{Status: ReplyOK, Record: s.clone()}
}

// startLocked spawns a data server for s. Named Locked only by
// convention: there is no actual lock, the table is owned by the
// single goroutine calling this.
func (m *Manager) startLocked(s *CountryStatus) {
	entry, ok := m.cat.Lookup(s.CountryCode)
	if !ok {
		log.Printf("manager: catalog entry for %s vanished after boot", s.CountryCode)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel[s.CountryCode] = cancel

	s.Status = StatusStarting
	s.Substatus = ""
	s.Progress = 0
	s.Children = nil
	s.Handle = m.spawn(ctx, entry, m.progressCh, m.exitCh)
}

func (m *Manager) reset(code string) Reply {
	s, ok := m.table[code]
	if !ok {
		return errorReply(ErrCountryServerNotFound)
	}
	if s.Status != StatusCrashed {
		return errorReply(ErrServerNotCrashed)
	}
	m.resetLocked(s)
	return Reply{Status: ReplyOK, Record: s.clone()}
}

// resetLocked kills any lingering handle unconditionally and rebuilds
// the record to its initial stopped state: reset is unconditional, not
// best-effort like shutdown.
func (m *Manager) resetLocked(s *CountryStatus) {
	if cancel, ok := m.cancel[s.CountryCode]; ok {
		cancel()
		delete(m.cancel, s.CountryCode)
	}
	s.Handle = nil
	s.Status = StatusStopped
	s.Substatus = ""
	s.Progress = 0
	s.Children = nil
	s.StartedAt = time.Time{}
	s.StartupTime = 0
	s.CityCount = 0
	s.MemUsage = 0
	s.Trace = false
}

func (m *Manager) applyProgress(ev ProgressEvent) {
	s, ok := m.table[ev.Code]
	if !ok {
		log.Printf("manager: progress event for unknown country %s", ev.Code)
		return
	}

	switch ev.Kind {
	case ProgressCheckingForUpdate:
		s.Substatus = "checking_for_update"
	case ProgressCountryFileDownload:
		s.Substatus = "country_file_download"
	case ProgressInit:
		s.Progress = 0
		s.StartedAt = ev.Timestamp
	case ProgressDelta:
		s.Progress += ev.Delta
		if s.Progress > 100 {
			s.Progress = 100
		}
	case ProgressChild:
		s.Children = append(s.Children, ev.ChildID)
	case ProgressPhaseComplete:
		s.Progress = 100
	case ProgressRunning:
		s.Status = StatusStarted
		s.Progress = 100
		s.CityCount = ev.CityCount
		s.StartupTime = ev.Completed.Sub(s.StartedAt)
		s.MemUsage = ev.MemUsage
	default:
		log.Printf("manager: unknown progress kind %d for %s", ev.Kind, ev.Code)
	}
}

func (m *Manager) applyExit(ev ExitEvent) {
	s, ok := m.table[ev.Code]
	if !ok {
		log.Printf("manager: exit event for unknown country %s", ev.Code)
		return
	}

	if cancel, ok := m.cancel[ev.Code]; ok {
		cancel()
		delete(m.cancel, ev.Code)
	}

	s.Handle = nil
	s.Progress = 0
	s.CityCount = 0
	s.StartupTime = 0
	s.MemUsage = 0

	switch ev.Kind {
	case ExitStopped:
		s.Status = StatusStopped
		s.Substatus = ""
		s.Trace = false
	case ExitNoCities:
		s.Status = StatusStopped
		s.Substatus = "no_cities"
		s.Trace = false
	case ExitCrashed:
		s.Status = StatusCrashed
		if ev.Reason != nil {
			s.Substatus = ev.Reason.Reason()
		}
		s.Children = nil
		s.Trace = false
	}
}

// snapshot returns a deep-enough copy of the current presentation
// order, safe to hand across a Reply channel.
func (m *Manager) snapshot() []*CountryStatus {
	out := make([]*CountryStatus, len(m.order))
	for i, s := range m.order {
		out[i] = s.clone()
	}
	return out
}

