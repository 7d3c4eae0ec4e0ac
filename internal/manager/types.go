package manager

import (
	"strings"
	"time"

	"github.com/kestreldata/geofleet/internal/geonames"
)

// Status is the coarse lifecycle state of one country's data server.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusStarted  Status = "started"
	StatusCrashed  Status = "crashed"
)

// Handle is the manager's view of a live data server. It deliberately
// exposes nothing beyond what the manager needs to supervise the
// server and what the search surface needs to read its loaded index —
// the manager package never imports internal/dataserver, so this
// interface is the entire contract between the two.
type Handle interface {
	// Shutdown requests orderly termination. Best-effort: the manager
	// does not wait for it, it waits for the confirming ExitEvent.
	Shutdown()

	// SetTrace toggles verbose logging on the running server.
	SetTrace(on bool)

	// Entries returns the server's loaded index, or nil before it has
	// reached running. The search surface reads this across every
	// started country's handle; it never blocks and never mutates the
	// server's own state.
	Entries() []geonames.CountryIndexEntry
}

// AuxStore is the narrow interface the manager holds to the external
// document store a deployment may configure. The core gives it no
// operation beyond holding a handle and reading/writing opaque string
// values, so that is all this interface expresses.
type AuxStore interface {
	Get(key string) (string, bool)
	Put(key, value string)
}

// CountryStatus is one record in the manager's fleet table: exactly one
// per catalog entry, for the entire process lifetime. Identity
// (CountryCode/ServerName/CountryName/Continent) never mutates; every
// other field is rewritten in place by the manager's Run loop.
type CountryStatus struct {
	// Identity, set once at table construction.
	CountryCode string // ISO-2, uppercase
	ServerName  string // "country_server_" + lowercase(code)
	CountryName string
	Continent   string

	// Runtime, rewritten by the manager on every relevant command or
	// unsolicited data-server message.
	Handle       Handle // present iff Status is starting or started
	Status       Status
	Substatus    string // free-form phase tag, see progress/exit handling
	Progress     int    // 0-100
	Children     []string
	StartedAt    time.Time
	StartupTime  time.Duration // set on transition to started
	CityCount    int           // meaningful only when Status == started
	MemUsage     uint64        // bytes; meaningful only when Status == started
	Trace        bool
}

// ServerName derives the canonical data-server identifier for a country
// code, used both to seed CountryStatus.ServerName and to label log
// output consistently with the manager's own naming.
func ServerName(code string) string {
	return "country_server_" + strings.ToLower(code)
}

// clone returns a deep-enough copy of s for safe return across a Reply
// channel: the slice is copied so a caller mutating Children cannot
// corrupt the manager's own table, matching the copy-out discipline
// ShardRegistry uses in johnjansen-torua.
func (s *CountryStatus) clone() *CountryStatus {
	out := *s
	if s.Children != nil {
		out.Children = make([]string, len(s.Children))
		copy(out.Children, s.Children)
	}
	return &out
}

// ProgressKind discriminates the unsolicited progress messages a data
// server sends while starting up.
type ProgressKind int

const (
	ProgressCheckingForUpdate ProgressKind = iota
	ProgressCountryFileDownload
	ProgressInit
	ProgressDelta
	ProgressChild
	ProgressPhaseComplete
	ProgressRunning
)

// ProgressEvent is an unsolicited message from a running data server to
// the manager. Only the fields relevant to Kind are populated.
type ProgressEvent struct {
	Code      string
	Kind      ProgressKind
	Substatus string    // ProgressCheckingForUpdate, ProgressCountryFileDownload
	Timestamp time.Time // ProgressInit
	Delta     int       // ProgressDelta
	ChildID   string    // ProgressChild
	CityCount int       // ProgressRunning
	Completed time.Time // ProgressRunning
	MemUsage  uint64    // ProgressRunning; sampled by the data server itself
}

// ExitKind discriminates how a data server's goroutine terminated.
type ExitKind int

const (
	ExitStopped ExitKind = iota
	ExitNoCities
	ExitCrashed
)

// Reason is implemented by the structured termination reasons a data
// server reports when it crashes (see internal/dataserver/reasons.go).
// Reason() yields the substatus tag the manager records verbatim —
// for the four named crash reasons that is a fixed tag
// ("retry_limit_exceeded", "country_file_error", ...); for any other
// error it is the error's own message.
type Reason interface {
	error
	Reason() string
}

// ExitEvent is the single terminal message a data server's goroutine
// sends before returning. Server.Run sends exactly one of these on
// every path except a context cancellation without Shutdown after the
// server has reached running (see Server.Run). Code is always known here — a Go data server
// goroutine is bound to its country code for its entire life, so the
// manager never needs a reverse handle-to-name lookup to know who
// crashed.
type ExitEvent struct {
	Code   string
	Kind   ExitKind
	Reason Reason // non-nil iff Kind == ExitCrashed
}
