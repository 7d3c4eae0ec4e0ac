package manager

import "errors"

// Sentinel errors compared with errors.Is, surfaced to callers as the
// Reason field of an error Reply. These are the manager's synchronous
// operator-error vocabulary: they never change the table.
var (
	ErrAlreadyStarted        = errors.New("already_started")
	ErrCountryServerNotFound = errors.New("country_server_not_found")
	ErrServerNotCrashed      = errors.New("server_not_crashed")
	ErrNoSuchCountryServer   = errors.New("no_such_country_server")
)

// CommandKind enumerates the manager's public message contract,
// expressed as a sum type dispatched by a single handler rather than
// one large receive with many clauses.
type CommandKind int

const (
	CmdStatus CommandKind = iota
	CmdStatusStarted
	CmdStart
	CmdStartAll
	CmdShutdown
	CmdShutdownAll
	CmdTerminate
	CmdReset
	CmdResetAll
	CmdTrace
	CmdTraceCountry
	CmdSort
)

// Command is the single envelope every caller sends on the manager's
// inbound channel. Only the fields relevant to Kind are read; Reply
// must be non-nil and is always sent to exactly once.
type Command struct {
	Kind CommandKind

	Code string // CmdStart, CmdShutdown, CmdReset, CmdTraceCountry

	TraceOn bool // CmdTrace, CmdTraceCountry

	SortColumn    SortColumn    // CmdSort
	SortDirection SortDirection // CmdSort

	Reply chan Reply
}

// ReplyStatus is the outermost status field of the command-response
// envelope the admin surface renders: {from_server, cmd, status, ...}.
type ReplyStatus string

const (
	ReplyOK      ReplyStatus = "ok"
	ReplyError   ReplyStatus = "error"
	ReplyGoodbye ReplyStatus = "goodbye"
)

// Reply is sent back on a Command's Reply channel exactly once. Record
// is populated for single-country replies, Records for list replies;
// Reason carries a sentinel error's message on ReplyError.
type Reply struct {
	Status ReplyStatus

	Record  *CountryStatus
	Records []*CountryStatus

	// ManagerTrace is populated on CmdStatus: the manager-wide trace
	// flag, reported alongside the per-country snapshot.
	ManagerTrace bool

	Reason string
}

func errorReply(err error) Reply {
	return Reply{Status: ReplyError, Reason: err.Error()}
}
