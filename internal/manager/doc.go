// Package manager implements the Country Manager: the single long-lived
// coordinator that owns the fleet of Country Data Servers.
//
// # Overview
//
// The manager is the only writer of the CountryStatus table. Every other
// component — the admin HTTP surface, the search handlers, the data
// servers themselves — observes or changes fleet state exclusively by
// sending a Command on the manager's inbound channel and waiting for a
// Reply on the channel it supplied. There is no mutex anywhere in this
// package: the table is owned by the single goroutine running Run, and
// every mutation happens inside that goroutine's select loop.
//
// # Architecture
//
//	                 ┌────────────────────────────┐
//	cmd/adminhttp ───▶│   cmdCh    chan Command     │
//	                 │                             │
//	  data server 1 ─▶│ progressCh chan ProgressEvent├──▶ Manager.Run
//	  data server 2 ─▶│ exitCh     chan ExitEvent    │   (single goroutine,
//	        ...       │                             │    owns the table)
//	                 └────────────────────────────┘
//
// Spawning a data server hands it the send side of progressCh and exitCh;
// the manager never talks back to a data server directly except through
// the Handle it stored when spawning (Shutdown, SetTrace) or by
// cancelling its context (reset).
//
// # Concurrency
//
// The command channel is unbuffered: a sender blocks until the manager's
// select loop is ready, which preserves "the manager processes commands
// strictly in arrival order" without needing a queue data structure.
// progressCh and exitCh are buffered to the size of the catalog so a data
// server's progress report is never gated on the manager finishing an
// unrelated admin command.
//
// # Failure scenarios
//
// A data server goroutine can terminate for any of the reasons in
// internal/dataserver/reasons.go; each one is translated into a
// status/substatus pair by applyExit. A crash in one country never blocks the select loop —
// the manager reads the ExitEvent, updates that one record, and keeps
// going. If the manager's own goroutine were to panic, the process exits;
// there is no supervisor above it, matching the source's "the system has
// no meaningful degraded mode without it."
package manager
