// Package dataserver implements the Country Data Server: the per-country
// worker that downloads, unpacks, filters, joins, and caches one
// country's populated-place index, then serves it until shut down.
//
// # Overview
//
// Each Server is spawned by the Country Manager as a goroutine — not a
// separate process — and runs its entire 8-stage startup pipeline to
// completion or failure before transitioning to running. Every stage
// reports its progress to the manager over a
// shared channel; the Server itself holds no state the manager can
// read directly, only the completion channel and a small control
// channel the manager uses to request trace toggling or shutdown.
//
// # Architecture
//
//	Manager.startLocked
//	    │  spawn (NewSpawner): go srv.Run(progress, exit)
//	    ▼
//	 Server.Run  ── init
//	             │  checking_for_update (cache hit?) ──────┐
//	             ▼                                         │
//	         country_file_download (retry/backoff)         │
//	             ▼                                         │
//	         country_zip_file (unzip)                      │
//	             ▼                                         │
//	         country_file (parse + filter)                 │
//	             ▼                                         │
//	         build FCP set (join + write cache)  ◀──────────┘
//	             ▼
//	         no_cities check
//	             ▼
//	         running ── serves until control.shutdown
//
// # Concurrency
//
// Run blocks on network I/O (download), file I/O (unzip/parse/write),
// sends on the progress and exit channels, and, once running, its
// control channel. Trace toggles sent during startup wait in the
// control channel's buffer (four deep; further toggles are dropped)
// until the server is running. It never touches the manager's
// CountryStatus table directly; every observation crosses as a
// ProgressEvent or the single terminal ExitEvent.
package dataserver
