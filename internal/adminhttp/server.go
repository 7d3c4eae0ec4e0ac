package adminhttp

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/kestreldata/geofleet/internal/geonames"
	"github.com/kestreldata/geofleet/internal/manager"
	"github.com/kestreldata/geofleet/internal/search"
)

// CommandTimeout bounds how long a handler waits for the manager's
// reply before giving up. Operators are expected to retry manually on
// failure; there's no admin-surface-level retry policy by design, but
// a handler still needs a bound to avoid hanging forever if the
// manager's loop has exited. Generous enough to never fire in practice.
const CommandTimeout = 10 * time.Second

// Server holds the manager handle every handler sends commands
// through. Stateless otherwise: each request gets its own reply
// channel.
type Server struct {
	mgr  *manager.Manager
	tmpl *template.Template
}

// New builds a Server bound to mgr. Panics if the embedded admin page
// template fails to parse, which would only happen if the template
// source itself were broken — a build-time bug, not a runtime one.
func New(mgr *manager.Manager) *Server {
	return &Server{mgr: mgr, tmpl: template.Must(template.New("server_info").Parse(serverInfoTemplate))}
}

// Routes registers every admin endpoint on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/server_info", s.handleServerInfo)
	mux.HandleFunc("/server_status", s.handleServerStatus)
	mux.HandleFunc("/cmd/start", s.handleCmdStart)
	mux.HandleFunc("/cmd/stop", s.handleCmdStop)
	mux.HandleFunc("/cmd/reset", s.handleCmdReset)
	mux.HandleFunc("/cmd/trace", s.handleCmdTrace)
}

// send delivers cmd on the manager's command channel and blocks for
// its reply, bounded by CommandTimeout and the request's own context.
func (s *Server) send(ctx context.Context, cmd manager.Command) (manager.Reply, error) {
	reply := make(chan manager.Reply, 1)
	cmd.Reply = reply

	select {
	case s.mgr.Commands() <- cmd:
	case <-ctx.Done():
		return manager.Reply{}, ctx.Err()
	}

	select {
	case r := <-reply:
		return r, nil
	case <-ctx.Done():
		return manager.Reply{}, ctx.Err()
	}
}

func (s *Server) handleServerStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), CommandTimeout)
	defer cancel()
	reply, err := s.send(ctx, manager.Command{Kind: manager.CmdStatus})
	if err != nil {
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	resp := statusResponse{
		CountryManagerTrace: reply.ManagerTrace,
		ErlangMemoryUsage:   formatMemUsage(mem.Sys),
		Servers:             toDTOs(reply.Records),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), CommandTimeout)
	defer cancel()
	reply, err := s.send(ctx, manager.Command{Kind: manager.CmdStatus})
	if err != nil {
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = s.tmpl.Execute(w, struct {
		Trace   bool
		Servers []countryStatusDTO
	}{Trace: reply.ManagerTrace, Servers: toDTOs(reply.Records)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search_term")
	if len(term) < search.MinTermLength {
		http.Error(w, "search_term must be at least 3 characters", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), CommandTimeout)
	defer cancel()
	reply, err := s.send(ctx, manager.Command{Kind: manager.CmdStatusStarted})
	if err != nil {
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
		return
	}

	var entries []geonames.CountryIndexEntry
	for _, rec := range reply.Records {
		if rec.Handle != nil {
			entries = append(entries, rec.Handle.Entries()...)
		}
	}

	req := search.Request{
		Term:       term,
		StartsWith: parseBool(r.URL.Query().Get("starts_with")),
		WholeWord:  parseBool(r.URL.Query().Get("whole_word")),
	}
	results := search.Match(entries, req)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

func parseBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
