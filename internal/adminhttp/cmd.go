package adminhttp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kestreldata/geofleet/internal/manager"
)

// envelope is the command-response shape every /cmd/* endpoint
// renders: {from_server, cmd, status, payload|reason}.
type envelope struct {
	FromServer string `json:"from_server"`
	Cmd        string `json:"cmd"`
	Status     string `json:"status"`
	Payload    any    `json:"payload,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func fromServer(code string) string {
	if code == "" {
		return "country_manager"
	}
	return manager.ServerName(code)
}

func (s *Server) writeEnvelope(w http.ResponseWriter, cmdName, code string, reply manager.Reply) {
	env := envelope{FromServer: fromServer(code), Cmd: cmdName, Status: string(reply.Status)}
	switch {
	case reply.Status == manager.ReplyError:
		env.Reason = reply.Reason
	case reply.Record != nil:
		env.Payload = toDTO(reply.Record)
	case reply.Records != nil:
		env.Payload = toDTOs(reply.Records)
	}

	w.Header().Set("Content-Type", "application/json")
	if reply.Status == manager.ReplyError {
		w.WriteHeader(http.StatusBadRequest)
	}
	_ = json.NewEncoder(w).Encode(env)
}

func (s *Server) handleCmdStart(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), CommandTimeout)
	defer cancel()
	reply, err := s.send(ctx, manager.Command{Kind: manager.CmdStart, Code: code})
	if err != nil {
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
		return
	}
	s.writeEnvelope(w, "start", code, reply)
}

func (s *Server) handleCmdStop(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), CommandTimeout)
	defer cancel()
	reply, err := s.send(ctx, manager.Command{Kind: manager.CmdShutdown, Code: code})
	if err != nil {
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
		return
	}
	s.writeEnvelope(w, "stop", code, reply)
}

func (s *Server) handleCmdReset(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), CommandTimeout)
	defer cancel()
	reply, err := s.send(ctx, manager.Command{Kind: manager.CmdReset, Code: code})
	if err != nil {
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
		return
	}
	s.writeEnvelope(w, "reset", code, reply)
}

// handleCmdTrace toggles trace, either manager-wide (no code) or for a
// single country server (code given). value=on|off, defaulting to off
// for any other spelling.
func (s *Server) handleCmdTrace(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	on := r.URL.Query().Get("value") == "on"

	ctx, cancel := context.WithTimeout(r.Context(), CommandTimeout)
	defer cancel()

	var (
		reply manager.Reply
		err   error
	)
	if code == "" {
		reply, err = s.send(ctx, manager.Command{Kind: manager.CmdTrace, TraceOn: on})
	} else {
		reply, err = s.send(ctx, manager.Command{Kind: manager.CmdTraceCountry, Code: code, TraceOn: on})
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
		return
	}
	s.writeEnvelope(w, "trace", code, reply)
}
