package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	"github.com/heysubinoy/pyaztext/internal/store"
	"github.com/heysubinoy/pyaztext/internal/usertext"
)

// Server wraps a usertext.Store and exposes HTTP endpoints for it.
// When Raft is set, requests reaching a follower are redirected to the leader.
type Server struct {
	Store    *usertext.Store
	Raft     *raft.Raft
	HTTPPort string
	Logger   hclog.Logger
}

// NewServer creates a new HTTP server with the given store.
func NewServer(store *usertext.Store, raftNode *raft.Raft, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		Store:    store,
		Raft:     raftNode,
		HTTPPort: "8080",
		Logger:   logger.Named("http"),
	}
}

// RegisterRoutes registers all HTTP handlers on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/get", s.leaderOnly(http.MethodGet, s.handleGet))
	mux.HandleFunc("/list", s.leaderOnly(http.MethodGet, s.handleList))
	mux.HandleFunc("/set", s.leaderOnly(http.MethodPost, s.handleSet))
	mux.HandleFunc("/delete", s.leaderOnly(http.MethodPost, s.handleDelete))
	mux.HandleFunc("/section/get", s.leaderOnly(http.MethodPost, s.handleSectionGet))
	mux.HandleFunc("/section/set", s.leaderOnly(http.MethodPost, s.handleSectionSet))
	mux.HandleFunc("/section/delete", s.leaderOnly(http.MethodPost, s.handleSectionDelete))
	mux.HandleFunc("/export", s.leaderOnly(http.MethodGet, s.handleExport))
	mux.HandleFunc("/import", s.leaderOnly(http.MethodPost, s.handleImport))
	mux.HandleFunc("/join", s.leaderOnly(http.MethodPost, s.handleJoin))
}

// leaderOnly enforces the method and redirects followers to the leader.
func (s *Server) leaderOnly(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if s.Raft != nil && s.Raft.State() != raft.Leader {
			leader, _ := s.Raft.LeaderWithID()
			if leader == "" {
				http.Error(w, "Not leader and no leader known", http.StatusServiceUnavailable)
				return
			}
			host, _, err := net.SplitHostPort(string(leader))
			if err != nil {
				host = string(leader)
			}
			w.Header().Set("Location", "http://"+net.JoinHostPort(host, s.HTTPPort)+r.URL.RequestURI())
			http.Error(w, "Not leader. Redirect to leader.", http.StatusTemporaryRedirect)
			return
		}

		next(w, r)
	}
}

// handleGet handles GET /get?key=foo requests.
// Returns the value as plain text; an empty key is allowed but must be present.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	keys, ok := r.URL.Query()["key"]
	if !ok {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	value, found := s.Store.Get(keys[0])
	if !found {
		http.Error(w, "Key not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(value))
}

type listResponse struct {
	Keys     []string `json:"keys"`
	Values   []string `json:"values"`
	Sections []string `json:"sections"`
}

// handleList handles GET /list.
func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	keys, values, sections := s.Store.ListAll()
	writeJSON(w, http.StatusOK, listResponse{Keys: keys, Values: values, Sections: sections})
}

// handleSet handles POST /set requests with JSON body.
// Expects: {"keys": ["a"], "values": ["1"], "fire": true}
func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keys   []string `json:"keys"`
		Values []string `json:"values"`
		Fire   bool     `json:"fire"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.run(w, usertext.SetKeys{Keys: req.Keys, Values: req.Values}, req.Fire)
}

// handleDelete handles POST /delete requests with JSON body.
// Expects: {"keys": ["a"], "fire": true}
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keys []string `json:"keys"`
		Fire bool     `json:"fire"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.run(w, usertext.DeleteKeys{Keys: req.Keys}, req.Fire)
}

type sectionRequest struct {
	Section string   `json:"section"`
	Entries []string `json:"entries"`
	Values  []string `json:"values,omitempty"`
	Fire    bool     `json:"fire"`
}

type sectionResponse struct {
	Mode    string   `json:"mode"`
	Summary string   `json:"summary"`
	Keys    []string `json:"keys"`
	Entries []string `json:"entries"`
	Values  []string `json:"values"`
}

func newSectionResponse(section string, entries []string, rows []usertext.Row) sectionResponse {
	mode := usertext.Classify(section, entries)
	resp := sectionResponse{
		Mode:    mode.String(),
		Summary: mode.Explain(section, entries, len(rows)),
		Keys:    make([]string, 0, len(rows)),
		Entries: make([]string, 0, len(rows)),
		Values:  make([]string, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Keys = append(resp.Keys, row.Key)
		resp.Entries = append(resp.Entries, row.Entry)
		resp.Values = append(resp.Values, row.Value)
	}
	return resp
}

// handleSectionGet handles POST /section/get.
// Expects: {"section": "S", "entries": ["a"]}
func (s *Server) handleSectionGet(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if !decode(w, r, &req) {
		return
	}
	rows := s.Store.GetBySection(req.Section, req.Entries)
	writeJSON(w, http.StatusOK, newSectionResponse(req.Section, req.Entries, rows))
}

// handleSectionSet handles POST /section/set.
func (s *Server) handleSectionSet(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if !decode(w, r, &req) {
		return
	}
	s.run(w, usertext.SetSection{Section: req.Section, Entries: req.Entries, Values: req.Values}, req.Fire)
}

// handleSectionDelete handles POST /section/delete.
func (s *Server) handleSectionDelete(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if !decode(w, r, &req) {
		return
	}
	s.run(w, usertext.DeleteSection{Section: req.Section, Entries: req.Entries}, req.Fire)
}

// handleExport handles GET /export and returns the export text.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Write([]byte(s.Store.Export()))
}

// handleImport handles POST /import requests with JSON body.
// Expects: {"text": "\"k\",\"v\"", "fire": true}
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
		Fire bool   `json:"fire"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.run(w, usertext.ImportText{Text: req.Text}, req.Fire)
}

// handleJoin handles POST /join requests from nodes joining the cluster.
// Expects: {"id": "node2", "addr": "10.0.0.2:7001"}
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	if s.Raft == nil {
		http.Error(w, "Node is not replicated", http.StatusBadRequest)
		return
	}

	var req struct {
		ID   string `json:"id"`
		Addr string `json:"addr"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.ID == "" || req.Addr == "" {
		http.Error(w, "Missing id or addr field", http.StatusBadRequest)
		return
	}

	if err := store.Join(s.Raft, req.ID, req.Addr); err != nil {
		s.Logger.Error("join failed", "node", req.ID, "addr", req.Addr, "error", err)
		http.Error(w, "Failed to join node", httpStatus(err))
		return
	}
	s.Logger.Info("node joined", "node", req.ID, "addr", req.Addr)
	w.WriteHeader(http.StatusNoContent)
}

type resultResponse struct {
	Summary  string   `json:"summary"`
	Affected int      `json:"affected"`
	Failed   []string `json:"failed,omitempty"`
	Fired    bool     `json:"fired"`
}

func (s *Server) run(w http.ResponseWriter, a usertext.Action, fire bool) {
	res, err := usertext.Run(s.Store, a, fire)
	if err != nil {
		s.Logger.Error("action failed", "action", a.Name(), "fire", fire, "error", err)
		http.Error(w, err.Error(), httpStatus(err))
		return
	}
	if res.Fired {
		s.Logger.Debug("action applied", "action", a.Name(), "affected", res.Affected)
	}
	writeJSON(w, http.StatusOK, resultResponse{
		Summary:  res.Summary,
		Affected: res.Affected,
		Failed:   res.Failed,
		Fired:    res.Fired,
	})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, usertext.ErrArityMismatch):
		return http.StatusBadRequest
	case errors.Is(err, raft.ErrNotLeader), errors.Is(err, raft.ErrLeadershipLost):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
