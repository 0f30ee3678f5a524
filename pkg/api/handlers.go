package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cytolab/fcsio/pkg/blob"
	"github.com/cytolab/fcsio/pkg/fcs"
	"github.com/cytolab/fcsio/pkg/frame"
)

// Server holds the API server state
type Server struct {
	store   *blob.Store
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(store *blob.Store, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
	}
}

// filePath maps a URL file name onto the data directory, rejecting anything
// that could escape it.
func (s *Server) filePath(name string) (string, bool) {
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return "", false
	}
	return filepath.Join(s.config.DataDir, name), true
}

// statusForError maps codec failures onto HTTP statuses: caller mistakes
// (unknown channels, bad renames) are 4xx, unreadable files are 422, and
// everything else is a 500.
func statusForError(err error) int {
	var fe *fcs.FormatError
	if !errors.As(err, &fe) {
		if errors.Is(err, os.ErrNotExist) {
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	}
	switch fe.Kind {
	case fcs.UnknownChannel:
		return http.StatusNotFound
	case fcs.InvalidRename, fcs.DuplicateShortName:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleListFiles lists the FCS files in the data directory.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entries, err := os.ReadDir(s.config.DataDir)
	if err != nil {
		s.metrics.RecordFileOperation("list", false, time.Since(start))
		sendError(w, "Failed to read data directory", http.StatusInternalServerError)
		return
	}

	files := []FileInfo{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".fcs") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:     e.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().UTC().Format(time.RFC3339),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	s.metrics.RecordFileOperation("list", true, time.Since(start))
	sendSuccess(w, files)
}

// handleGetFile returns the decoded HEADER+TEXT view of one file.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	path, ok := s.filePath(name)
	if !ok {
		sendError(w, "Invalid file name", http.StatusBadRequest)
		return
	}

	src, err := s.store.Open(path)
	if err != nil {
		s.metrics.RecordFileOperation("inspect", false, time.Since(start))
		sendError(w, "File not found", http.StatusNotFound)
		return
	}
	defer src.Close()

	f, err := fcs.Open(src)
	if err != nil {
		s.metrics.RecordFileOperation("inspect", false, time.Since(start))
		sendError(w, err.Error(), statusForError(err))
		return
	}

	detail := FileDetail{
		Name:     name,
		Version:  fcs.Version,
		Events:   f.Events,
		Datatype: f.Layout.Type.String(),
		Keywords: map[string]string{},
	}
	for _, p := range f.Layout.Params {
		detail.Channels = append(detail.Channels, ChannelInfo{
			Short: p.Short,
			Long:  p.Long,
			Bits:  p.Bits,
			Range: p.Range,
		})
	}
	for _, k := range f.Text.Keys() {
		detail.Keywords[k] = f.Text.Get(k)
	}

	s.metrics.RecordFileOperation("inspect", true, time.Since(start))
	sendSuccess(w, detail)
}

// handleGetChannels returns the file's channel names without touching data.
func (s *Server) handleGetChannels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	path, ok := s.filePath(name)
	if !ok {
		sendError(w, "Invalid file name", http.StatusBadRequest)
		return
	}

	scope := fcs.ScopeShort
	if sc := r.URL.Query().Get("scope"); sc != "" {
		var err error
		if scope, err = fcs.ParseScope(sc); err != nil {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	names, err := frame.ReadChannels(s.store, path, scope)
	if err != nil {
		s.metrics.RecordFileOperation("channels", false, time.Since(start))
		sendError(w, err.Error(), statusForError(err))
		return
	}

	s.metrics.RecordFileOperation("channels", true, time.Since(start))
	sendSuccess(w, names)
}

// handleGetEvents decodes the data segment, optionally truncated by ?limit=.
func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	path, ok := s.filePath(name)
	if !ok {
		sendError(w, "Invalid file name", http.StatusBadRequest)
		return
	}

	limit := -1
	if ls := r.URL.Query().Get("limit"); ls != "" {
		n, err := strconv.Atoi(ls)
		if err != nil || n < 0 {
			sendError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	f, err := frame.Read(s.store, path)
	if err != nil {
		s.metrics.RecordFileOperation("events", false, time.Since(start))
		sendError(w, err.Error(), statusForError(err))
		return
	}

	rows := f.Table().Rows
	if limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	resp := EventsResponse{
		Channels: f.Names(fcs.ScopeShort),
		Events:   f.Events(),
		Rows:     rows,
	}

	s.metrics.RecordFileOperation("events", true, time.Since(start))
	s.metrics.RecordEventsDecoded(len(rows))
	sendSuccess(w, resp)
}

// handleRename applies a simultaneous channel rename to the file in place.
func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	path, ok := s.filePath(name)
	if !ok {
		sendError(w, "Invalid file name", http.StatusBadRequest)
		return
	}

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.Renames) == 0 {
		sendError(w, "renames must not be empty", http.StatusBadRequest)
		return
	}

	scope := fcs.ScopeShort
	if req.Scope != "" {
		var err error
		if scope, err = fcs.ParseScope(req.Scope); err != nil {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := frame.RenameChannels(s.store, path, req.Renames, scope); err != nil {
		s.metrics.RecordFileOperation("rename", false, time.Since(start))
		sendError(w, err.Error(), statusForError(err))
		return
	}

	s.metrics.RecordFileOperation("rename", true, time.Since(start))
	sendSuccess(w, map[string]string{"status": "renamed"})
}
