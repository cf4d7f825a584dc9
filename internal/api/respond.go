package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/session"
	"github.com/go-chi/chi/v5"
)

const maxJSONBody = 1 << 20

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a size-limited JSON body into v, rejecting unknown
// fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// withSession runs fn under the session lock of the {sessionID} in the URL.
// Errors returned by fn are sent as 400 responses.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request,
	fn func(doc *doctree.Document, styles map[string]*doctree.StyleRef) error,
) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if errors.Is(err, session.ErrNotFound) {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if err := sess.Do(fn); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return sess, false
	}
	return sess, true
}

// predecessor resolves an optional block index. A nil index means no
// predecessor.
func predecessor(doc *doctree.Document, after *int) (doctree.Block, error) {
	if after == nil {
		return nil, nil
	}
	if *after < 0 || *after >= doc.Len() {
		return nil, fmt.Errorf("after: block %d out of range [0,%d)", *after, doc.Len())
	}
	return doc.Block(*after), nil
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
