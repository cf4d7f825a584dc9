package api

import (
	"fmt"
	"net/http"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/query"
)

type searchRequest struct {
	Text   string            `json:"text"`
	Mode   string            `json:"mode,omitempty"` // contains (default), fold, regexp, equals
	Style  *query.StyleQuery `json:"style,omitempty"`
	Script string            `json:"script,omitempty"`
}

func (req searchRequest) textPredicate() (query.TextPredicate, error) {
	switch req.Mode {
	case "", "contains":
		if req.Text == "" {
			return query.AnyText, nil
		}
		return query.Contains(req.Text), nil
	case "fold":
		return query.FoldContains(req.Text), nil
	case "equals":
		return query.Equals(req.Text), nil
	case "regexp":
		return query.Regexp(req.Text)
	default:
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}
}

func (s *Server) stylePredicate(req searchRequest) (query.StylePredicate, error) {
	var preds []query.StylePredicate
	if req.Style != nil {
		if p := req.Style.Predicate(); p != nil {
			preds = append(preds, p)
		}
	}
	if req.Script != "" {
		p, err := query.ScriptWithTimeout(req.Script, s.cfg.ScriptTimeout)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if len(preds) == 0 {
		return nil, nil
	}
	return query.All(preds...), nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text, err := req.textPredicate()
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	style, err := s.stylePredicate(req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var matches []query.Match
	if _, ok := s.withSession(w, r, func(doc *doctree.Document, _ map[string]*doctree.StyleRef) error {
		matches = query.FindMatches(doc, text, style)
		return nil
	}); !ok {
		return
	}
	if matches == nil {
		matches = []query.Match{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches, "count": len(matches)})
}

func (s *Server) handleSpelling(w http.ResponseWriter, r *http.Request) {
	if s.spell == nil {
		jsonError(w, "spell checking is not configured", http.StatusServiceUnavailable)
		return
	}
	sc := s.spell(r.Context())

	var found []query.Misspelling
	if _, ok := s.withSession(w, r, func(doc *doctree.Document, _ map[string]*doctree.StyleRef) error {
		found = query.CheckSpelling(doc, sc)
		return nil
	}); !ok {
		return
	}
	if found == nil {
		found = []query.Misspelling{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"misspellings": found, "count": len(found)})
}

type lineWidthRequest struct {
	Minimum *int `json:"minimum,omitempty"`
}

func (s *Server) handleLineWidth(w http.ResponseWriter, r *http.Request) {
	var req lineWidthRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	minimum := s.cfg.MinLineWidth
	if req.Minimum != nil {
		minimum = *req.Minimum
	}
	if minimum < 0 {
		jsonError(w, "minimum must not be negative", http.StatusBadRequest)
		return
	}

	var raised int
	if _, ok := s.withSession(w, r, func(doc *doctree.Document, _ map[string]*doctree.StyleRef) error {
		raised = query.RaiseLineWidth(doc, minimum)
		return nil
	}); !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"minimum": minimum, "raised": raised})
}
