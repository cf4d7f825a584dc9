// Package session keeps the documents being edited, one per session. The
// core model is single-threaded, so every access to a session's document
// goes through the session lock.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/docedit/internal/doctree"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Session owns one document.
type Session struct {
	mu sync.Mutex

	ID          string
	Title       string
	Filename    string
	ContentHash string
	CreatedAt   time.Time
	updatedAt   time.Time

	doc    *doctree.Document
	styles map[string]*doctree.StyleRef
	now    func() time.Time
}

// Do runs fn with exclusive access to the document and the named shared
// styles, then marks the session as used.
func (s *Session) Do(fn func(doc *doctree.Document, styles map[string]*doctree.StyleRef) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.doc, s.styles)
	s.updatedAt = s.now()
	return err
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID          string    `json:"session_id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash,omitempty"`
	Blocks      int       `json:"blocks"`
	Styles      []string  `json:"styles"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	styles := make([]string, 0, len(s.styles))
	for name := range s.styles {
		styles = append(styles, name)
	}
	slices.Sort(styles)
	return Snapshot{
		ID:          s.ID,
		Title:       s.Title,
		Filename:    s.Filename,
		ContentHash: s.ContentHash,
		Blocks:      s.doc.Len(),
		Styles:      styles,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.updatedAt,
	}
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewStore(ttl time.Duration, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// NewSession describes a document to register.
type NewSession struct {
	Title       string
	Filename    string
	ContentHash string
	Document    *doctree.Document
	Styles      map[string]*doctree.StyleRef
}

// Create registers a document under a fresh session ID.
func (st *Store) Create(ns NewSession) *Session {
	now := st.now()
	doc := ns.Document
	if doc == nil {
		doc = doctree.NewDocument()
	}
	styles := ns.Styles
	if styles == nil {
		styles = make(map[string]*doctree.StyleRef)
	}
	s := &Session{
		ID:          newID(now),
		Title:       ns.Title,
		Filename:    ns.Filename,
		ContentHash: ns.ContentHash,
		CreatedAt:   now,
		updatedAt:   now,
		doc:         doc,
		styles:      styles,
		now:         st.now,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	st.log.Info("session created", "session_id", s.ID, "title", s.Title, "blocks", doc.Len())
	return s
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// List returns snapshots of all sessions, oldest first.
func (st *Store) List() []Snapshot {
	st.mu.Lock()
	all := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		all = append(all, s)
	}
	st.mu.Unlock()

	out := make([]Snapshot, 0, len(all))
	for _, s := range all {
		out = append(out, s.Snapshot())
	}
	slices.SortFunc(out, func(a, b Snapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// Cleanup removes sessions idle for longer than the TTL and reports how
// many were removed. Idle times are read outside the store lock, so a long
// Do on one session never blocks lookups of the others.
func (st *Store) Cleanup() int {
	now := st.now()
	st.mu.Lock()
	all := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		all = append(all, s)
	}
	st.mu.Unlock()

	var expired []*Session
	for _, s := range all {
		if now.Sub(s.lastUsed()) > st.ttl {
			expired = append(expired, s)
		}
	}

	removed := 0
	st.mu.Lock()
	for _, s := range expired {
		if st.sessions[s.ID] == s {
			delete(st.sessions, s.ID)
			removed++
		}
	}
	st.mu.Unlock()
	if removed > 0 {
		st.log.Info("expired sessions removed", "count", removed)
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Cleanup()
		}
	}
}
