// Package session owns the admin's editable draft of a site document: the
// mutation algebra over the section list, selection tracking, and the
// save/discard lifecycle against a persistence backend.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/goliatone/go-sections/pkg/registry"
	"github.com/goliatone/go-sections/pkg/section"
)

var (
	// ErrNoDraft is returned when mutating before Open/Begin or after Discard.
	ErrNoDraft = errors.New("session: no draft")
	// ErrCommitted is returned for mutations and saves after a successful save.
	ErrCommitted = errors.New("session: draft already committed")
	// ErrBusy is returned for mutations attempted while a save is in flight.
	ErrBusy = errors.New("session: save in progress")
	// ErrSaveInFlight is returned by a second concurrent Save.
	ErrSaveInFlight = errors.New("session: save already in flight")
	// ErrOutOfRange is returned for indexes outside the section list.
	ErrOutOfRange = errors.New("session: index out of range")
	// ErrNotAllowed is returned when adding a type the registry disables.
	ErrNotAllowed = errors.New("session: section type not allowed")
	// ErrIDChanged flags an update that rewrote the section id.
	ErrIDChanged = errors.New("session: update changed section id")
	// ErrTypeChanged flags an update that changed the section type.
	ErrTypeChanged = errors.New("session: update changed section type")
)

// State is the lifecycle position of a session.
type State int

const (
	StateLoading State = iota
	StateEditing
	StateSaving
	StateCommitted
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateCommitted:
		return "committed"
	case StateDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Backend loads and stores the document. Save returns the server's copy.
type Backend interface {
	Load(ctx context.Context) (section.SiteConfig, error)
	Save(ctx context.Context, cfg section.SiteConfig) (section.SiteConfig, error)
}

// Option configures a Session.
type Option func(*Session)

// WithRegistry sets the registry used by Add. Defaults to registry.Default().
func WithRegistry(r *registry.Registry) Option {
	return func(s *Session) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithCanonical sets the shared holder replaced on successful saves.
func WithCanonical(c *Canonical) Option {
	return func(s *Session) {
		s.canonical = c
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

const none = -1

// Session is safe for concurrent use; every mutation runs under one lock
// and is applied in call order.
type Session struct {
	mu sync.Mutex

	backend   Backend
	registry  *registry.Registry
	canonical *Canonical
	logger    *slog.Logger

	state     State
	draft     section.SiteConfig
	saved     section.SiteConfig
	selection int
	lastErr   error
}

// New returns a session in the Loading state.
func New(backend Backend, options ...Option) *Session {
	s := &Session{
		backend:   backend,
		registry:  registry.Default(),
		logger:    slog.Default(),
		state:     StateLoading,
		selection: none,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Open loads the document and starts editing a copy of it. On failure the
// session stays in Loading and Open may be retried.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		return fmt.Errorf("session: open in state %s", s.state)
	}
	s.mu.Unlock()

	cfg, err := s.backend.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.logger.Warn("session: load failed", "error", err)
		return fmt.Errorf("session: load: %w", err)
	}
	s.begin(cfg)
	return nil
}

// Begin starts editing a copy of cfg without calling the backend.
func (s *Session) Begin(cfg section.SiteConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin(cfg)
}

func (s *Session) begin(cfg section.SiteConfig) {
	s.draft = cfg.Clone()
	if s.draft.Sections == nil {
		s.draft.Sections = []section.Section{}
	}
	s.saved = s.draft.Clone()
	s.selection = none
	if len(s.draft.Sections) > 0 {
		s.selection = 0
	}
	s.lastErr = nil
	s.state = StateEditing
	s.logger.Debug("session: editing", "sections", len(s.draft.Sections))
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a copy of the working document.
func (s *Session) Draft() section.SiteConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Section returns a copy of the section at i.
func (s *Session) Section(i int) (section.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.draft.Sections) {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return s.draft.Sections[i].Clone(), nil
}

// Len returns the number of sections in the draft.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.draft.Sections)
}

// Selection returns the selected index; ok is false when nothing is selected.
func (s *Session) Selection() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection, s.selection != none
}

// LastError returns the most recent load or save failure, nil once cleared.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Dirty reports whether the draft differs from the last loaded or saved copy.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateEditing, StateSaving:
		return !section.Equal(s.draft, s.saved)
	default:
		return false
	}
}

func (s *Session) mutable() error {
	switch s.state {
	case StateEditing:
		return nil
	case StateSaving:
		return ErrBusy
	case StateCommitted:
		return ErrCommitted
	default:
		return ErrNoDraft
	}
}

// apply installs next as the section list. If the list grew by exactly one
// the new tail element is selected; otherwise sel is clamped into range.
func (s *Session) apply(next []section.Section, sel int) {
	grew := len(next) == len(s.draft.Sections)+1
	s.draft.Sections = next
	if grew {
		s.selection = len(next) - 1
		return
	}
	s.selection = clamp(sel, len(next))
}

func clamp(sel, n int) int {
	switch {
	case n == 0:
		return none
	case sel < 0:
		return 0
	case sel >= n:
		return n - 1
	default:
		return sel
	}
}

// Select changes the selection. A non-empty draft always has one selected
// section, so only an empty draft accepts -1.
func (s *Session) Select(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	if i == none && len(s.draft.Sections) == 0 {
		return nil
	}
	if i < 0 || i >= len(s.draft.Sections) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	s.selection = i
	return nil
}

// Add appends a default section of type t and selects it.
func (s *Session) Add(t section.Type) (section.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return nil, err
	}
	if !s.registry.Allowed(t) {
		return nil, fmt.Errorf("%w: %q", ErrNotAllowed, t)
	}
	created, err := s.registry.Create(t)
	if err != nil {
		return nil, fmt.Errorf("session: add: %w", err)
	}
	next := append(slices.Clone(s.draft.Sections), created)
	s.apply(next, s.selection)
	s.logger.Debug("session: section added", "id", section.ID(created), "type", t)
	return created.Clone(), nil
}

// Remove deletes the section at i. Links pointing at it are left as they are.
func (s *Session) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.draft.Sections) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}

	sel := s.selection
	switch {
	case sel == none:
	case i < sel:
		sel--
	case i == sel:
		sel = max(0, i-1)
	}
	removed := section.ID(s.draft.Sections[i])
	next := slices.Delete(slices.Clone(s.draft.Sections), i, i+1)
	s.apply(next, sel)
	s.logger.Debug("session: section removed", "id", removed)
	return nil
}

// Move relocates the section at from to index to. Equal or out of range
// indexes are a no-op. The selection keeps pointing at the same section.
func (s *Session) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	n := len(s.draft.Sections)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return nil
	}

	moved := s.draft.Sections[from]
	next := slices.Delete(slices.Clone(s.draft.Sections), from, from+1)
	next = slices.Insert(next, to, moved)

	sel := s.selection
	switch {
	case sel == none:
	case sel == from:
		sel = to
	case from < sel && sel <= to:
		sel--
	case to <= sel && sel < from:
		sel++
	}
	s.apply(next, sel)
	return nil
}

// Update replaces the section at i with next. The id and type must be
// preserved; editors replace whole payloads, never identity.
func (s *Session) Update(i int, next section.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.draft.Sections) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	if next == nil {
		return fmt.Errorf("session: update sections[%d] with nil", i)
	}
	current := s.draft.Sections[i]
	if next.SectionType() != current.SectionType() {
		return fmt.Errorf("%w: %s -> %s", ErrTypeChanged, current.SectionType(), next.SectionType())
	}
	if section.ID(next) != section.ID(current) {
		return fmt.Errorf("%w: %q -> %q", ErrIDChanged, section.ID(current), section.ID(next))
	}

	replacement := next.Clone()
	replacement.Common().Type = replacement.SectionType()
	updated := slices.Clone(s.draft.Sections)
	updated[i] = replacement
	s.apply(updated, s.selection)
	return nil
}

// UpdateByID is Update addressed by section id.
func (s *Session) UpdateByID(next section.Section) error {
	if next == nil {
		return fmt.Errorf("session: update with nil section")
	}
	s.mu.Lock()
	idx := s.draft.Index(section.ID(next))
	s.mu.Unlock()
	if idx < 0 {
		return fmt.Errorf("%w: no section %q", ErrOutOfRange, section.ID(next))
	}
	return s.Update(idx, next)
}

// Save sends the draft to the backend. Only one save runs at a time and the
// draft is frozen while it does. On success the session closes and the
// canonical document becomes the server's response verbatim; on failure the
// draft is kept and LastError reports why.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateSaving:
		s.mu.Unlock()
		return ErrSaveInFlight
	case StateCommitted:
		s.mu.Unlock()
		return ErrCommitted
	case StateEditing:
	default:
		s.mu.Unlock()
		return ErrNoDraft
	}
	s.state = StateSaving
	snapshot := s.draft.Clone()
	s.mu.Unlock()

	s.logger.Debug("session: saving", "sections", len(snapshot.Sections))
	saved, err := s.backend.Save(ctx, snapshot)

	s.mu.Lock()
	if err != nil {
		s.state = StateEditing
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warn("session: save failed", "error", err)
		return fmt.Errorf("session: save: %w", err)
	}
	s.state = StateCommitted
	s.lastErr = nil
	s.saved = snapshot
	canonical := s.canonical
	s.mu.Unlock()

	if canonical != nil {
		version := canonical.Replace(saved)
		s.logger.Info("session: committed", "version", version, "sections", len(saved.Sections))
	}
	return nil
}

// Discard drops the draft. The canonical document is untouched.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		return ErrBusy
	}
	s.draft = section.SiteConfig{}
	s.saved = section.SiteConfig{}
	s.selection = none
	s.state = StateDiscarded
	s.logger.Debug("session: discarded")
	return nil
}
