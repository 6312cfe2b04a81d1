package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sections/pkg/client"
	"github.com/goliatone/go-sections/pkg/registry"
	"github.com/goliatone/go-sections/pkg/section"
)

type fakeBackend struct {
	loadFn func(context.Context) (section.SiteConfig, error)
	saveFn func(context.Context, section.SiteConfig) (section.SiteConfig, error)
	saves  int
}

func (b *fakeBackend) Load(ctx context.Context) (section.SiteConfig, error) {
	if b.loadFn == nil {
		return section.SiteConfig{}, errors.New("no load scripted")
	}
	return b.loadFn(ctx)
}

func (b *fakeBackend) Save(ctx context.Context, cfg section.SiteConfig) (section.SiteConfig, error) {
	b.saves++
	if b.saveFn == nil {
		return cfg, nil
	}
	return b.saveFn(ctx, cfg)
}

func doc(ids ...string) section.SiteConfig {
	cfg := section.SiteConfig{Sections: []section.Section{}}
	for _, id := range ids {
		cfg.Sections = append(cfg.Sections, &section.About{Base: section.Base{ID: id, Type: section.TypeAbout}})
	}
	return cfg
}

func ids(cfg section.SiteConfig) []string {
	out := make([]string, len(cfg.Sections))
	for i, s := range cfg.Sections {
		out[i] = section.ID(s)
	}
	return out
}

func newEditing(t *testing.T, cfg section.SiteConfig, options ...Option) *Session {
	t.Helper()
	s := New(&fakeBackend{}, options...)
	s.Begin(cfg)
	return s
}

func mustSelection(t *testing.T, s *Session, want int) {
	t.Helper()
	got, ok := s.Selection()
	if want < 0 {
		if ok {
			t.Fatalf("expected no selection, got %d", got)
		}
		return
	}
	if !ok || got != want {
		t.Fatalf("expected selection %d, got %d (ok=%v)", want, got, ok)
	}
}

func TestScenarioA_AddSelectsNewSection(t *testing.T) {
	s := newEditing(t, section.SiteConfig{Sections: []section.Section{
		&section.Hero{Base: section.Base{ID: "hero-1", Type: section.TypeHero}},
		&section.About{Base: section.Base{ID: "about-1", Type: section.TypeAbout}},
	}})

	created, err := s.Add(section.TypeCTA)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.SectionType() != section.TypeCTA || created.Common().Type != section.TypeCTA {
		t.Fatalf("unexpected created section: %#v", created)
	}
	draft := s.Draft()
	if len(draft.Sections) != 3 || draft.Sections[2].SectionType() != section.TypeCTA {
		t.Fatalf("unexpected draft: %v", ids(draft))
	}
	mustSelection(t, s, 2)
}

func TestScenarioB_RemoveTracksSelectedSection(t *testing.T) {
	s := newEditing(t, doc("a", "b", "c"))
	if err := s.Select(2); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, ids(s.Draft())); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	mustSelection(t, s, 1)
}

func TestScenarioC_MoveFollowsSelection(t *testing.T) {
	s := newEditing(t, doc("a", "b", "c"))
	mustSelection(t, s, 0)
	if err := s.Move(0, 2); err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, ids(s.Draft())); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	mustSelection(t, s, 2)
}

func TestScenarioD_FailedSaveKeepsDraftThenCommits(t *testing.T) {
	fail := true
	backend := &fakeBackend{
		saveFn: func(_ context.Context, cfg section.SiteConfig) (section.SiteConfig, error) {
			if fail {
				return section.SiteConfig{}, &client.StatusError{Code: 500, Message: "boom"}
			}
			out := cfg.Clone()
			out.Meta.Title = "from server"
			return out, nil
		},
	}
	canonical := NewCanonical(section.SiteConfig{})
	s := New(backend, WithCanonical(canonical))
	s.Begin(doc("a", "b"))
	if err := s.Remove(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	before := s.Draft()

	err := s.Save(context.Background())
	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 500 {
		t.Fatalf("expected wrapped 500, got %v", err)
	}
	if s.LastError() == nil {
		t.Fatalf("expected last error to be set")
	}
	if s.State() != StateEditing {
		t.Fatalf("expected editing after failure, got %s", s.State())
	}
	if !section.Equal(before, s.Draft()) {
		t.Fatalf("draft changed by failed save")
	}
	if canonical.Version() != 0 {
		t.Fatalf("canonical replaced by failed save")
	}

	fail = false
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if s.LastError() != nil {
		t.Fatalf("expected error cleared, got %v", s.LastError())
	}
	if s.State() != StateCommitted {
		t.Fatalf("expected committed, got %s", s.State())
	}
	got, version := canonical.Get()
	if version != 1 || got.Meta.Title != "from server" {
		t.Fatalf("canonical should hold the server response verbatim, got %+v (v%d)", got.Meta, version)
	}
	if s.Dirty() {
		t.Fatalf("expected clean draft after commit")
	}
}

func TestSave_SingleFlightAndFrozenDraft(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		saveFn: func(_ context.Context, cfg section.SiteConfig) (section.SiteConfig, error) {
			close(entered)
			<-release
			return cfg, nil
		},
	}
	s := New(backend)
	s.Begin(doc("a", "b"))

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()
	<-entered

	if err := s.Save(context.Background()); !errors.Is(err, ErrSaveInFlight) {
		t.Fatalf("expected ErrSaveInFlight, got %v", err)
	}
	if err := s.Remove(0); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for mutation during save, got %v", err)
	}
	if _, err := s.Add(section.TypeHero); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for add during save, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("save: %v", err)
	}
	if backend.saves != 1 {
		t.Fatalf("expected one backend save, got %d", backend.saves)
	}
	if s.State() != StateCommitted {
		t.Fatalf("expected committed, got %s", s.State())
	}
}

func TestCommitted_ClosesSession(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend)
	s.Begin(doc("a", "b"))
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := s.Add(section.TypeCTA); !errors.Is(err, ErrCommitted) {
		t.Fatalf("add after commit: expected ErrCommitted, got %v", err)
	}
	if err := s.Remove(0); !errors.Is(err, ErrCommitted) {
		t.Fatalf("remove after commit: expected ErrCommitted, got %v", err)
	}
	if err := s.Move(0, 1); !errors.Is(err, ErrCommitted) {
		t.Fatalf("move after commit: expected ErrCommitted, got %v", err)
	}
	if err := s.Select(1); !errors.Is(err, ErrCommitted) {
		t.Fatalf("select after commit: expected ErrCommitted, got %v", err)
	}
	next := &section.About{Base: section.Base{ID: "a", Type: section.TypeAbout}, Title: "changed"}
	if err := s.Update(0, next); !errors.Is(err, ErrCommitted) {
		t.Fatalf("update after commit: expected ErrCommitted, got %v", err)
	}
	if err := s.Save(context.Background()); !errors.Is(err, ErrCommitted) {
		t.Fatalf("second save: expected ErrCommitted, got %v", err)
	}

	if s.State() != StateCommitted || s.Dirty() || backend.saves != 1 {
		t.Fatalf("unexpected session after commit: %s dirty=%v saves=%d", s.State(), s.Dirty(), backend.saves)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids(s.Draft())); diff != "" {
		t.Fatalf("committed draft changed (-want +got):\n%s", diff)
	}
}

func TestSelect_CannotClearNonEmptyDraft(t *testing.T) {
	s := newEditing(t, doc("a", "b", "c"))
	if err := s.Select(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	mustSelection(t, s, 0)

	if err := s.Remove(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Move(0, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	mustSelection(t, s, 1)

	empty := newEditing(t, doc())
	if err := empty.Select(-1); err != nil {
		t.Fatalf("select none on empty draft: %v", err)
	}
	mustSelection(t, empty, -1)
}

func TestOpen_FailureStaysLoadingAndRetries(t *testing.T) {
	attempts := 0
	backend := &fakeBackend{
		loadFn: func(context.Context) (section.SiteConfig, error) {
			attempts++
			if attempts == 1 {
				return section.SiteConfig{}, errors.New("network down")
			}
			return doc("a"), nil
		},
	}
	s := New(backend)
	if err := s.Open(context.Background()); err == nil {
		t.Fatalf("expected first open to fail")
	}
	if s.State() != StateLoading || s.LastError() == nil {
		t.Fatalf("expected loading with error, got %s / %v", s.State(), s.LastError())
	}
	if err := s.Remove(0); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft before load, got %v", err)
	}
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("retry open: %v", err)
	}
	if s.State() != StateEditing || s.LastError() != nil {
		t.Fatalf("expected editing, got %s / %v", s.State(), s.LastError())
	}
	mustSelection(t, s, 0)
}

func TestOpen_DraftIsIndependentCopy(t *testing.T) {
	loaded := doc("a")
	backend := &fakeBackend{loadFn: func(context.Context) (section.SiteConfig, error) { return loaded, nil }}
	s := New(backend)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	next, _ := s.Section(0)
	next.(*section.About).Title = "changed"
	if err := s.Update(0, next); err != nil {
		t.Fatalf("update: %v", err)
	}
	if loaded.Sections[0].(*section.About).Title != "" {
		t.Fatalf("loaded document mutated through the draft")
	}
	if !s.Dirty() {
		t.Fatalf("expected dirty draft")
	}
}

func TestMove_NoOps(t *testing.T) {
	s := newEditing(t, doc("a", "b", "c"))
	for _, tc := range [][2]int{{1, 1}, {0, 3}, {-1, 0}, {5, 1}} {
		if err := s.Move(tc[0], tc[1]); err != nil {
			t.Fatalf("move %v: %v", tc, err)
		}
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids(s.Draft())); diff != "" {
		t.Fatalf("no-op moves changed order (-want +got):\n%s", diff)
	}
	if s.Dirty() {
		t.Fatalf("no-op moves should leave the draft clean")
	}
}

func TestMove_AdjacentSwapTracksSelection(t *testing.T) {
	s := newEditing(t, doc("a", "b", "c"))
	_ = s.Select(1)
	if err := s.Move(2, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c", "b"}, ids(s.Draft())); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	mustSelection(t, s, 2)
}

func TestRemove_LastSectionClearsSelection(t *testing.T) {
	s := newEditing(t, doc("only"))
	if err := s.Remove(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty draft")
	}
	mustSelection(t, s, -1)
	if err := s.Remove(0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestRemove_SelectedSectionSelectsPrevious(t *testing.T) {
	s := newEditing(t, doc("a", "b", "c"))
	_ = s.Select(0)
	if err := s.Remove(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	mustSelection(t, s, 0)

	_ = s.Select(1)
	if err := s.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	mustSelection(t, s, 0)
}

func TestUpdate_RejectsIdentityChanges(t *testing.T) {
	s := newEditing(t, doc("a"))

	renamed := &section.About{Base: section.Base{ID: "z", Type: section.TypeAbout}}
	if err := s.Update(0, renamed); !errors.Is(err, ErrIDChanged) {
		t.Fatalf("expected ErrIDChanged, got %v", err)
	}
	retyped := &section.Hero{Base: section.Base{ID: "a", Type: section.TypeHero}}
	if err := s.Update(0, retyped); !errors.Is(err, ErrTypeChanged) {
		t.Fatalf("expected ErrTypeChanged, got %v", err)
	}
	ok := &section.About{Base: section.Base{ID: "a"}, Title: "New"}
	if err := s.UpdateByID(ok); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := s.Section(0)
	if got.Common().Type != section.TypeAbout || got.(*section.About).Title != "New" {
		t.Fatalf("unexpected section after update: %#v", got)
	}
}

func TestAdd_DisallowedType(t *testing.T) {
	s := newEditing(t, doc(), WithRegistry(registry.Default().WithAllowed(section.TypeHero)))
	if _, err := s.Add(section.TypeAbout); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	if _, err := s.Add(section.TypeHero); err != nil {
		t.Fatalf("add hero: %v", err)
	}
	mustSelection(t, s, 0)
}

func TestDiscard(t *testing.T) {
	canonical := NewCanonical(doc("a"))
	s := newEditing(t, doc("a"), WithCanonical(canonical))
	_ = s.Remove(0)
	if err := s.Discard(); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if s.State() != StateDiscarded || s.Dirty() {
		t.Fatalf("unexpected state after discard: %s dirty=%v", s.State(), s.Dirty())
	}
	if err := s.Select(0); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft after discard, got %v", err)
	}
	if got, _ := canonical.Get(); len(got.Sections) != 1 {
		t.Fatalf("discard touched the canonical document")
	}
}

func TestCanonical_Subscribe(t *testing.T) {
	c := NewCanonical(doc())
	var seen []uint64
	cancel := c.Subscribe(func(_ section.SiteConfig, v uint64) { seen = append(seen, v) })
	c.Replace(doc("a"))
	cancel()
	c.Replace(doc("b"))
	if diff := cmp.Diff([]uint64{1}, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	got, v := c.Get()
	if v != 2 || ids(got)[0] != "b" {
		t.Fatalf("unexpected canonical state: %v v%d", ids(got), v)
	}
}

// Random add/remove/move/clear sequences keep the selection in range (or none
// exactly when empty) and keep it on the same section across moves and
// removals of other sections.
func TestSelectionInvariantUnderRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	types := registry.Default().AllowedTypes()

	for run := 0; run < 50; run++ {
		s := newEditing(t, doc("a", "b", "c"))
		for step := 0; step < 60; step++ {
			before := s.Draft()
			sel, hasSel := s.Selection()
			var selectedID string
			if hasSel {
				selectedID = section.ID(before.Sections[sel])
			}
			n := len(before.Sections)

			switch op := rng.IntN(4); {
			case op == 0 || n == 0:
				if _, err := s.Add(types[rng.IntN(len(types))]); err != nil {
					t.Fatalf("add: %v", err)
				}
				mustSelection(t, s, n)
				continue
			case op == 3:
				if err := s.Select(-1); !errors.Is(err, ErrOutOfRange) {
					t.Fatalf("select none on %d sections: %v", n, err)
				}
				mustSelection(t, s, sel)
			case op == 1:
				i := rng.IntN(n)
				if err := s.Remove(i); err != nil {
					t.Fatalf("remove: %v", err)
				}
				if hasSel && i != sel {
					assertSelectedID(t, s, selectedID)
				}
			default:
				from, to := rng.IntN(n), rng.IntN(n)
				if err := s.Move(from, to); err != nil {
					t.Fatalf("move: %v", err)
				}
				if hasSel {
					assertSelectedID(t, s, selectedID)
				}
			}

			got, ok := s.Selection()
			length := s.Len()
			if length == 0 && ok {
				t.Fatalf("run %d step %d: selection %d on empty list", run, step, got)
			}
			if length > 0 && (!ok || got < 0 || got >= length) {
				t.Fatalf("run %d step %d: selection %d (ok=%v) out of range for %d", run, step, got, ok, length)
			}
		}
	}
}

func assertSelectedID(t *testing.T, s *Session, want string) {
	t.Helper()
	sel, ok := s.Selection()
	if !ok {
		t.Fatalf("selection lost, wanted %q", want)
	}
	current, err := s.Section(sel)
	if err != nil {
		t.Fatalf("section at selection: %v", err)
	}
	if section.ID(current) != want {
		t.Fatalf("selection moved from %q to %q", want, section.ID(current))
	}
}
