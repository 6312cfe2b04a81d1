package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sections/pkg/section"
	"github.com/goliatone/go-sections/pkg/store"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sections.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close()) })
	return s
}

func testDoc(title string) section.SiteConfig {
	return section.SiteConfig{
		Theme: section.Theme{Name: "base"},
		Meta:  section.Meta{Title: title},
		Sections: []section.Section{
			&section.Hero{Base: section.Base{ID: "hero-1"}, Title: title},
			&section.Gallery{Base: section.Base{ID: "gallery-1", Type: section.TypeGallery}, Columns: 2},
		},
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.Get(context.Background(), "acme", "draft")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	saved, err := s.Put(ctx, "acme", "draft", testDoc("Welcome"))
	require.NoError(t, err)
	require.Len(t, saved.Sections, 2)
	assert.Equal(t, section.TypeHero, saved.Sections[0].Common().Type)

	gallery, ok := saved.Sections[1].(*section.Gallery)
	require.True(t, ok)
	assert.NotNil(t, gallery.Images, "lists are normalised to empty")

	got, err := s.Get(ctx, "acme", "draft")
	require.NoError(t, err)
	assert.True(t, section.Equal(saved, got))
}

func TestStore_RevisionsAndSites(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	_, err := s.Put(ctx, "acme", "draft", testDoc("v1"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "acme", "draft", testDoc("v2"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "beta", "published", testDoc("other"))
	require.NoError(t, err)

	history, err := s.History(ctx, "acme", "draft")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Revision)
	assert.Equal(t, 2, history[0].Sections)

	first, err := s.Revision(ctx, "acme", "draft", 1)
	require.NoError(t, err)
	assert.Equal(t, "v1", first.Meta.Title)

	_, err = s.Revision(ctx, "acme", "draft", 9)
	assert.ErrorIs(t, err, store.ErrNotFound)

	sites, err := s.Sites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "beta"}, sites)
}

func TestStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sections.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Put(context.Background(), "acme", "draft", testDoc("kept"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(context.Background(), "acme", "draft")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Meta.Title)
}
