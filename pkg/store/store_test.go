package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sections/pkg/section"
)

func TestMemory_PutNormalisesAndIsolates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "acme", "draft")
	require.ErrorIs(t, err, ErrNotFound)

	hero := &section.Hero{Base: section.Base{ID: " hero-1 "}, Title: "Hi"}
	saved, err := m.Put(ctx, "acme", "draft", section.SiteConfig{Sections: []section.Section{hero}})
	require.NoError(t, err)
	require.Len(t, saved.Sections, 1)
	assert.Equal(t, section.TypeHero, saved.Sections[0].Common().Type)
	assert.Equal(t, "hero-1", section.ID(saved.Sections[0]))

	hero.Title = "mutated after put"
	got, err := m.Get(ctx, "acme", "draft")
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Sections[0].(*section.Hero).Title)
	assert.True(t, section.Equal(saved, got))

	_, err = m.Get(ctx, "acme", "published")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Put(ctx, "beta", "published", section.SiteConfig{})
	require.NoError(t, err)
	sites, err := m.Sites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "beta"}, sites)
}

func TestValidSiteID(t *testing.T) {
	for id, want := range map[string]bool{
		"acme":      true,
		"acme-2024": true,
		"":          false,
		" acme":     false,
		"..":        false,
		"a/b":       false,
		"a?b":       false,
	} {
		assert.Equal(t, want, ValidSiteID(id), id)
	}
}
