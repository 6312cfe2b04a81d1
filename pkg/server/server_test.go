package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sections/pkg/client"
	"github.com/goliatone/go-sections/pkg/section"
	"github.com/goliatone/go-sections/pkg/session"
	"github.com/goliatone/go-sections/pkg/store"
	"github.com/goliatone/go-sections/pkg/testsupport"
)

func newTestServer(t *testing.T, st store.Store, options ...Option) *httptest.Server {
	t.Helper()
	srv, err := New(context.Background(), st, options...)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_ClientRoundTrip(t *testing.T) {
	st := store.NewMemory()
	ts := newTestServer(t, st)
	c := client.New(ts.URL)
	ctx := context.Background()

	_, err := c.Load(ctx, "acme", client.VariantDraft)
	require.ErrorIs(t, err, client.ErrNotFound)

	saved, err := c.Save(ctx, "acme", client.VariantDraft, testsupport.SampleSite())
	require.NoError(t, err)
	assert.True(t, section.Equal(section.Normalize(testsupport.SampleSite()), saved))

	loaded, err := c.Load(ctx, "acme", client.VariantDraft)
	require.NoError(t, err)
	assert.True(t, section.Equal(saved, loaded))

	_, err = c.Load(ctx, "acme", client.VariantPublished)
	assert.ErrorIs(t, err, client.ErrNotFound)

	direct, err := st.Get(ctx, "acme", "draft")
	require.NoError(t, err)
	assert.True(t, section.Equal(saved, direct))
}

func TestServer_SessionSavesThroughClient(t *testing.T) {
	st := store.NewMemory()
	_, err := st.Put(context.Background(), "acme", "draft", testsupport.SampleSite())
	require.NoError(t, err)
	ts := newTestServer(t, st)

	canonical := session.NewCanonical(section.SiteConfig{})
	sess := session.New(client.New(ts.URL).Site("acme", client.VariantDraft), session.WithCanonical(canonical))
	require.NoError(t, sess.Open(context.Background()))

	added, err := sess.Add(section.TypeCTA)
	require.NoError(t, err)
	require.True(t, sess.Dirty())
	require.NoError(t, sess.Save(context.Background()))
	assert.False(t, sess.Dirty())

	stored, err := st.Get(context.Background(), "acme", "draft")
	require.NoError(t, err)
	require.Len(t, stored.Sections, 5)
	assert.Equal(t, section.ID(added), section.ID(stored.Sections[4]))

	current, _ := canonical.Get()
	assert.True(t, section.Equal(stored, current))
}

func TestServer_RejectsBadRequests(t *testing.T) {
	ts := newTestServer(t, store.NewMemory())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "unknown variant", method: http.MethodGet, path: "/config/acme?variant=staging", status: http.StatusBadRequest},
		{name: "unknown section type", method: http.MethodPut, path: "/config/acme", body: `{"sections":[{"id":"x-1","type":"carousel"}]}`, status: http.StatusBadRequest},
		{name: "missing section id", method: http.MethodPut, path: "/config/acme", body: `{"sections":[{"type":"hero"}]}`, status: http.StatusBadRequest},
		{name: "malformed json", method: http.MethodPut, path: "/config/acme", body: `{"sections":`, status: http.StatusBadRequest},
		{name: "duplicate ids", method: http.MethodPut, path: "/config/acme", body: `{"sections":[{"id":"a","type":"hero"},{"id":"a","type":"cta"}]}`, status: http.StatusUnprocessableEntity},
		{name: "unknown route", method: http.MethodGet, path: "/nope", status: http.StatusNotFound},
		{name: "wrong method", method: http.MethodDelete, path: "/config/acme", status: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
		})
	}
}

func TestServer_BodyLimit(t *testing.T) {
	ts := newTestServer(t, store.NewMemory(), WithRequestValidation(false), WithMaxBodyBytes(16))
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/config/acme", strings.NewReader(`{"meta":{"title":"far too long for the limit"}}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestServer_SaveHook(t *testing.T) {
	var gotSite string
	var gotVariant client.Variant
	var gotLen int
	ts := newTestServer(t, store.NewMemory(), WithSaveHook(func(siteID string, variant client.Variant, cfg section.SiteConfig) {
		gotSite, gotVariant, gotLen = siteID, variant, len(cfg.Sections)
	}))

	_, err := client.New(ts.URL).Save(context.Background(), "acme", client.VariantPublished, testsupport.SampleSite())
	require.NoError(t, err)
	assert.Equal(t, "acme", gotSite)
	assert.Equal(t, client.VariantPublished, gotVariant)
	assert.Equal(t, 4, gotLen)
}

func TestServer_RenderSite(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	ts := newTestServer(t, st)

	resp, err := http.Get(ts.URL + "/sites/acme")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err = st.Put(ctx, "acme", "draft", testsupport.SampleSite())
	require.NoError(t, err)
	body := getBody(t, ts.URL+"/sites/acme")
	assert.Contains(t, body, "Welcome")

	published := testsupport.SampleSite()
	published.Sections[1].(*section.Hero).Title = "Live"
	_, err = st.Put(ctx, "acme", "published", published)
	require.NoError(t, err)
	body = getBody(t, ts.URL+"/sites/acme")
	assert.Contains(t, body, "Live")
	assert.NotContains(t, body, "Welcome")
}

func TestServer_RenderSiteFromCanonical(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	canonical := session.NewCanonical(section.SiteConfig{})
	ts := newTestServer(t, st, WithCanonical("acme", client.VariantDraft, canonical))
	c := client.New(ts.URL)

	saved, err := c.Save(ctx, "acme", client.VariantDraft, testsupport.SampleSite())
	require.NoError(t, err)
	live, version := canonical.Get()
	assert.Equal(t, uint64(1), version)
	assert.True(t, section.Equal(saved, live))

	_, err = c.Save(ctx, "acme", client.VariantPublished, testsupport.SampleSite())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), canonical.Version(), "published save must not replace the draft holder")

	reloaded := testsupport.SampleSite()
	reloaded.Sections[1].(*section.Hero).Title = "Reloaded"
	canonical.Replace(reloaded)
	body := getBody(t, ts.URL+"/sites/acme")
	assert.Contains(t, body, "Reloaded")
	assert.NotContains(t, body, "Welcome")

	other := testsupport.SampleSite()
	other.Sections[1].(*section.Hero).Title = "Other site"
	_, err = st.Put(ctx, "beta", "draft", other)
	require.NoError(t, err)
	assert.Contains(t, getBody(t, ts.URL+"/sites/beta"), "Other site")
}

func TestServer_OpenAPI(t *testing.T) {
	ts := newTestServer(t, store.NewMemory())
	body := getBody(t, ts.URL+"/openapi.json")

	var doc struct {
		OpenAPI    string         `json:"openapi"`
		Paths      map[string]any `json:"paths"`
		Components struct {
			Schemas struct {
				Section struct {
					Properties struct {
						Type struct {
							Enum []string `json:"enum"`
						} `json:"type"`
					} `json:"properties"`
				} `json:"Section"`
			} `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Contains(t, doc.Paths, "/config/{siteId}")
	assert.Contains(t, doc.Paths, "/sites/{siteId}")

	var catalog []string
	for _, typ := range section.Types() {
		catalog = append(catalog, string(typ))
	}
	enum := doc.Components.Schemas.Section.Properties.Type.Enum
	assert.True(t, slices.Equal(catalog, enum), "section enum out of sync with catalog: %v", enum)
}

func getBody(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
