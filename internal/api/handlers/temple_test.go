package handlers_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templequest/temple-api/internal/testutil"
)

type TempleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	State       string    `json:"state"`
	Deity       string    `json:"deity"`
	Description string    `json:"description"`
	History     string    `json:"history"`
	Timings     string    `json:"timings"`
	DressCode   string    `json:"dress_code"`
	Festivals   []string  `json:"festivals"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func templeNames(temples []TempleResponse) []string {
	names := make([]string, len(temples))
	for i, t := range temples {
		names[i] = t.Name
	}
	return names
}

func TestTempleHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)

	base := time.Now().UTC().Add(-time.Hour)
	testutil.NewTempleBuilder().WithName("Meenakshi").WithState("Tamil Nadu").WithDeity("Goddess Meenakshi").
		WithCreatedAt(base).Build(t, ts.Repos.Temple)
	testutil.NewTempleBuilder().WithName("Brihadeeswarar").WithState("Tamil Nadu").WithDeity("Lord Shiva").
		WithCreatedAt(base.Add(time.Second)).Build(t, ts.Repos.Temple)
	testutil.NewTempleBuilder().WithName("Kashi Vishwanath").WithState("Uttar Pradesh").WithDeity("Lord Shiva").
		WithCreatedAt(base.Add(2 * time.Second)).Build(t, ts.Repos.Temple)
	testutil.NewTempleBuilder().WithName("Tirupati").WithState("Andhra Pradesh").WithDeity("Lord Venkateswara (Vishnu)").
		WithCreatedAt(base.Add(3 * time.Second)).Build(t, ts.Repos.Temple)

	tests := []struct {
		name     string
		query    url.Values
		expected []string
	}{
		{
			name:     "no filters returns everything in insertion order",
			expected: []string{"Meenakshi", "Brihadeeswarar", "Kashi Vishwanath", "Tirupati"},
		},
		{
			name:     "state is an exact match",
			query:    url.Values{"state": {"Tamil Nadu"}},
			expected: []string{"Meenakshi", "Brihadeeswarar"},
		},
		{
			name:     "state match is case sensitive",
			query:    url.Values{"state": {"tamil nadu"}},
			expected: []string{},
		},
		{
			name:     "deity is a case-insensitive substring",
			query:    url.Values{"deity": {"shiva"}},
			expected: []string{"Brihadeeswarar", "Kashi Vishwanath"},
		},
		{
			name:     "deity inside parentheses",
			query:    url.Values{"deity": {"VISHNU"}},
			expected: []string{"Tirupati"},
		},
		{
			name:     "filters combine",
			query:    url.Values{"state": {"Uttar Pradesh"}, "deity": {"shiva"}},
			expected: []string{"Kashi Vishwanath"},
		},
		{
			name:     "wildcard characters are literal",
			query:    url.Values{"deity": {"%"}},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := ts.APIURL("/temples")
			if len(tt.query) > 0 {
				u += "?" + tt.query.Encode()
			}
			resp := testutil.DoJSON(t, http.MethodGet, u, nil, "")
			defer resp.Body.Close()

			var result []TempleResponse
			testutil.AssertStatusCode(t, resp, http.StatusOK)
			testutil.AssertJSONResponse(t, resp, &result)
			require.NotNil(t, result)
			assert.Equal(t, tt.expected, templeNames(result))
		})
	}
}

func TestTempleHandler_ListEmptyCatalog(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/temples"), nil, "")
	defer resp.Body.Close()

	var result []TempleResponse
	testutil.AssertJSONResponse(t, resp, &result)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestTempleHandler_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)

	temple := testutil.NewTempleBuilder().
		WithName("Golden Temple").
		WithState("Punjab").
		WithDeity("Guru Granth Sahib").
		WithFestivals("Guru Nanak Jayanti", "Vaisakhi").
		Build(t, ts.Repos.Temple)

	t.Run("existing temple", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/temples/"+temple.ID.String()), nil, "")
		defer resp.Body.Close()

		var result TempleResponse
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, temple.ID.String(), result.ID)
		assert.Equal(t, "Golden Temple", result.Name)
		assert.Equal(t, "Punjab", result.State)
		assert.Equal(t, []string{"Guru Nanak Jayanti", "Vaisakhi"}, result.Festivals)
		assert.Equal(t, "Traditional", result.DressCode)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/temples/"+uuid.New().String()), nil, "")
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Temple not found")
	})

	t.Run("id that is not a uuid", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/temples/nonexistent"), nil, "")
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Temple not found")
	})
}

func TestTempleHandler_SeededCatalog(t *testing.T) {
	ts := testutil.NewTestServer(t)

	n, err := ts.Services.Temple.SeedIfEmpty(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/temples?deity=shiva"), nil, "")
	defer resp.Body.Close()

	var result []TempleResponse
	testutil.AssertJSONResponse(t, resp, &result)
	assert.NotEmpty(t, result)
	for _, temple := range result {
		assert.Contains(t, temple.Deity, "Shiva")
		assert.NotEmpty(t, temple.Festivals)
	}
}
