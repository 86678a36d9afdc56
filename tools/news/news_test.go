package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articlesBody(n, total int) string {
	articles := make([]map[string]any, n)
	for i := range articles {
		articles[i] = map[string]any{
			"title":       fmt.Sprintf("headline %d", i),
			"description": fmt.Sprintf("summary %d", i),
			"url":         fmt.Sprintf("https://example.com/%d", i),
			"source":      map[string]any{"name": "Example Times"},
			"publishedAt": "2025-06-01T10:00:00Z",
		}
	}
	body, _ := json.Marshal(map[string]any{"totalResults": total, "articles": articles})
	return string(body)
}

func TestCallTruncatesToFive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		_, _ = w.Write([]byte(articlesBody(8, 120)))
	}))
	defer srv.Close()

	nt := New(Config{APIKey: "key", BaseURL: srv.URL})
	result, err := nt.Call(context.Background(), map[string]any{"query": "ai"})
	require.NoError(t, err)

	search, ok := result.(SearchResult)
	require.True(t, ok)
	assert.Equal(t, "ai", search.Query)
	assert.Equal(t, 120, search.TotalResults)
	require.Len(t, search.Articles, 5)
	assert.Equal(t, "headline 0", search.Articles[0].Title)
	assert.Equal(t, "Example Times", search.Articles[0].Source)
}

func TestCallLanguageByCountry(t *testing.T) {
	var gotLanguage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLanguage = r.URL.Query().Get("language")
		_, _ = w.Write([]byte(articlesBody(1, 1)))
	}))
	defer srv.Close()

	nt := New(Config{BaseURL: srv.URL})

	_, err := nt.Call(context.Background(), map[string]any{"query": "ai", "country": "cn"})
	require.NoError(t, err)
	assert.Equal(t, "zh", gotLanguage)

	_, err = nt.Call(context.Background(), map[string]any{"query": "ai", "country": "us"})
	require.NoError(t, err)
	assert.Equal(t, "en", gotLanguage)
}

func TestCallProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"apiKey invalid"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	nt := New(Config{BaseURL: srv.URL})
	_, err := nt.Call(context.Background(), map[string]any{"query": "ai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCallMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	nt := New(Config{BaseURL: srv.URL})
	_, err := nt.Call(context.Background(), map[string]any{"query": "ai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestCallEmptyQuery(t *testing.T) {
	nt := New(Config{})
	_, err := nt.Call(context.Background(), map[string]any{"query": ""})
	assert.Error(t, err)
}
