package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><script>var ytInitialData = {"contents":[
{"videoRenderer":{"videoId":"video-1","thumbnail":{"thumbnails":[{"url":"small-1"},{"url":"large-1"}]},"title":{"runs":[{"text":"Evidências "},{"text":"Karaokê"}]},"ownerText":{"runs":[{"text":"Canal Karaokê"}]},"lengthText":{"simpleText":"4:32"}}},
{"videoRenderer":{"videoId":"video-1","title":{"runs":[{"text":"duplicate"}]}}},
{"videoRenderer":{"videoId":"video-2","thumbnail":{"thumbnails":[{"url":"large-2"}]},"title":{"runs":[{"text":"Título com \"aspas\" {e chaves}"}]},"ownerText":{"runs":[{"text":"Outro Canal"}]},"lengthText":{"simpleText":"3:10"}}},
{"videoRenderer":{"title":{"runs":[{"text":"no video id"}]}}},
{"videoRenderer":{"videoId":"video-3","title":{"runs":[{"text":"Terceiro"}]}}}
]};</script></html>`

func TestExtractRenderers(t *testing.T) {
	results := extractRenderers(samplePage, 10)

	// Duplicates and id-less renderers are dropped.
	require.Len(t, results, 3)

	assert.Equal(t, "video-1", results[0].VideoID)
	assert.Equal(t, "Evidências Karaokê", results[0].Title)
	assert.Equal(t, "Canal Karaokê", results[0].Author)
	assert.Equal(t, "large-1", results[0].Thumbnail, "largest thumbnail variant wins")
	assert.Equal(t, "4:32", results[0].Duration)

	assert.Equal(t, "video-2", results[1].VideoID)
	assert.Equal(t, `Título com "aspas" {e chaves}`, results[1].Title)

	assert.Equal(t, "video-3", results[2].VideoID)
}

func TestExtractRenderers_Limit(t *testing.T) {
	results := extractRenderers(samplePage, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "video-1", results[0].VideoID)
	assert.Equal(t, "video-2", results[1].VideoID)
}

func TestExtractRenderers_NoMatches(t *testing.T) {
	assert.Empty(t, extractRenderers("<html>nothing here</html>", 10))
}

func TestSliceJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		start    int
		expected string
	}{
		{
			name:     "flat object",
			input:    `{"a":1}tail`,
			start:    0,
			expected: `{"a":1}`,
		},
		{
			name:     "nested object",
			input:    `{"a":{"b":{"c":1}}}`,
			start:    0,
			expected: `{"a":{"b":{"c":1}}}`,
		},
		{
			name:     "braces inside strings",
			input:    `{"a":"}{","b":"\"}"}rest`,
			start:    0,
			expected: `{"a":"}{","b":"\"}"}`,
		},
		{
			name:     "not an object",
			input:    `[1,2,3]`,
			start:    0,
			expected: "",
		},
		{
			name:     "unbalanced",
			input:    `{"a":1`,
			start:    0,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, _ := sliceJSONObject(tt.input, tt.start)
			assert.Equal(t, tt.expected, raw)
		})
	}
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/results", r.URL.Path)
		assert.Equal(t, "evidências karaoke", r.URL.Query().Get("search_query"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		fmt.Fprint(w, samplePage)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, UserAgent: "test-agent"})
	assert.Equal(t, "scraping", client.Name())

	results, err := client.Search(context.Background(), "evidências karaoke", 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearch_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	_, err := client.Search(context.Background(), "query", 10)
	assert.Error(t, err)
}

func TestSearch_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	_, err := client.Search(context.Background(), "query", 10)
	assert.Error(t, err)
}
