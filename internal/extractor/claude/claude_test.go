package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/config"
	"seacrew/internal/domain"
	"seacrew/internal/extractor"
	"seacrew/internal/extractor/claude"
	"seacrew/internal/port"
)

func newTestExtractor(serverURL string) *claude.Extractor {
	return claude.New(&config.ExtractorProviderConfig{
		Provider:    "claude",
		APIKey:      "test-api-key",
		BaseURL:     serverURL,
		TimeoutSecs: 5,
	})
}

func TestClaudeExtractor_Image_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		msg := reqBody["messages"].([]interface{})[0].(map[string]interface{})
		content := msg["content"].([]interface{})
		require.Len(t, content, 2)
		assert.Equal(t, "image", content[0].(map[string]interface{})["type"])
		assert.Equal(t, "text", content[1].(map[string]interface{})["type"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{{
				"type": "text",
				"text": `{"document_number":"J2701560","expiry_date":"03 JUL 2027","holder_name":"RAVI KUMAR","mrz":"","confidence":0.9}`,
			}},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	out, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:    []byte{0xff, 0xd8},
		ContentType:  "image/jpeg",
		DocumentType: domain.DocumentTypePassport,
	})

	require.NoError(t, err)
	assert.Equal(t, "J2701560", out.Fields.DocumentNumber)
	assert.Equal(t, "RAVI KUMAR", out.Fields.HolderName)
	assert.Equal(t, 0.9, out.Fields.Confidence)
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
}

func TestClaudeExtractor_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate_limit"}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes: []byte("%PDF"), ContentType: "application/pdf", DocumentType: domain.DocumentTypeCDC,
	})

	var rl *extractor.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "claude", rl.Provider)
	assert.Equal(t, 12.0, rl.RetryAfter.Seconds())
}

func TestClaudeExtractor_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"overloaded"}`},
		{"empty content", http.StatusOK, `{"content":[]}`},
		{"truncated", http.StatusOK, `{"content":[{"type":"text","text":"{"}],"stop_reason":"max_tokens"}`},
		{"not json", http.StatusOK, `{"content":[{"type":"text","text":"sorry"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
				FileBytes: []byte("png"), ContentType: "image/png",
			})

			var ee *extractor.ExtractionError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, "claude", ee.Provider)
		})
	}
}

func TestClaudeExtractor_UnsupportedContentType(t *testing.T) {
	_, err := newTestExtractor("http://127.0.0.1:1").Extract(context.Background(), port.ExtractInput{
		FileBytes: []byte("GIF89a"), ContentType: "image/gif",
	})
	assert.ErrorContains(t, err, "unsupported content type")
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	_, err := claude.Factory(&config.ExtractorProviderConfig{Provider: "claude"})
	assert.Error(t, err)
}
