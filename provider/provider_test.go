package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minios-linux/potrans/translate"
)

var french = translate.Target{Locale: "fr_FR", Name: "French (France)"}

func testProvider(t *testing.T, id, baseURL string) Provider {
	t.Helper()
	p, ok := Lookup(id)
	require.True(t, ok)
	p.BaseURL = baseURL
	p.APIKey = "test-key"
	return p
}

func fastOptions() Options {
	return Options{MaxRetries: 2, BackoffBase: time.Millisecond}
}

func TestClientOpenAICompatible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[0].Content, "French (France)")
		assert.NotContains(t, req.Messages[0].Content, "{{targetLang}}")
		assert.Contains(t, req.Messages[1].Content, `1. "Hello"`)

		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"[\"Bonjour\",\"Monde\"]"}}]}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), testProvider(t, ProviderGroq, srv.URL), fastOptions())
	require.NoError(t, err)

	out, err := c.Translate(context.Background(), []string{"Hello", "World"}, french)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bonjour", "Monde"}, out)
}

func TestClientGemini(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"[\"Bon"},{"text":"jour\"]"}]}}]}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), testProvider(t, ProviderGoogle, srv.URL), fastOptions())
	require.NoError(t, err)

	out, err := c.Translate(context.Background(), []string{"Hello"}, french)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bonjour"}, out)
}

func TestClientAnthropic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"[\"Bonjour\"]"}]}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), testProvider(t, ProviderAnthropic, srv.URL), fastOptions())
	require.NoError(t, err)

	out, err := c.Translate(context.Background(), []string{"Hello"}, french)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bonjour"}, out)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"[\"Bonjour\"]"}}]}`)
	}))
	defer srv.Close()

	prov := testProvider(t, ProviderCustomOpenAI, srv.URL)
	prov.Model = "local-model"
	c, err := New(context.Background(), prov, Options{MaxRetries: 2, BackoffBase: time.Millisecond, Timeout: 5 * time.Second})
	require.NoError(t, err)

	out, err := c.Translate(context.Background(), []string{"Hello"}, french)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bonjour"}, out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientRateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"[\"Bonjour\"]"}}]}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), testProvider(t, ProviderGroq, srv.URL), fastOptions())
	require.NoError(t, err)

	_, err = c.Translate(context.Background(), []string{"Hello"}, french)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientRetriesTruncatedBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Content-Length", "200")
			_, _ = io.WriteString(w, `{"choices":`)
			return
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"[\"Bonjour\"]"}}]}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), testProvider(t, ProviderGroq, srv.URL), fastOptions())
	require.NoError(t, err)

	out, err := c.Translate(context.Background(), []string{"Hello"}, french)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bonjour"}, out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key"}}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), testProvider(t, ProviderGroq, srv.URL), fastOptions())
	require.NoError(t, err)

	_, err = c.Translate(context.Background(), []string{"Hello"}, french)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientAPIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":{"message":"model overloaded"}}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), testProvider(t, ProviderOllama, srv.URL), fastOptions())
	require.NoError(t, err)

	_, err = c.Translate(context.Background(), []string{"Hello"}, french)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestClientEmptyBatch(t *testing.T) {
	c, err := New(context.Background(), testProvider(t, ProviderOllama, "http://127.0.0.1:1"), fastOptions())
	require.NoError(t, err)
	out, err := c.Translate(context.Background(), nil, french)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestValidate(t *testing.T) {
	p, _ := Lookup(ProviderGroq)
	assert.ErrorContains(t, p.Validate(), "API key")

	p, _ = Lookup(ProviderOllama)
	assert.NoError(t, p.Validate())

	p, _ = Lookup(ProviderCustomOpenAI)
	assert.ErrorContains(t, p.Validate(), "base URL")

	assert.ErrorContains(t, Provider{ID: "nope"}.Validate(), "unknown provider")
}

func TestParseTranslations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{"plain", `["a","b"]`, []string{"a", "b"}, false},
		{"fenced", "```json\n[\"a\"]\n```", []string{"a"}, false},
		{"surrounding text", "Here you go:\n[\"a\"]\nDone.", []string{"a"}, false},
		{"invalid escape", `["50\% off"]`, []string{`50\% off`}, false},
		{"valid escapes kept", `["say \"hi\"\n"]`, []string{"say \"hi\"\n"}, false},
		{"empty array", `[]`, nil, true},
		{"not json", `nope`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTranslations(tt.content, 1)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRetryDelay(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, 65*time.Second, parseRetryDelay(h, []byte(`not json`)))

	body := []byte(`{"error":{"details":[{"@type":"type.googleapis.com/google.rpc.RetryInfo","retryDelay":"30s"}]}}`)
	assert.Equal(t, 35*time.Second, parseRetryDelay(h, body))

	h.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, parseRetryDelay(h, body))
}

func TestBuildUserPrompt(t *testing.T) {
	got := BuildUserPrompt([]string{"Hello", "Line\nbreak"})
	assert.Equal(t, "Translate these entries:\n\n1. \"Hello\"\n2. \"Line\\nbreak\"\n\nReturn a JSON array with exactly 2 translated strings.", got)
}

func TestBuildUserPromptEscapesQuotes(t *testing.T) {
	got := BuildUserPrompt([]string{`Say "hi"`, `C:\tmp`})
	assert.Contains(t, got, `1. "Say \"hi\""`+"\n")
	assert.Contains(t, got, `2. "C:\\tmp"`+"\n")
}

func TestResolvePrompt(t *testing.T) {
	assert.Equal(t, "Into German.", ResolvePrompt("Into {{targetLang}}.", "German"))
	assert.Contains(t, ResolvePrompt("", "German"), "FLUENCY in German")
}

type fakeGenerator struct {
	replies []*schema.Message
	errs    []error
	calls   int
	got     []*schema.Message
}

func (f *fakeGenerator) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	i := f.calls
	f.calls++
	f.got = input
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.replies[i], nil
}

func TestChatCompleterRetries(t *testing.T) {
	g := &fakeGenerator{
		errs:    []error{errors.New("connection reset"), nil},
		replies: []*schema.Message{nil, schema.AssistantMessage(`["Bonjour"]`, nil)},
	}
	prov, _ := Lookup(ProviderOpenAI)
	complete := chatCompleter(g, prov, fastOptions())

	text, err := complete(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, `["Bonjour"]`, text)
	assert.Equal(t, 2, g.calls)
	require.Len(t, g.got, 2)
	assert.Equal(t, schema.System, g.got[0].Role)
	assert.Equal(t, "user", g.got[1].Content)
}

func TestChatCompleterGivesUp(t *testing.T) {
	boom := errors.New("boom")
	g := &fakeGenerator{errs: []error{boom, boom, boom}, replies: make([]*schema.Message, 3)}
	prov, _ := Lookup(ProviderOpenAI)
	complete := chatCompleter(g, prov, fastOptions())

	_, err := complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, g.calls)
}
