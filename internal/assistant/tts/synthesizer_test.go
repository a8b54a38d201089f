package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishibondhu/server/internal/assistant/model"
)

func TestCleanForSpeech(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bold italic and link",
			in:   "**Apply** urea _now_. See [guide](http://x)",
			want: "Apply urea now. See guide",
		},
		{
			name: "headers and bullets",
			in:   "## Treatment\n- Remove affected leaves\n- Apply fungicide",
			want: "Treatment Remove affected leaves Apply fungicide",
		},
		{
			name: "numbered list markers removed",
			in:   "Steps:\n1. Apply urea\n2. Water the field",
			want: "Steps: Apply urea Water the field",
		},
		{
			name: "blank line runs collapsed",
			in:   "Apply urea.\n\n\nWater daily.",
			want: "Apply urea. Water daily.",
		},
		{
			name: "fenced code block dropped whole",
			in:   "Mix as follows:\n```\nurea 10g + water 1L\n```\nSpray in the morning.",
			want: "Mix as follows: Spray in the morning.",
		},
		{
			name: "inline code",
			in:   "Use `urea` fertilizer",
			want: "Use urea fertilizer",
		},
		{
			name: "plain text untouched",
			in:   "আক্রান্ত পাতা সরিয়ে ফেলুন।",
			want: "আক্রান্ত পাতা সরিয়ে ফেলুন।",
		},
		{
			name: "collapses double spaces",
			in:   "Apply  urea   today",
			want: "Apply urea today",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanForSpeech(tt.in))
		})
	}
}

func TestSynthesizeWritesFile(t *testing.T) {
	var gotLocale, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocale = r.URL.Query().Get("tl")
		gotText = r.URL.Query().Get("q")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	synth := NewGoogleSynthesizer(model.TTSConfig{
		BaseURL:          server.URL,
		TimeoutSeconds:   5,
		MaxFallbackChars: 500,
	}, dir)

	path, err := synth.Synthesize(context.Background(), "**Apply** urea today", "bn")
	require.NoError(t, err)

	assert.Equal(t, "bn", gotLocale)
	assert.Equal(t, "Apply urea today", gotText)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "reply_"))
	assert.True(t, strings.HasSuffix(path, ".mp3"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))
}

func TestSynthesizeFallsBackToEnglish(t *testing.T) {
	var locales []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := r.URL.Query().Get("tl")
		locales = append(locales, locale)
		if locale == "bn" {
			http.Error(w, "denied", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	synth := NewGoogleSynthesizer(model.TTSConfig{
		BaseURL:          server.URL,
		TimeoutSeconds:   5,
		MaxFallbackChars: 10,
	}, t.TempDir())

	longText := strings.Repeat("water the field daily ", 10)
	path, err := synth.Synthesize(context.Background(), longText, "bn")
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.Equal(t, []string{"bn", "en"}, locales)
}

func TestSynthesizeBothAttemptsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	synth := NewGoogleSynthesizer(model.TTSConfig{
		BaseURL:          server.URL,
		TimeoutSeconds:   5,
		MaxFallbackChars: 500,
	}, t.TempDir())

	_, err := synth.Synthesize(context.Background(), "some reply", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synthesis fallback")
}

func TestSynthesizeEmptyAfterCleanup(t *testing.T) {
	synth := NewGoogleSynthesizer(model.TTSConfig{BaseURL: "http://unused", TimeoutSeconds: 5}, t.TempDir())

	_, err := synth.Synthesize(context.Background(), "``", "en")
	require.Error(t, err)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abcdef", 3))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "abc", truncateRunes("abc", 0))

	truncated := truncateRunes("আমার ধানের পাতা", 4)
	assert.Equal(t, 4, utf8.RuneCountInString(truncated))
	assert.True(t, utf8.ValidString(truncated))
}
