package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/krishibondhu/server/internal/assistant/lang"
	"github.com/krishibondhu/server/internal/assistant/model"
	logx "github.com/krishibondhu/server/pkg/logger"
)

const defaultTimeout = 15 * time.Second

// GoogleSynthesizer renders reply text as MP3 via the Google Translate TTS
// endpoint and stores the result under the upload directory.
type GoogleSynthesizer struct {
	baseURL          string
	client           *http.Client
	uploadDir        string
	maxFallbackChars int
}

func NewGoogleSynthesizer(config model.TTSConfig, uploadDir string) *GoogleSynthesizer {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GoogleSynthesizer{
		baseURL:          config.BaseURL,
		client:           &http.Client{Timeout: timeout},
		uploadDir:        uploadDir,
		maxFallbackChars: config.MaxFallbackChars,
	}
}

// Synthesize cleans the text, fetches the audio, and writes it to a uniquely
// named file. A failed fetch is retried once in English with the text
// truncated, since the English voice is the more reliable one.
func (s *GoogleSynthesizer) Synthesize(ctx context.Context, text, language string) (string, error) {
	cleaned := CleanForSpeech(text)
	if cleaned == "" {
		return "", fmt.Errorf("nothing to synthesize after markdown cleanup")
	}

	audio, err := s.fetch(ctx, cleaned, localeFor(language))
	if err != nil {
		logx.Warn().Err(err).Str("language", language).Msg("synthesis failed, retrying truncated in English")
		audio, err = s.fetch(ctx, truncateRunes(cleaned, s.maxFallbackChars), localeFor(lang.English))
		if err != nil {
			return "", fmt.Errorf("synthesis fallback: %w", err)
		}
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(s.uploadDir, fmt.Sprintf("reply_%s.mp3", uuid.NewString()))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return path, nil
}

func (s *GoogleSynthesizer) fetch(ctx context.Context, text, locale string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", locale)
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis request: unexpected status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesis response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("synthesis returned an empty body")
	}
	return audio, nil
}

// localeFor maps the pipeline language tag to the TTS voice locale.
func localeFor(language string) string {
	if language == lang.Bengali {
		return "bn"
	}
	return "en"
}

// truncateRunes cuts s to at most n runes without splitting characters.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
