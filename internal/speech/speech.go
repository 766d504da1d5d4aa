// Package speech renders forecast text to an mp3 file through the Google
// Translate TTS endpoint.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"
)

// The endpoint caps the utterance length, so long forecasts are split into
// chunks and the resulting mp3 frames are concatenated.
const maxChunkRunes = 180

type Synthesizer struct {
	httpClient *http.Client
	lang       string
	baseURL    string
}

func NewSynthesizer(httpClient *http.Client, lang string) *Synthesizer {
	return &Synthesizer{
		httpClient: httpClient,
		lang:       lang,
		baseURL:    "https://translate.google.com/translate_tts",
	}
}

// Synthesize writes the spoken text to a temporary mp3 file and returns its
// path together with a cleanup func. The caller must defer cleanup so the
// artifact is released even when delivery fails partway.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, func(), error) {
	if strings.TrimSpace(text) == "" {
		return "", nil, errors.New("nothing to synthesize")
	}

	f, err := os.CreateTemp("", "forecast-*.mp3")
	if err != nil {
		return "", nil, fmt.Errorf("create temp mp3: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	for _, chunk := range splitChunks(text, maxChunkRunes) {
		if err := s.fetchChunk(ctx, chunk, f); err != nil {
			_ = f.Close()
			cleanup()
			return "", nil, err
		}
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp mp3: %w", err)
	}
	return path, cleanup, nil
}

func (s *Synthesizer) fetchChunk(ctx context.Context, chunk string, w io.Writer) error {
	values := url.Values{}
	values.Set("ie", "UTF-8")
	values.Set("client", "tw-ob")
	values.Set("tl", s.lang)
	values.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?%s", s.baseURL, values.Encode()), nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts bad status: %d", resp.StatusCode)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("tts read: %w", err)
	}
	return nil
}

// splitChunks breaks text into pieces of at most max runes, preferring
// whitespace boundaries.
func splitChunks(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	for _, word := range strings.Fields(text) {
		wl := utf8.RuneCountInString(word)
		if curLen > 0 && curLen+1+wl > max {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(word)
		curLen += wl
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
