// Package tts provides the speech synthesizer adapter for the
// blog-video-service.
//
// Narration is generated through the public Google Translate speech endpoint,
// which accepts a bounded amount of text per request and returns an MP3
// payload. Post content is chunked by internal/tts/text and the returned
// payloads are concatenated in order into one audio file; MP3 frames are
// self-delimiting, so plain byte concatenation yields a valid stream.
package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/book-expert/blog-video-service/internal/tts/text"
	"github.com/book-expert/logger"
)

// DefaultBaseURL is the public synthesis endpoint.
const DefaultBaseURL = "https://translate.google.com"

// Endpoint path and query parameters of the synthesis API.
const (
	apiTranslateTTS = "/translate_tts"

	paramEncoding = "ie"
	paramText     = "q"
	paramLanguage = "tl"
	paramClient   = "client"
	paramIndex    = "idx"
	paramTotal    = "total"
	paramTextLen  = "textlen"

	encodingUTF8 = "UTF-8"
	clientToken  = "tw-ob"
)

// requestTimeout applies to each chunk request.
const requestTimeout = 30 * time.Second

// File permissions for the audio artifact.
const audioFilePermissions = 0o600

// Static errors.
var (
	ErrTextEmpty       = errors.New("text cannot be empty")
	ErrOutputPathEmpty = errors.New("output path cannot be empty")
	ErrEmptyAudio      = errors.New("received empty audio data")
)

// Client synthesizes speech by fetching one MP3 payload per text chunk from
// the translate endpoint.
type Client struct {
	httpClient *http.Client
	chunker    *text.Chunker
	log        *logger.Logger
	baseURL    string
	language   string
}

// NewClient creates a synthesis client for the given language code using the
// public endpoint.
func NewClient(language string, log *logger.Logger) *Client {
	return NewClientWithBaseURL(DefaultBaseURL, language, log)
}

// NewClientWithBaseURL creates a synthesis client against a custom endpoint.
// This constructor is primarily for testing against local HTTP servers.
func NewClientWithBaseURL(baseURL, language string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		chunker:    text.NewChunker(),
		log:        log,
		baseURL:    baseURL,
		language:   language,
	}
}

// Synthesize converts text into a single MP3 file at outputPath. The text is
// split into endpoint-sized chunks which are fetched sequentially; chunk order
// determines playback order.
func (c *Client) Synthesize(ctx context.Context, input, outputPath string) error {
	if input == "" {
		return ErrTextEmpty
	}

	if outputPath == "" {
		return ErrOutputPathEmpty
	}

	chunks := c.chunker.Split(input)
	if len(chunks) == 0 {
		return ErrTextEmpty
	}

	var audio []byte

	for index, chunk := range chunks {
		data, err := c.fetchChunk(ctx, chunk, index, len(chunks))
		if err != nil {
			return fmt.Errorf("failed to synthesize chunk %d/%d: %w", index+1, len(chunks), err)
		}

		audio = append(audio, data...)
	}

	if len(audio) == 0 {
		return ErrEmptyAudio
	}

	err := os.WriteFile(outputPath, audio, audioFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	c.log.Info("Synthesized %d chunks (%d bytes) to %s", len(chunks), len(audio), outputPath)

	return nil
}

// fetchChunk requests the MP3 payload for one chunk of text.
func (c *Client) fetchChunk(ctx context.Context, chunk string, index, total int) ([]byte, error) {
	query := url.Values{}
	query.Set(paramEncoding, encodingUTF8)
	query.Set(paramText, chunk)
	query.Set(paramLanguage, c.language)
	query.Set(paramClient, clientToken)
	query.Set(paramIndex, strconv.Itoa(index))
	query.Set(paramTotal, strconv.Itoa(total))
	query.Set(paramTextLen, strconv.Itoa(len(chunk)))

	requestURL := c.baseURL + apiTranslateTTS + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach synthesis endpoint at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, fmt.Errorf("synthesis endpoint returned %s: %s", resp.Status, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}

	return data, nil
}
