// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/jeranaias/gridterm/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-2.5-flash"

	// SignalJamText is returned when the backend answers with no text.
	SignalJamText = "[SIGNAL JAM] Node connection failed, Sir."

	// MissingKeyText is returned when no API key is configured. No request
	// is made in that case.
	MissingKeyText = model.FailureSentinel + ": Sir, the API Key (GRIDTERM_API_KEY / GEMINI_API_KEY) is missing from the environment. Please check your ~/.gridterm/config.toml settings."

	// unknownErrorText stands in for errors with an empty message.
	unknownErrorText = "Unknown error"
)

// ErrNotConfigured indicates the API key is not set.
var ErrNotConfigured = errors.New("gemini API key not configured")

// FailureText formats err the way a failed query is reported in the transcript.
func FailureText(err error) string {
	msg := unknownErrorText
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return fmt.Sprintf("%s: Sir, a critical link failure occurred. \n\n**Protocol Error:** `%s`", model.FailureSentinel, msg)
}

// =============================================================================
// TYPES
// =============================================================================

// Result is the outcome of one query. Text is never empty.
type Result struct {
	Text    string
	Sources []model.Source
}

// IsError reports whether the result represents a failed query.
func (r Result) IsError() bool {
	return model.ContainsFailure(r.Text)
}

// Generator is the slice of the SDK used by Client. *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeneratorFactory builds a Generator for an API key.
type GeneratorFactory func(ctx context.Context, apiKey string) (Generator, error)

// NewGenAIGenerator builds a Generator backed by the Gemini API.
func NewGenAIGenerator(ctx context.Context, apiKey string) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return client.Models, nil
}

// Settings holds the tunable parts of a Client.
type Settings struct {
	APIKey    string
	Model     string
	Persona   string
	Grounding bool

	// RequestsPerMinute paces outbound calls. Zero disables pacing.
	RequestsPerMinute int
}

// normalized trims the key and resolves friendly model names.
func (s Settings) normalized() Settings {
	s.APIKey = strings.TrimSpace(s.APIKey)
	s.Model = ResolveModel(s.Model)
	return s
}

// =============================================================================
// CLIENT
// =============================================================================

// Client queries the Gemini API. It is safe for concurrent use.
type Client struct {
	mu        sync.Mutex
	settings  Settings
	factory   GeneratorFactory
	generator Generator
	genKey    string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewClient creates a client. The SDK client is not built until the first
// query, so an empty key is not an error here.
func NewClient(s Settings) *Client {
	c := &Client{
		factory: NewGenAIGenerator,
		logger:  zap.NewNop(),
	}
	c.apply(s)
	return c
}

// WithLogger sets the logger used for query records.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger.Named("gemini")
	return c
}

// WithGeneratorFactory replaces how the SDK client is built.
func (c *Client) WithGeneratorFactory(f GeneratorFactory) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factory = f
	c.generator = nil
	c.genKey = ""
	return c
}

// Reconfigure swaps the client settings. A query already in flight keeps the
// settings it started with.
func (c *Client) Reconfigure(s Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(s)
	c.logger.Info("client reconfigured",
		zap.String("model", c.settings.Model),
		zap.Bool("grounding", c.settings.Grounding),
		zap.String("key_fingerprint", keyFingerprint(c.settings.APIKey)),
	)
}

// apply must be called with mu held (or before the client is shared).
func (c *Client) apply(s Settings) {
	s = s.normalized()
	if s.APIKey != c.genKey {
		c.generator = nil
		c.genKey = ""
	}
	if s.RequestsPerMinute != c.settings.RequestsPerMinute || c.limiter == nil {
		c.limiter = newLimiter(s.RequestsPerMinute)
	}
	c.settings = s
}

func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

// Settings returns a copy of the current settings.
func (c *Client) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Model returns the resolved model ID.
func (c *Client) Model() string {
	return c.Settings().Model
}

// IsConfigured returns true if the client has an API key configured.
func (c *Client) IsConfigured() bool {
	return c.Settings().APIKey != ""
}

// KeyFingerprint returns a loggable identifier for the configured key.
func (c *Client) KeyFingerprint() string {
	return keyFingerprint(c.Settings().APIKey)
}

// keyFingerprint returns a secure fingerprint of the API key for logging.
// Never log key fragments.
func keyFingerprint(key string) string {
	if key == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// QUERY
// =============================================================================

// QueryGrid sends prompt to the model and returns the reply with its
// citation links. It makes at most one outbound call and never retries.
func (c *Client) QueryGrid(ctx context.Context, prompt string) Result {
	c.mu.Lock()
	s := c.settings
	limiter := c.limiter
	logger := c.logger
	c.mu.Unlock()

	if s.APIKey == "" {
		logger.Warn("query refused", zap.Error(ErrNotConfigured))
		return Result{Text: MissingKeyText}
	}

	start := time.Now()
	res, err := c.query(ctx, s, limiter, prompt)
	duration := time.Since(start)

	if err != nil {
		logger.Error("query failed",
			zap.String("model", s.Model),
			zap.Duration("duration", duration),
			zap.String("key_fingerprint", keyFingerprint(s.APIKey)),
			zap.Error(err),
		)
		return Result{Text: FailureText(err)}
	}

	logger.Info("query settled",
		zap.String("model", s.Model),
		zap.Duration("duration", duration),
		zap.Int("sources", len(res.Sources)),
		zap.Bool("signal_jam", res.Text == SignalJamText),
		zap.String("key_fingerprint", keyFingerprint(s.APIKey)),
	)
	return res
}

func (c *Client) query(ctx context.Context, s Settings, limiter *rate.Limiter, prompt string) (Result, error) {
	gen, err := c.generatorFor(ctx, s.APIKey)
	if err != nil {
		return Result{}, err
	}
	if err := limiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := gen.GenerateContent(ctx, s.Model, genai.Text(prompt), BuildConfig(s))
	if err != nil {
		return Result{}, err
	}
	return ParseResponse(resp), nil
}

// generatorFor returns the cached Generator for key, building it on first use.
func (c *Client) generatorFor(ctx context.Context, key string) (Generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generator != nil && c.genKey == key {
		return c.generator, nil
	}
	gen, err := c.factory(ctx, key)
	if err != nil {
		return nil, err
	}
	// Settings may have moved on while we were unlocked; only cache for the
	// current key.
	if key == c.settings.APIKey {
		c.generator = gen
		c.genKey = key
	}
	return gen, nil
}

// BuildConfig returns the request config for s.
func BuildConfig(s Settings) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if s.Persona != "" {
		cfg.SystemInstruction = genai.NewContentFromText(s.Persona, genai.RoleUser)
	}
	if s.Grounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return cfg
}

// ParseResponse extracts the reply text and web citations from resp.
// An empty reply becomes SignalJamText. Citations come from the first
// candidate only, in order; chunks without a web reference are skipped and a
// missing title falls back to the URI.
func ParseResponse(resp *genai.GenerateContentResponse) Result {
	if resp == nil {
		return Result{Text: SignalJamText}
	}

	text := resp.Text()
	if text == "" {
		text = SignalJamText
	}

	var sources []model.Source
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			title := chunk.Web.Title
			if title == "" {
				title = chunk.Web.URI
			}
			sources = append(sources, model.Source{Title: title, URI: chunk.Web.URI})
		}
	}

	return Result{Text: text, Sources: sources}
}
