// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"

	"github.com/jeranaias/gridterm/internal/model"
)

// =============================================================================
// FAKES
// =============================================================================

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeGenerator struct {
	mu    sync.Mutex
	resp  *genai.GenerateContentResponse
	err   error
	calls []generateCall
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, m string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, generateCall{model: m, contents: contents, config: cfg})
	return f.resp, f.err
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeFactory records which keys it was asked to build generators for.
type fakeFactory struct {
	gen  *fakeGenerator
	err  error
	keys []string
}

func (f *fakeFactory) build(_ context.Context, key string) (Generator, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return f.gen, nil
}

func textResponse(text string, chunks ...*genai.GroundingChunk) *genai.GenerateContentResponse {
	cand := &genai.Candidate{
		Content: genai.NewContentFromText(text, genai.RoleModel),
	}
	if len(chunks) > 0 {
		cand.GroundingMetadata = &genai.GroundingMetadata{GroundingChunks: chunks}
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{cand}}
}

func webChunk(uri, title string) *genai.GroundingChunk {
	return &genai.GroundingChunk{Web: &genai.GroundingChunkWeb{URI: uri, Title: title}}
}

func newTestClient(t *testing.T, s Settings, gen *fakeGenerator) (*Client, *fakeFactory) {
	t.Helper()
	f := &fakeFactory{gen: gen}
	return NewClient(s).WithGeneratorFactory(f.build), f
}

var keyed = Settings{APIKey: "test-key", Model: "flash", Persona: DefaultPersona, Grounding: true}

// =============================================================================
// QUERY TESTS
// =============================================================================

func TestQueryGrid_PlainAnswer(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("Result: 42")}
	c, _ := newTestClient(t, keyed, gen)

	res := c.QueryGrid(context.Background(), "find 42")

	assert.Equal(t, "Result: 42", res.Text)
	assert.Empty(t, res.Sources)
	assert.False(t, res.IsError())
	require.Equal(t, 1, gen.callCount())

	call := gen.calls[0]
	assert.Equal(t, "gemini-2.5-flash", call.model)
	require.Len(t, call.contents, 1)
	assert.Equal(t, "find 42", call.contents[0].Parts[0].Text)
}

func TestQueryGrid_MissingKeyMakesNoCall(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("should not be seen")}
	c, f := newTestClient(t, Settings{APIKey: "   "}, gen)

	res := c.QueryGrid(context.Background(), "anything")

	assert.Equal(t, MissingKeyText, res.Text)
	assert.True(t, res.IsError())
	assert.Empty(t, res.Sources)
	assert.Zero(t, gen.callCount())
	assert.Empty(t, f.keys, "generator should not be built without a key")
}

func TestQueryGrid_TransportErrorEmbedded(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	c, _ := newTestClient(t, keyed, gen)

	res := c.QueryGrid(context.Background(), "q")

	assert.True(t, res.IsError())
	assert.Contains(t, res.Text, "`timeout`")
	assert.True(t, strings.HasPrefix(res.Text, model.FailureSentinel))
	assert.Empty(t, res.Sources)
	assert.Equal(t, 1, gen.callCount(), "no retry after a failure")
}

func TestQueryGrid_FactoryErrorEmbedded(t *testing.T) {
	c := NewClient(keyed).WithGeneratorFactory(func(context.Context, string) (Generator, error) {
		return nil, errors.New("bad credentials format")
	})

	res := c.QueryGrid(context.Background(), "q")

	assert.True(t, res.IsError())
	assert.Contains(t, res.Text, "bad credentials format")
}

func TestQueryGrid_GroundingSources(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("nodes found",
		webChunk("https://x", "X"),
		&genai.GroundingChunk{}, // no web reference
		webChunk("https://y", ""),
	)}
	c, _ := newTestClient(t, keyed, gen)

	res := c.QueryGrid(context.Background(), "q")

	assert.Equal(t, []model.Source{
		{Title: "X", URI: "https://x"},
		{Title: "https://y", URI: "https://y"},
	}, res.Sources)
}

func TestQueryGrid_EmptyTextIsSignalJam(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("", webChunk("https://z", "Z"))}
	c, _ := newTestClient(t, keyed, gen)

	res := c.QueryGrid(context.Background(), "q")

	assert.Equal(t, SignalJamText, res.Text)
	assert.False(t, res.IsError())
	assert.Len(t, res.Sources, 1, "sources survive an empty reply")
}

func TestQueryGrid_NilResponseIsSignalJam(t *testing.T) {
	c, _ := newTestClient(t, keyed, &fakeGenerator{})

	res := c.QueryGrid(context.Background(), "q")
	assert.Equal(t, SignalJamText, res.Text)
}

func TestQueryGrid_CancelledContextDuringPacing(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("ok")}
	s := keyed
	s.RequestsPerMinute = 1
	c, _ := newTestClient(t, s, gen)

	// The first call consumes the burst token.
	require.Equal(t, "ok", c.QueryGrid(context.Background(), "one").Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := c.QueryGrid(ctx, "two")

	assert.True(t, res.IsError())
	assert.Equal(t, 1, gen.callCount())
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestBuildConfig(t *testing.T) {
	cfg := BuildConfig(Settings{Persona: "be terse", Grounding: true})
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be terse", cfg.SystemInstruction.Parts[0].Text)
	require.Len(t, cfg.Tools, 1)
	assert.NotNil(t, cfg.Tools[0].GoogleSearch)

	bare := BuildConfig(Settings{})
	assert.Nil(t, bare.SystemInstruction)
	assert.Empty(t, bare.Tools)
}

func TestQueryGrid_SendsPersonaAndTool(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("ok")}
	c, _ := newTestClient(t, keyed, gen)

	c.QueryGrid(context.Background(), "q")

	cfg := gen.calls[0].config
	assert.Equal(t, DefaultPersona, cfg.SystemInstruction.Parts[0].Text)
	require.Len(t, cfg.Tools, 1)
	assert.NotNil(t, cfg.Tools[0].GoogleSearch)
}

// =============================================================================
// RECONFIGURE TESTS
// =============================================================================

func TestReconfigure_RebuildsGeneratorOnKeyChange(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("ok")}
	c, f := newTestClient(t, keyed, gen)

	c.QueryGrid(context.Background(), "a")
	c.QueryGrid(context.Background(), "b")
	assert.Equal(t, []string{"test-key"}, f.keys, "generator cached per key")

	next := keyed
	next.APIKey = "rotated"
	next.Model = "pro"
	c.Reconfigure(next)
	c.QueryGrid(context.Background(), "c")

	assert.Equal(t, []string{"test-key", "rotated"}, f.keys)
	assert.Equal(t, "gemini-2.5-pro", gen.calls[2].model)
}

func TestReconfigure_FixesMissingKey(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("online")}
	c, _ := newTestClient(t, Settings{}, gen)

	assert.Equal(t, MissingKeyText, c.QueryGrid(context.Background(), "q").Text)
	assert.False(t, c.IsConfigured())

	c.Reconfigure(keyed)
	assert.True(t, c.IsConfigured())
	assert.Equal(t, "online", c.QueryGrid(context.Background(), "q").Text)
}

// =============================================================================
// LOGGING TESTS
// =============================================================================

func TestQueryGrid_LogsFingerprintNotKey(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	gen := &fakeGenerator{resp: textResponse("ok")}
	c, _ := newTestClient(t, keyed, gen)
	c.WithLogger(zap.New(core))

	c.QueryGrid(context.Background(), "q")

	entries := logs.FilterMessage("query settled").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, keyFingerprint("test-key"), fields["key_fingerprint"])
	for _, v := range fields {
		if s, ok := v.(string); ok {
			assert.NotContains(t, s, "test-key")
		}
	}
}

func TestKeyFingerprint(t *testing.T) {
	assert.Equal(t, "none", keyFingerprint(""))
	fp := keyFingerprint("abc")
	assert.Len(t, fp, 8)
	assert.Equal(t, fp, keyFingerprint("abc"))
	assert.NotEqual(t, fp, keyFingerprint("abd"))
}

func TestFailureText(t *testing.T) {
	assert.Equal(t,
		"[SYSTEM ERROR]: Sir, a critical link failure occurred. \n\n**Protocol Error:** `boom`",
		FailureText(errors.New("boom")))
	assert.Contains(t, FailureText(nil), unknownErrorText)
}
