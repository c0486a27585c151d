// Copyright © 2024 The kip-ls authors

package engine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/kip-lang/kip-ls/parser/token"
	"github.com/kip-lang/kip-ls/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const boolSource = `Bir doğruluk ya doğru ya da yanlış olabilir.
(bu doğruluğun) tersi,
  bu doğruysa, yanlış,
  yanlışsa, doğru.
`

func installExporter(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		assert.NoError(t, tp.Shutdown(context.Background()), "TracerProvider shutdown")
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestAnalyze(t *testing.T) {
	res, err := Analyze(context.Background(), boolSource, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Tokens)
	assert.Len(t, res.Program.Decls, 2)
	assert.True(t, res.Tables.Types.Has("doğruluk"))
	assert.True(t, res.Tables.Functions.Has("tersi"))
	assert.True(t, res.Tables.Functions.Has("doğru"))
}

func TestAnalyze_Idempotent(t *testing.T) {
	first, err := Analyze(context.Background(), boolSource, DefaultConfig())
	require.NoError(t, err)
	second, err := Analyze(context.Background(), boolSource, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, first.Tables, second.Tables)
}

func TestAnalyze_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Analyze(ctx, boolSource, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)

	data, err := TokenizeForHighlighting(ctx, boolSource, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, data)
}

func TestAnalyze_Spans(t *testing.T) {
	exporter := installExporter(t)

	cfg := DefaultConfig()
	cfg.File = "bool.kip"
	res, err := Analyze(context.Background(), boolSource, cfg)
	require.NoError(t, err)
	_, err = TokenizeForHighlighting(context.Background(), boolSource, res.Tables, nil)
	require.NoError(t, err)

	spans := exporter.GetSpans()
	var names []string
	for _, span := range spans {
		names = append(names, span.Name)
	}
	assert.Equal(t, []string{"kip.lex", "kip.parse", "kip.analyze", "kip.emit"}, names)
	for _, attr := range spans[0].Attributes {
		if attr.Key == "code.filepath" {
			assert.Equal(t, "bool.kip", attr.Value.AsString())
		}
	}
}

func TestTokenizeForHighlighting(t *testing.T) {
	res, err := Analyze(context.Background(), boolSource, DefaultConfig())
	require.NoError(t, err)

	data, err := TokenizeForHighlighting(context.Background(), boolSource, res.Tables, nil)
	require.NoError(t, err)
	require.Zero(t, len(data)%5)
	tokens := semantic.Decode(data)
	require.NotEmpty(t, tokens)
	assert.Equal(t, semantic.TypeKeyword, tokens[0].Type, "Bir")
	assert.Equal(t, semantic.TypeType, tokens[1].Type, "doğruluk")

	rng := &token.Range{
		Start: &token.Location{Line: 2, Col: 1},
		End:   &token.Location{Line: 3, Col: 1},
	}
	data, err = TokenizeForHighlighting(context.Background(), boolSource, res.Tables, rng)
	require.NoError(t, err)
	for _, tok := range semantic.Decode(data) {
		assert.Equal(t, 1, tok.Line)
	}
}

func TestSession_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewSession(DefaultConfig())
	uri := "file:///test/bool.kip"

	assert.Nil(t, s.Get(uri))
	assert.Empty(t, s.Tables(uri).Functions)
	data, err := s.SemanticTokens(ctx, uri, nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	doc, err := s.Open(ctx, uri, 1, boolSource)
	require.NoError(t, err)
	assert.Equal(t, int32(1), doc.Version)
	assert.Same(t, doc, s.Get(uri))
	assert.True(t, s.Tables(uri).Functions.Has("tersi"))
	assert.Equal(t, uri, doc.Result.Tokens[0].Source.File)

	doc, err = s.Change(ctx, uri, 2, "x diyelim.")
	require.NoError(t, err)
	assert.Equal(t, int32(2), doc.Version)
	assert.False(t, s.Tables(uri).Functions.Has("tersi"))
	assert.True(t, s.Tables(uri).Variables.Has("x"))

	data, err = s.SemanticTokens(ctx, uri, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{semantic.TypeVariable, semantic.TypeKeyword}, tokenTypes(data))

	// stale change is ignored
	doc, err = s.Change(ctx, uri, 1, boolSource)
	require.NoError(t, err)
	assert.Equal(t, int32(2), doc.Version)
	assert.True(t, s.Tables(uri).Variables.Has("x"))

	assert.Equal(t, []string{uri}, s.URIs())
	s.Close(uri)
	assert.Nil(t, s.Get(uri))
	assert.Empty(t, s.URIs())
}

func TestSession_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewSession(DefaultConfig())
	uri := "file:///test/c.kip"
	_, err := s.Open(ctx, uri, 0, boolSource)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(v int32) {
			defer wg.Done()
			_, _ = s.Change(ctx, uri, v, boolSource)
		}(int32(i + 1))
		go func() {
			defer wg.Done()
			_, _ = s.SemanticTokens(ctx, uri, nil)
			_ = s.Tables(uri)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(8), s.Get(uri).Version)
}

func tokenTypes(data []uint32) []int {
	var out []int
	for _, tok := range semantic.Decode(data) {
		out = append(out, tok.Type)
	}
	return out
}

func TestResult_Findings(t *testing.T) {
	res, err := Analyze(context.Background(), boolSource, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Findings())

	res, err = Analyze(context.Background(), "olabilir olsun. "+boolSource, DefaultConfig())
	require.NoError(t, err)
	findings := res.Findings()
	require.Len(t, findings, 1)
	assert.True(t, findings[0].HasRange())
	assert.Equal(t, 1, findings[0].Range.Start.Col)

	deep := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20) + "."
	res, err = Analyze(context.Background(), deep, Config{MaxDepth: 5, NodeBudget: 100})
	require.NoError(t, err)
	var whole int
	for _, f := range res.Findings() {
		if !f.HasRange() {
			whole++
		}
	}
	assert.GreaterOrEqual(t, whole, 1)

	var nilResult *Result
	assert.Nil(t, nilResult.Findings())
}
