// Copyright © 2024 The kip-ls authors

// Package engine runs the kip analysis pipeline.
//
// Analyze lexes, parses and analyzes a document; TokenizeForHighlighting
// re-lexes a document and classifies its tokens against previously built
// tables.  Session keeps the latest analysis of each open document.  Every
// pipeline stage runs inside an OpenTelemetry span.
package engine

import (
	"context"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/kip-lang/kip-ls/parser/lexer"
	"github.com/kip-lang/kip-ls/parser/rdparser"
	"github.com/kip-lang/kip-ls/parser/token"
	"github.com/kip-lang/kip-ls/semantic"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer pipeline spans are recorded with.
const TracerName = "github.com/kip-lang/kip-ls/engine"

// Config controls an analysis run.
type Config struct {
	// File names the document in token locations.
	File string

	// MaxDepth bounds parser nesting and analysis depth.
	MaxDepth int

	// NodeBudget bounds the number of expression nodes analyzed.
	NodeBudget int
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	def := analysis.DefaultConfig()
	return Config{MaxDepth: def.MaxDepth, NodeBudget: def.NodeBudget}
}

// AnalysisConfig returns the symbol analyzer settings of cfg.
func (cfg Config) AnalysisConfig() analysis.Config {
	return analysis.Config{MaxDepth: cfg.MaxDepth, NodeBudget: cfg.NodeBudget}
}

// Result is the analysis of one document version.
type Result struct {
	Tokens  []*token.Token
	Program *ast.Program
	Tables  *analysis.Tables
}

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

func startSpan(ctx context.Context, name, file string) (context.Context, trace.Span) {
	ctx, span := tracer().Start(ctx, name)
	if file != "" {
		span.SetAttributes(semconv.CodeFilepath(file))
	}
	return ctx, span
}

// Analyze runs the lexer, parser and symbol analyzer over text.  The only
// error returned is that of a context already done when Analyze is called.
func Analyze(ctx context.Context, text string, cfg Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &Result{}

	_, span := startSpan(ctx, "kip.lex", cfg.File)
	res.Tokens = lexer.Tokenize(cfg.File, text)
	span.SetAttributes(attribute.Int("kip.tokens", len(res.Tokens)))
	span.End()

	_, span = startSpan(ctx, "kip.parse", cfg.File)
	var opts []rdparser.Option
	if cfg.MaxDepth > 0 {
		opts = append(opts, rdparser.WithMaxDepth(cfg.MaxDepth))
	}
	res.Program = rdparser.New(res.Tokens, opts...).ParseProgram()
	span.SetAttributes(
		attribute.Int("kip.decls", len(res.Program.Decls)),
		attribute.Int("kip.skipped", len(res.Program.Skipped)),
	)
	span.End()

	_, span = startSpan(ctx, "kip.analyze", cfg.File)
	res.Tables = analysis.Analyze(res.Program, cfg.AnalysisConfig())
	span.SetAttributes(
		attribute.Bool("kip.partial", res.Tables.Partial),
		attribute.Int("kip.truncated", res.Tables.Truncated),
	)
	span.End()

	return res, nil
}

// TokenizeForHighlighting lexes text and returns its encoded semantic
// tokens, classified using tables.  When rng is non-nil only tokens starting
// inside it are returned.
func TokenizeForHighlighting(ctx context.Context, text string, tables *analysis.Tables, rng *token.Range) ([]uint32, error) {
	return tokenize(ctx, "", text, tables, rng)
}

func tokenize(ctx context.Context, file, text string, tables *analysis.Tables, rng *token.Range) ([]uint32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, span := startSpan(ctx, "kip.emit", file)
	defer span.End()
	data := semantic.Emit(lexer.Tokenize(file, text), tables, rng)
	span.SetAttributes(attribute.Int("kip.semantic_tokens", len(data)/5))
	return data, nil
}
