package quark

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Config controls how an Engine compiles and runs programs.
type Config struct {
	Logger    *slog.Logger
	StepQuota int
}

// Engine compiles Quark sources. Every compilation gets its own symbol
// table, so one Engine may compile many units concurrently.
type Engine struct {
	config Config
	logger *slog.Logger
}

// Unit is the result of compiling one source.
type Unit struct {
	Name    string
	Source  string
	Tokens  []Token
	Program *Program
	Symbols *SymbolTable
}

// SourceFile names a source for CompileAll.
type SourceFile struct {
	Name     string
	Contents string
}

func NewEngine(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.StepQuota <= 0 {
		cfg.StepQuota = defaultStepQuota
	}
	return &Engine{config: cfg, logger: cfg.Logger}
}

// Compile tokenizes and parses source. When errors are returned alongside a
// non-nil Unit, the unit holds the partial program recovered by the parser.
func (e *Engine) Compile(source string) (*Unit, error) {
	return e.compile("", source)
}

func (e *Engine) compile(name, source string) (*Unit, error) {
	start := time.Now()
	logger := e.logger
	if name != "" {
		logger = logger.With("unit", name)
	}

	tokens, err := Tokenize(source)
	if err != nil {
		logger.Debug("tokenize failed", "error", err)
		return nil, err
	}

	p := NewParser(tokens, WithSource(source), WithLogger(logger))
	program, errs := p.ParseProgram()
	unit := &Unit{
		Name:    name,
		Source:  source,
		Tokens:  tokens,
		Program: program,
		Symbols: p.Symbols(),
	}

	logger.Debug("compiled",
		"tokens", len(tokens),
		"errors", len(errs),
		"elapsed", time.Since(start),
	)
	if len(errs) > 0 {
		return unit, ErrorList(errs)
	}
	return unit, nil
}

// CompileAll compiles files in parallel. Results keep the input order; the
// error slice has an entry per file, nil when that file compiled cleanly.
func (e *Engine) CompileAll(ctx context.Context, files []SourceFile) ([]*Unit, []error) {
	units := make([]*Unit, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			units[i], errs[i] = e.compile(file.Name, file.Contents)
		}()
	}
	wg.Wait()
	return units, errs
}

// Run compiles and interprets source.
func (e *Engine) Run(ctx context.Context, source string) (Result, error) {
	unit, err := e.Compile(source)
	if err != nil {
		return Result{}, err
	}
	return NewInterpreter(InterpreterOptions{
		StepQuota: e.config.StepQuota,
		Logger:    e.logger,
	}).Run(ctx, unit.Program)
}
