// Package etl runs one ordersql pass: load the input table, clean it with the
// configured rule chain and print the INSERT statements for the target table.
//
// Run writes three sections to its stdout writer, separated by a rule of 50
// '=' characters: a preview of the raw input, the full cleaned table and one
// INSERT per line. On failure it writes a single human-readable message
// instead of the remaining sections and returns the error; previews already
// written stay written, SQL is all-or-nothing.
package etl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ordersql/internal/config"
	"ordersql/internal/datasource"
	"ordersql/internal/datasource/file"
	"ordersql/internal/metrics"
	"ordersql/internal/parser"
	"ordersql/internal/parser/csv"
	"ordersql/internal/preview"
	"ordersql/internal/sqlgen"
	"ordersql/internal/transformer"
	"ordersql/internal/transformer/builtin"
	"ordersql/pkg/records"
)

// ErrMissingInput is returned when the input file does not exist.
var ErrMissingInput = errors.New("input file not found")

// UnexpectedError wraps every other failure of a run.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string { return e.Err.Error() }
func (e *UnexpectedError) Unwrap() error { return e.Err }

// Separator is printed between the three sections.
var Separator = "\n" + strings.Repeat("=", 50) + "\n\n"

// Options carries the collaborators of a run. Every field is optional.
type Options struct {
	// Stdout receives the report. Defaults to os.Stdout.
	Stdout io.Writer
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
	// Quoter renders SQL values. Defaults to sqlgen.Naive.
	Quoter sqlgen.Quoter
	// Source overrides the input. Defaults to the local file cfg.InputPath.
	Source datasource.Source
	// Parser overrides the table reader. Defaults to the CSV parser.
	Parser parser.Parser
	// Metrics receives step and row metrics. Defaults to metrics.Default().
	Metrics metrics.Backend
	// RowWise applies the cleaning chain one row at a time instead of
	// column by column. The output is identical.
	RowWise bool
}

// Summary describes a finished run.
type Summary struct {
	RunID   string
	Loaded  int
	Cleaned int
	Report  *transformer.Report
	SQL     sqlgen.Result
}

// Message renders err as the final line a run prints on failure.
func Message(cfg config.Pipeline, err error) string {
	if errors.Is(err, ErrMissingInput) {
		return fmt.Sprintf("Error: '%s' not found. Please ensure the file is in the same directory.", cfg.InputName())
	}
	return "An unexpected error occurred: " + err.Error()
}

// Run executes the pipeline described by cfg. The returned error is either
// ErrMissingInput (wrapped) or an *UnexpectedError; in both cases the failure
// message has already been written to opt.Stdout.
func Run(ctx context.Context, cfg config.Pipeline, opt Options) (Summary, error) {
	opt = withDefaults(cfg, opt)
	sum := Summary{RunID: uuid.NewString()}
	log := opt.Logger.With(zap.String("run_id", sum.RunID), zap.String("job", cfg.Job))
	job := metrics.ForJob(cfg.Job, opt.Metrics)
	out := opt.Stdout

	err := run(ctx, cfg, opt, log, job, &sum)
	if err != nil {
		if !errors.Is(err, ErrMissingInput) {
			var ue *UnexpectedError
			if !errors.As(err, &ue) {
				err = &UnexpectedError{Err: err}
			}
		}
		log.Error("run failed", zap.Error(err))
		fmt.Fprintln(out, Message(cfg, err))
	}
	if ferr := job.Flush(); ferr != nil {
		log.Warn("metrics flush failed", zap.Error(ferr))
	}
	return sum, err
}

func withDefaults(cfg config.Pipeline, opt Options) Options {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	if opt.Quoter == nil {
		opt.Quoter = sqlgen.Naive{}
	}
	if opt.Source == nil {
		opt.Source = file.NewLocal(cfg.InputPath)
	}
	if opt.Parser == nil {
		opt.Parser = csv.NewParser(csv.Options{})
	}
	return opt
}

func run(ctx context.Context, cfg config.Pipeline, opt Options, log *zap.Logger, job metrics.Job, sum *Summary) error {
	out := opt.Stdout

	// 1) Load
	start := time.Now()
	raw, err := load(ctx, opt.Source, opt.Parser, log)
	job.Step("load", err, time.Since(start))
	if err != nil {
		return err
	}
	sum.Loaded = raw.Len()
	job.Rows("loaded", int64(raw.Len()))
	log.Info("loaded input", zap.Int("rows", raw.Len()), zap.Int("columns", len(raw.Columns)))

	fmt.Fprintf(out, "--- 1. Input Data (%s) ---\n", cfg.InputName())
	preview.Markdown(out, raw.Head(cfg.PreviewRows))
	fmt.Fprint(out, Separator)

	if err := ctx.Err(); err != nil {
		return err
	}

	// 2) Clean
	start = time.Now()
	chain := builtin.FromConfig(cfg)
	var cleaned records.Table
	if opt.RowWise {
		cleaned, sum.Report, err = chain.ApplyRows(raw)
	} else {
		cleaned, sum.Report, err = chain.Apply(raw)
	}
	job.Step("transform", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	sum.Cleaned = cleaned.Len()
	job.Rows("cleaned", int64(cleaned.Len()))
	job.Rows("parse_errors", int64(len(sum.Report.Errors)))
	for rule, n := range sum.Report.Changed {
		log.Info("rule applied", zap.String("rule", rule), zap.Int("changed", n))
	}
	for _, pe := range sum.Report.Errors {
		log.Warn("cell nulled", zap.Error(pe))
	}

	fmt.Fprintln(out, "--- 2. Cleaned Data (pandas DataFrame) ---")
	preview.Markdown(out, cleaned)
	fmt.Fprint(out, Separator)

	if err := ctx.Err(); err != nil {
		return err
	}

	// 3) Emit
	fmt.Fprintln(out, "--- 3. Final SQL Output (Ready for Database Insert) ---")
	start = time.Now()
	sum.SQL, err = sqlgen.NewEmitter(cfg.Target, opt.Quoter).Emit(out, cleaned)
	job.Step("emit", err, time.Since(start))
	if err != nil {
		return err
	}
	job.Rows("emitted", int64(sum.SQL.Statements))
	log.Info("emitted statements",
		zap.Int("statements", sum.SQL.Statements),
		zap.String("size", humanize.Bytes(uint64(sum.SQL.Bytes))),
		zap.String("digest", sum.SQL.DigestHex()),
	)
	return nil
}

func load(ctx context.Context, src datasource.Source, p parser.Parser, log *zap.Logger) (records.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return records.Table{}, fmt.Errorf("%w: %v", ErrMissingInput, err)
		}
		return records.Table{}, err
	}
	defer rc.Close()

	if s, ok := src.(datasource.Sizer); ok {
		if n, err := s.Size(); err == nil {
			log.Info("reading input", zap.String("size", humanize.Bytes(uint64(n))))
		}
	}

	t, err := p.Parse(rc)
	if err != nil {
		return records.Table{}, fmt.Errorf("parse input: %w", err)
	}
	return t, nil
}
