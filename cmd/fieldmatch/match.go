package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldmatch/internal/config"
	"github.com/kailas-cloud/fieldmatch/internal/domain"
	"github.com/kailas-cloud/fieldmatch/internal/domain/field"
	"github.com/kailas-cloud/fieldmatch/internal/domain/match"
	logpkg "github.com/kailas-cloud/fieldmatch/internal/logger"
	"github.com/kailas-cloud/fieldmatch/internal/metrics"
	"github.com/kailas-cloud/fieldmatch/internal/repository/targets"
	"github.com/kailas-cloud/fieldmatch/internal/tui"
)

type matchFlags struct {
	handle      string
	label       string
	fieldType   string
	description string
	targets     string
	topK        int
	json        bool
	verbose     bool
}

var matchOpts matchFlags

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find the target fields closest to an input field",
	Long: `Interactive by default: prompts for the target-fields file and the input field.
Pass --handle (with --label and --type) to match without prompts.`,
	Example: `  fieldmatch match
  fieldmatch match --handle salesDescription --label "Sales Description" --type string
  fieldmatch match --handle price --label Price --type number --targets shop.yaml --top-k 5 --json`,
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchOpts.handle, "handle", "", "input field handle (enables non-interactive mode)")
	f.StringVar(&matchOpts.label, "label", "", "input field label")
	f.StringVar(&matchOpts.fieldType, "type", "", "input field type (string/int/number/date/boolean)")
	f.StringVar(&matchOpts.description, "description", "", "input field description (optional)")
	f.StringVar(&matchOpts.targets, "targets", "", "target fields file (default: matching.targets_path)")
	f.IntVar(&matchOpts.topK, "top-k", 0, "number of results (default: matching.top_k)")
	f.BoolVar(&matchOpts.json, "json", false, "print results as JSON (non-interactive only)")
	f.BoolVarP(&matchOpts.verbose, "verbose", "v", false, "log provider calls to stderr")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	level := ""
	if matchOpts.verbose {
		level = "debug"
	}
	logger, err := logpkg.NewLogger("cli", level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(globalConfig, logger)
	if err != nil {
		return err
	}

	topK := resolveTopK(cmd.Flags().Changed("top-k"), matchOpts.topK, globalConfig.Matching.TopK)
	path := matchOpts.targets
	if path == "" {
		path = config.ResolvePath(globalConfig.Matching.TargetsPath)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if matchOpts.handle == "" {
		return runInteractive(ctx, a, path, topK)
	}
	return runOnce(ctx, cmd.OutOrStdout(), a, path, topK)
}

// resolveTopK uses --top-k only when given; the matcher clamps explicit values.
func resolveTopK(flagSet bool, flagValue, configured int) int {
	if flagSet {
		return flagValue
	}
	return configured
}

// runInteractive drives the bubbletea form. Ctrl+C and a missing target file end quietly.
func runInteractive(ctx context.Context, a *app, defaultPath string, topK int) error {
	model := tui.NewFormModel(defaultPath, targets.Load, func(
		mctx context.Context, query field.Field, candidates []field.Field,
	) ([]match.Result, error) {
		return observedMatch(mctx, a, query, candidates, topK)
	})

	p := tea.NewProgram(model, tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}

	final, ok := result.(tui.FormModel)
	if !ok || final.Cancelled() {
		return nil
	}
	if final.Step() == tui.StepFailed {
		return errReported
	}
	return nil
}

// runOnce matches the field given by flags and prints the results.
func runOnce(ctx context.Context, out io.Writer, a *app, path string, topK int) error {
	query, err := field.New(matchOpts.handle, matchOpts.label, matchOpts.fieldType, matchOpts.description)
	if err != nil {
		return fmt.Errorf("input field: %w", err)
	}

	candidates, err := targets.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			_, _ = fmt.Fprintln(out, tui.RenderError("Error: File not found: "+path))
			return nil
		}
		return err //nolint:wrapcheck // LoadError carries the path
	}

	results, err := observedMatch(ctx, a, query, candidates, topK)
	if err != nil {
		return err
	}

	if matchOpts.json {
		return writeJSONResults(out, query, results)
	}

	_, _ = fmt.Fprint(out, tui.Header())
	_, _ = fmt.Fprintf(out, "Loaded %d target fields.\n\n", len(candidates))
	_, _ = fmt.Fprint(out, tui.RenderResults(results))
	return nil
}

// observedMatch runs one match and records its metrics and token usage.
func observedMatch(
	ctx context.Context, a *app, query field.Field, candidates []field.Field, topK int,
) ([]match.Result, error) {
	ctx, usage := domain.NewContextWithUsage(ctx)
	start := time.Now()

	results, err := a.matcher.Match(ctx, query, candidates, topK)

	var top float64
	if len(results) > 0 {
		top = results[0].Score()
	}
	metrics.ObserveMatch("cli", len(candidates), time.Since(start).Seconds(), top, err)

	if err != nil {
		return nil, fmt.Errorf("match %s: %w", query.Handle(), err)
	}

	a.logger.Debug("Match complete",
		zap.String("handle", query.Handle()),
		zap.Int("candidates", len(candidates)),
		zap.Int("embedding_calls", usage.Calls),
		zap.Int("embedding_tokens", usage.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)
	if a.budget != nil {
		a.logger.Debug("Embedding budget",
			zap.Int64("daily_remaining", a.budget.RemainingDaily()),
			zap.Int64("monthly_remaining", a.budget.RemainingMonthly()),
		)
	}
	return results, nil
}

type jsonField struct {
	Handle      string  `json:"fieldHandle"`
	Label       string  `json:"fieldLabel"`
	Type        string  `json:"fieldType"`
	Description *string `json:"fieldDescription,omitempty"`
}

type jsonResult struct {
	Field jsonField `json:"field"`
	Score float64   `json:"score"`
}

type jsonOutput struct {
	Query   jsonField    `json:"query"`
	Results []jsonResult `json:"results"`
}

func toJSONField(f field.Field) jsonField {
	jf := jsonField{Handle: f.Handle(), Label: f.Label(), Type: f.Type()}
	if d, ok := f.Description(); ok {
		jf.Description = &d
	}
	return jf
}

func writeJSONResults(out io.Writer, query field.Field, results []match.Result) error {
	payload := jsonOutput{Query: toJSONField(query), Results: make([]jsonResult, len(results))}
	for i, r := range results {
		payload.Results[i] = jsonResult{Field: toJSONField(r.Field()), Score: r.Score()}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
