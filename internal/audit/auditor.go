// Package audit orchestrates the ModelCheck pipeline from CSV inputs to
// written reports.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/modelcheck/internal/config"
	"github.com/dbsmedya/modelcheck/internal/dupes"
	"github.com/dbsmedya/modelcheck/internal/inventory"
	"github.com/dbsmedya/modelcheck/internal/logger"
	"github.com/dbsmedya/modelcheck/internal/matcher"
	"github.com/dbsmedya/modelcheck/internal/reference"
	"github.com/dbsmedya/modelcheck/internal/report"
	"github.com/dbsmedya/modelcheck/internal/verifier"
)

// Result contains statistics and status of one audit run.
type Result struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration

	Inventory   *inventory.LoadResult
	References  *reference.LoadResult
	Match       *matcher.Result
	Duplicates  *dupes.Result
	Suggestions []matcher.Suggestion
	Summary     *report.Summary

	Verification []verifier.VerifyResult
	VerifyStats  *verifier.VerifyStats

	Outcomes []report.Outcome
	Errors   []error
	Success  bool
}

// Auditor coordinates loading, matching, duplicate detection and report
// writing for one run.
type Auditor struct {
	config *config.Config
	logger *logger.Logger
	writer *report.Writer
}

// NewAuditor creates an auditor from configuration.
func NewAuditor(cfg *config.Config, log *logger.Logger) (*Auditor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Auditor{
		config: cfg,
		logger: log,
		writer: report.NewWriter(cfg.Reports.OutputDir, log),
	}, nil
}

// Writer returns the report writer, whose output directory must exist
// before a run starts.
func (a *Auditor) Writer() *report.Writer {
	return a.writer
}

// Run executes the full audit: load both CSV inputs, cross-reference
// them, detect duplicates and write every report. Load failures are
// fatal; report write failures are collected per file so the remaining
// reports still land.
func (a *Auditor) Run(ctx context.Context, inventoryPath, referencesPath string) (*Result, error) {
	result := a.newResult()
	log := a.logger.WithRun(result.RunID)

	log.Infow("Starting audit run",
		"inventory", inventoryPath,
		"references", referencesPath,
		"fuzzy", a.config.Matching.Fuzzy,
	)

	inv, err := inventory.NewLoader(log).Load(inventoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	result.Inventory = inv

	refs, err := reference.NewLoader(log).Load(referencesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load references: %w", err)
	}
	result.References = refs

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("audit interrupted: %w", err)
	}

	result.Match = matcher.NewMatcher(a.config.Matching.Fuzzy, log).Match(inv.Records, refs.Records)

	if a.config.Matching.Suggestions && len(result.Match.Missing) > 0 {
		result.Suggestions = matcher.Suggestions(result.Match.Missing, inv.Records, a.config.Matching.MaxSuggestions)
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("audit interrupted: %w", err)
	}

	result.Duplicates = dupes.NewDetector(log).Detect(inv.Records)

	result.Summary = report.BuildSummary(result.RunID, inv, refs, result.Match, result.Duplicates,
		a.config.Reports.TopDuplicates, result.Suggestions)

	a.record(result,
		a.writer.MissingModels(result.Match.Missing),
		a.writer.UnusedModels(result.Match.Unused),
		a.writer.UsedModels(result.Match.Used),
		a.writer.ExactDuplicates(result.Duplicates.Exact),
		a.writer.NameDuplicates(result.Duplicates.ByName),
		a.writer.SizeDuplicates(result.Duplicates.BySize),
		a.writer.Summary(result.Summary),
	)

	a.finalize(result, log)
	return result, nil
}

// DupesOnly executes the duplicate half of the pipeline: load the
// inventory, group duplicates and write the three duplicate reports.
// With verify set, every exact group's files are hashed to confirm the
// copies really match.
func (a *Auditor) DupesOnly(ctx context.Context, inventoryPath string, verify bool) (*Result, error) {
	result := a.newResult()
	log := a.logger.WithRun(result.RunID)

	log.Infow("Starting duplicate scan", "inventory", inventoryPath, "verify", verify)

	inv, err := inventory.NewLoader(log).Load(inventoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	result.Inventory = inv

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("audit interrupted: %w", err)
	}

	result.Duplicates = dupes.NewDetector(log).Detect(inv.Records)

	if verify {
		results, stats, err := verifier.NewVerifier(log).Verify(ctx, result.Duplicates.Exact)
		if err != nil {
			return result, err
		}
		result.Verification = results
		result.VerifyStats = stats
	}

	a.record(result,
		a.writer.ExactDuplicates(result.Duplicates.Exact),
		a.writer.NameDuplicates(result.Duplicates.ByName),
		a.writer.SizeDuplicates(result.Duplicates.BySize),
	)

	a.finalize(result, log)
	return result, nil
}

func (a *Auditor) newResult() *Result {
	return &Result{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Errors:    make([]error, 0),
		Success:   false,
	}
}

// record collects report outcomes, keeping write failures as run errors
// without stopping the remaining reports.
func (a *Auditor) record(result *Result, outcomes ...report.Outcome) {
	for _, o := range outcomes {
		result.Outcomes = append(result.Outcomes, o)
		if o.Err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to write %s: %w", o.Name, o.Err))
		}
	}
}

func (a *Auditor) finalize(result *Result, log *logger.Logger) {
	result.Success = len(result.Errors) == 0
	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)

	log.Infow("Audit run completed",
		"duration", result.Duration,
		"success", result.Success,
		"reports", len(result.Outcomes),
		"report_errors", len(result.Errors),
	)
}
