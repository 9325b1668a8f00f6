package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"glean/internal/config"
	"glean/internal/diag"
	"glean/internal/diagfmt"
	"glean/internal/driver"
	"glean/internal/observ"
	"glean/internal/version"
)

type checkFlags struct {
	format           string
	domains          string
	rules            string
	extensions       string
	exclude          []string
	jobs             int
	ui               string
	diskCache        bool
	noWarnings       bool
	warningsAsErrors bool
	withNotes        bool
	suggest          bool
	preview          bool
	fullPath         bool
}

func newCheckCmd() *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "check [flags] [path...]",
		Short: "Check prose in files and directories",
		Long: `Extract comments, documentation, string literals and text from the given
files or directories (default: the current directory) and report prose
problems. Exits with status 1 when errors are reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, &f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.format, "format", "", "output format (pretty|short|json|sarif); overrides [output].format")
	fl.StringVar(&f.domains, "domains", "", "comma-separated domains to check (plain,comments,docs,literals)")
	fl.StringVar(&f.rules, "rules", "", "comma-separated rule ids to run (default: all)")
	fl.StringVar(&f.extensions, "ext", "", "comma-separated file extensions to include")
	fl.StringArrayVar(&f.exclude, "exclude", nil, "additional exclude glob (repeatable)")
	fl.IntVar(&f.jobs, "jobs", 0, "max parallel workers (0 = [check].jobs or GOMAXPROCS)")
	fl.StringVar(&f.ui, "ui", "auto", "progress UI (auto|on|off)")
	fl.BoolVar(&f.diskCache, "disk-cache", false, "reuse results of unchanged files from the user cache directory")
	fl.BoolVar(&f.noWarnings, "no-warnings", false, "drop warnings and infos from the output")
	fl.BoolVar(&f.warningsAsErrors, "warnings-as-errors", false, "treat warnings as errors")
	fl.BoolVar(&f.withNotes, "with-notes", false, "include diagnostic notes in output")
	fl.BoolVar(&f.suggest, "suggest", false, "include fix suggestions in output")
	fl.BoolVar(&f.preview, "preview", false, "show a preview of each fix (implies --suggest)")
	fl.BoolVar(&f.fullPath, "fullpath", false, "emit absolute file paths in output")
	return cmd
}

// applyCheckFlags folds command-line overrides into cfg.
func applyCheckFlags(cfg *config.Config, f *checkFlags) error {
	if f.noWarnings && f.warningsAsErrors {
		return fmt.Errorf("--no-warnings and --warnings-as-errors cannot be used together")
	}
	if f.domains != "" {
		cfg.Check.Domains = splitList(f.domains)
	}
	if f.rules != "" {
		cfg.Check.Rules = splitList(f.rules)
	}
	if f.extensions != "" {
		cfg.Check.Extensions = normalizeExtensions(splitList(f.extensions))
	}
	cfg.Check.Exclude = append(cfg.Check.Exclude, f.exclude...)
	if f.jobs > 0 {
		cfg.Check.Jobs = f.jobs
	}
	if f.format != "" {
		cfg.Output.Format = f.format
	}
	return cfg.Validate()
}

// adjustSeverities applies --no-warnings and --warnings-as-errors to bag.
func adjustSeverities(bag *diag.Bag, noWarnings, warningsAsErrors bool) {
	switch {
	case noWarnings:
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity >= diag.SevError })
	case warningsAsErrors:
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
}

func runCheck(cmd *cobra.Command, args []string, f *checkFlags) error {
	defer dumpTraceOnPanic()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyCheckFlags(&cfg, f); err != nil {
		return err
	}
	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}
	limit, err := maxDiagnostics(cmd, cfg)
	if err != nil {
		return err
	}
	color, err := useColor(cmd, cfg)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	cleanup, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	timer := observ.NewTimer()
	req := driver.Request{
		Paths:   args,
		Config:  cfg,
		Jobs:    cfg.Check.Jobs,
		Timer:   timer,
		Version: version.Version,
	}
	if f.diskCache {
		if req.Cache, err = driver.OpenDiskCache("glean"); err != nil {
			return fmt.Errorf("open disk cache: %w", err)
		}
	}

	var res *driver.Result
	if !quiet && shouldUseTUI(mode, cfg.Output.Format) {
		res, err = runCheckWithUI(cmd.Context(), "glean check", req)
	} else {
		res, err = driver.Check(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	bag := res.Bag(limit)
	adjustSeverities(bag, f.noWarnings, f.warningsAsErrors)

	machine := cfg.Output.Format == "json" || cfg.Output.Format == "sarif"
	if showTimings && machine {
		driver.AppendTimings(bag, "check", timer.Report())
	}

	idx := timer.Begin("render")
	err = renderDiagnostics(cmd.OutOrStdout(), bag, res, renderOptions{
		format:    cfg.Output.Format,
		color:     color,
		fullPath:  f.fullPath,
		withNotes: f.withNotes,
		suggest:   f.suggest || f.preview,
		preview:   f.preview,
		limit:     limit,
		args:      os.Args,
	})
	timer.End(idx, "")
	if err != nil {
		return err
	}
	if showTimings && !machine {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if !quiet && cfg.Output.Format == "pretty" {
		printCheckSummary(cmd.ErrOrStderr(), res.Stats, bag)
	}
	if bag.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}

type renderOptions struct {
	format    string
	color     bool
	fullPath  bool
	withNotes bool
	suggest   bool
	preview   bool
	limit     int
	args      []string
}

func renderDiagnostics(w io.Writer, bag *diag.Bag, res *driver.Result, o renderOptions) error {
	pathMode := diagfmt.PathModeAuto
	if o.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch o.format {
	case "", "pretty":
		return diagfmt.Pretty(w, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       o.color,
			Context:     1,
			PathMode:    pathMode,
			ShowNotes:   o.withNotes,
			ShowFixes:   o.suggest,
			ShowPreview: o.preview,
		})
	case "short":
		return diagfmt.Short(w, bag, res.FileSet, o.withNotes)
	case "json":
		return diagfmt.JSON(w, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              o.limit,
			IncludeNotes:     o.withNotes,
			IncludeFixes:     o.suggest,
			IncludePreviews:  o.preview,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "glean",
			ToolVersion:    version.Version,
			InvocationArgs: o.args,
		})
	default:
		return fmt.Errorf("unknown format: %s", o.format)
	}
}

func printCheckSummary(w io.Writer, st driver.Stats, bag *diag.Bag) {
	var parts []string
	plural := func(n int, word string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, word)
		}
		return fmt.Sprintf("%d %ss", n, word)
	}
	if n := bag.Count(diag.SevError); n > 0 {
		parts = append(parts, plural(n, "error"))
	}
	if n := bag.Count(diag.SevWarning); n > 0 {
		parts = append(parts, plural(n, "warning"))
	}
	if len(parts) == 0 {
		parts = append(parts, "no problems")
	}
	line := fmt.Sprintf("%s in %s (%s)", strings.Join(parts, ", "), plural(st.Files, "file"), plural(st.Contents, "content"))
	if st.CacheHits > 0 {
		line += fmt.Sprintf(", %d cached", st.CacheHits)
	}
	fmt.Fprintln(w, line)
}
