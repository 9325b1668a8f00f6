package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"glean/internal/diag"
	"glean/internal/driver"
	"glean/internal/fix"
)

func newFixCmd() *cobra.Command {
	var (
		all    bool
		code   string
		dryRun bool
		rules  string
	)
	cmd := &cobra.Command{
		Use:   "fix [flags] [path...]",
		Short: "Apply suggested fixes",
		Long: `Check the given paths and apply the attached fixes. By default only the
first fix is applied; --all applies every non-overlapping fix and --code
restricts fixes to one diagnostic code (e.g. PRS3002 or 3002).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer dumpTraceOnPanic()

			if all && code != "" {
				return fmt.Errorf("--all and --code are mutually exclusive")
			}
			opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, DryRun: dryRun}
			switch {
			case code != "":
				c, ok := diag.ParseCode(code)
				if !ok {
					return fmt.Errorf("unknown diagnostic code %q", code)
				}
				opts.Mode, opts.Code = fix.ApplyModeCode, c
			case all:
				opts.Mode = fix.ApplyModeAll
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if rules != "" {
				cfg.Check.Rules = splitList(rules)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			cleanup, err := startSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := driver.Check(cmd.Context(), driver.Request{Paths: args, Config: cfg, Jobs: cfg.Check.Jobs})
			if err != nil {
				return err
			}
			var items []diag.Diagnostic
			for _, f := range res.Files {
				items = append(items, f.Bag.Items()...)
			}
			applied, applyErr := fix.Apply(res.FileSet, items, opts)
			return reportApply(cmd.OutOrStdout(), applied, applyErr, dryRun)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "apply every non-overlapping fix")
	cmd.Flags().StringVar(&code, "code", "", "apply fixes of one diagnostic code")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing files")
	cmd.Flags().StringVar(&rules, "rules", "", "comma-separated rule ids to run")
	return cmd
}

func reportApply(w io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if errors.Is(applyErr, fix.ErrNoFixes) {
		fmt.Fprintln(w, "no applicable fixes")
		applyErr = nil
	}
	if res == nil {
		return applyErr
	}
	verb := "applied"
	if dryRun {
		verb = "would apply"
	}
	for _, a := range res.Applied {
		fmt.Fprintf(w, "%s %s %s: %s (%s)\n", verb, a.ID, a.Code.ID(), a.Title, a.PrimaryPath)
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", s.ID, s.Reason)
	}
	if n := len(res.FileChanges); n > 0 {
		if dryRun {
			fmt.Fprintf(w, "%d file(s) would change\n", n)
		} else {
			fmt.Fprintf(w, "%d file(s) changed\n", n)
		}
	}
	return applyErr
}
