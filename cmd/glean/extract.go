package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glean/internal/diagfmt"
	"glean/internal/driver"
	"glean/internal/observ"
	"glean/internal/textcontent"
)

func newExtractCmd() *cobra.Command {
	var (
		format  string
		domains string
		tokens  bool
		full    bool
	)
	cmd := &cobra.Command{
		Use:   "extract [flags] <path...>",
		Short: "Print the text glean would check",
		Long: `Print every extracted content with its domain and file range. Unknown
fragments (interpolations and other opaque material) are shown as '|'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer dumpTraceOnPanic()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if domains != "" {
				cfg.Check.Domains = splitList(domains)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			color, err := useColor(cmd, cfg)
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
			res, err := driver.Check(cmd.Context(), driver.Request{
				Paths:       args,
				Config:      cfg,
				Jobs:        cfg.Check.Jobs,
				ExtractOnly: true,
				Timer:       timer,
			})
			if err != nil {
				return err
			}

			var contents []*textcontent.Content
			for _, f := range res.Files {
				contents = append(contents, f.Contents...)
			}
			pathMode := diagfmt.PathModeAuto
			if full {
				pathMode = diagfmt.PathModeAbsolute
			}
			opts := diagfmt.ContentOpts{PathMode: pathMode, ShowTokens: tokens, Color: color}
			out := cmd.OutOrStdout()
			switch format {
			case "pretty":
				err = diagfmt.ContentsPretty(out, contents, res.FileSet, opts)
			case "json":
				err = diagfmt.ContentsJSON(out, contents, res.FileSet, opts)
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
			if err != nil {
				return err
			}

			// ошибки загрузки и лексера идут в stderr
			bag := res.Bag(0)
			if bag.Len() > 0 {
				if err := diagfmt.Short(cmd.ErrOrStderr(), bag, res.FileSet, false); err != nil {
					return err
				}
			}
			if showTimings {
				fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
			}
			if bag.HasErrors() {
				return exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().StringVar(&domains, "domains", "", "comma-separated domains to extract")
	cmd.Flags().BoolVar(&tokens, "tokens", false, "also print the token stream of each content")
	cmd.Flags().BoolVar(&full, "fullpath", false, "emit absolute file paths")
	return cmd
}
