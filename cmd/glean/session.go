package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"glean/internal/config"
	"glean/internal/prof"
)

// startSession sets up tracing and profiling for a command. The returned
// cleanup must run before the command returns.
func startSession(cmd *cobra.Command) (func(), error) {
	stopTrace, err := setupTracing(cmd)
	if err != nil {
		return nil, err
	}
	stopProf, err := setupProfiling(cmd)
	if err != nil {
		stopTrace()
		return nil, err
	}
	return func() {
		stopProf()
		stopTrace()
	}, nil
}

func setupProfiling(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return nil, err
	}
	if opts.Mem, err = pf.GetString("mem-profile"); err != nil {
		return nil, err
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return nil, err
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}

// loadConfig reads --config or discovers glean.toml from the working
// directory.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	return config.Discover(wd)
}

// splitList разбирает "a,b , c" в срез без пустых элементов.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// normalizeExtensions adds the leading dot and lowercases.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// useColor resolves --color, falling back to [output].color.
func useColor(cmd *cobra.Command, cfg config.Config) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	if mode == "" {
		mode = cfg.Output.Color
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func maxDiagnostics(cmd *cobra.Command, cfg config.Config) (int, error) {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return n, nil
	}
	return cfg.Output.MaxDiagnostics, nil
}
