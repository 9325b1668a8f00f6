// Package config loads and saves the glean.toml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"glean/internal/check"
	"glean/internal/diag"
	"glean/internal/textcontent"
)

// FileName is the project file looked up by Find.
const FileName = "glean.toml"

// ErrUnknownKey reports keys in glean.toml that no section understands.
var ErrUnknownKey = errors.New("unknown key")

// Config mirrors glean.toml.
type Config struct {
	Check  CheckConfig           `toml:"check"`
	Rules  map[string]RuleConfig `toml:"rules"`
	Typos  TyposConfig           `toml:"typos"`
	Output OutputConfig          `toml:"output"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

// CheckConfig is the [check] section.
type CheckConfig struct {
	Domains         []string `toml:"domains"`
	Rules           []string `toml:"rules"`
	Exclude         []string `toml:"exclude"`
	Extensions      []string `toml:"extensions"`
	MinLiteralWords int      `toml:"min_literal_words"`
	Jobs            int      `toml:"jobs"`
}

// RuleConfig is one [rules.<id>] table.
type RuleConfig struct {
	Severity string `toml:"severity,omitempty"`
	Enabled  *bool  `toml:"enabled,omitempty"`
}

// TyposConfig is the [typos] section. An empty correction disables a
// built-in entry.
type TyposConfig struct {
	Words map[string]string `toml:"words"`
}

// OutputConfig is the [output] section.
type OutputConfig struct {
	Format         string `toml:"format"`
	Color          string `toml:"color"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

// DefaultExtensions are the file extensions checked when [check].extensions
// is empty.
var DefaultExtensions = []string{
	".go", ".rs", ".c", ".h", ".cc", ".cpp", ".hpp", ".java", ".kt",
	".swift", ".js", ".ts", ".md", ".markdown", ".txt",
}

var (
	formats = []string{"pretty", "short", "json", "sarif"}
	colors  = []string{"auto", "on", "off"}
)

// Default returns the configuration used when no glean.toml exists.
func Default() Config {
	return Config{
		Check: CheckConfig{
			Domains:         []string{"comments", "docs", "literals", "plain"},
			Exclude:         []string{".git/**", "vendor/**", "node_modules/**", "_*/**"},
			Extensions:      slices.Clone(DefaultExtensions),
			MinLiteralWords: 2,
		},
		Rules:  map[string]RuleConfig{},
		Typos:  TyposConfig{Words: map[string]string{}},
		Output: OutputConfig{Format: "pretty", Color: "auto", MaxDiagnostics: 1000},
	}
}

// Find walks up from startDir to locate glean.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Root returns the directory holding the loaded glean.toml, or "" for
// defaults.
func (c Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Load decodes path over the defaults. Keys absent from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	// явно пустой список расширений считается ошибкой, а не «по умолчанию»
	if meta.IsDefined("check", "extensions") && len(cfg.Check.Extensions) == 0 {
		return Config{}, fmt.Errorf("%s: [check].extensions must not be empty", path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds glean.toml above startDir and loads it. Without a file the
// defaults are returned.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks values that TOML decoding cannot.
func (c Config) Validate() error {
	if _, err := c.Domains(); err != nil {
		return err
	}
	if _, err := c.CheckSettings(); err != nil {
		return err
	}
	for _, pattern := range c.Check.Exclude {
		if _, err := path.Match(strings.ReplaceAll(pattern, "**", "*"), ""); err != nil {
			return fmt.Errorf("[check].exclude: bad pattern %q: %w", pattern, err)
		}
	}
	for _, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("[check].extensions: %q must start with a dot", ext)
		}
	}
	if c.Check.MinLiteralWords < 0 || c.Check.Jobs < 0 {
		return errors.New("[check]: min_literal_words and jobs must not be negative")
	}
	if c.Output.Format != "" && !slices.Contains(formats, c.Output.Format) {
		return fmt.Errorf("[output].format: %q is not one of %s", c.Output.Format, strings.Join(formats, ", "))
	}
	if c.Output.Color != "" && !slices.Contains(colors, c.Output.Color) {
		return fmt.Errorf("[output].color: %q is not one of %s", c.Output.Color, strings.Join(colors, ", "))
	}
	return nil
}

// Domains parses [check].domains. An empty list selects every domain.
func (c Config) Domains() ([]textcontent.Domain, error) {
	out := make([]textcontent.Domain, 0, len(c.Check.Domains))
	for _, name := range c.Check.Domains {
		d, err := textcontent.ParseDomain(name)
		if err != nil {
			return nil, fmt.Errorf("[check].domains: %w", err)
		}
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// CheckSettings converts [check].rules, [rules.*] and [typos] into rule
// settings.
func (c Config) CheckSettings() (check.Settings, error) {
	s := check.Settings{
		Enabled:  slices.Clone(c.Check.Rules),
		Severity: map[string]diag.Severity{},
		Typos:    c.Typos.Words,
	}
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		rc := c.Rules[id]
		if !slices.Contains(check.RuleIDs(), id) {
			return check.Settings{}, fmt.Errorf("[rules.%s]: unknown rule", id)
		}
		if rc.Enabled != nil && !*rc.Enabled {
			s.Disabled = append(s.Disabled, id)
		}
		if rc.Severity != "" {
			sev, err := diag.ParseSeverity(rc.Severity)
			if err != nil {
				return check.Settings{}, fmt.Errorf("[rules.%s].severity: %w", id, err)
			}
			s.Severity[id] = sev
		}
	}
	for _, id := range s.Enabled {
		if !slices.Contains(check.RuleIDs(), id) {
			return check.Settings{}, fmt.Errorf("[check].rules: unknown rule %q", id)
		}
	}
	return s, nil
}

// Encode renders the config as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the config to path, replacing an existing file.
func (c Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
