package format

import (
	"fmt"
	"time"

	sigsyaml "sigs.k8s.io/yaml"
)

// Config is the formatter section of the configuration file.
type Config struct {
	// Defaults are applied to every file before overrides.
	Defaults Settings `json:"defaults,omitempty"`

	// Overrides apply settings to files matching glob patterns.
	Overrides []Override `json:"overrides,omitempty"`

	// Command runs an external formatter instead of the built-in engine.
	// The placeholder {path} is replaced with the file path.
	Command []string `json:"command,omitempty"`

	// Timeout bounds each external formatter invocation.
	Timeout string `json:"timeout,omitempty"`
}

// Override applies Options to files matching any of Files.
type Override struct {
	Files   []string `json:"files"`
	Options Settings `json:"options"`
}

// Settings is a partial Options: only fields that are set are applied.
type Settings struct {
	Parser                 *string `json:"parser,omitempty"`
	IndentWidth            *int    `json:"indentWidth,omitempty"`
	UseTabs                *bool   `json:"useTabs,omitempty"`
	EndOfLine              *string `json:"endOfLine,omitempty"`
	TrimTrailingWhitespace *bool   `json:"trimTrailingWhitespace,omitempty"`
	InsertFinalNewline     *bool   `json:"insertFinalNewline,omitempty"`
}

func (s Settings) apply(o *Options) {
	if s.Parser != nil {
		o.Parser = *s.Parser
	}

	if s.IndentWidth != nil {
		o.IndentWidth = *s.IndentWidth
	}

	if s.UseTabs != nil {
		o.UseTabs = *s.UseTabs
	}

	if s.EndOfLine != nil {
		o.EndOfLine = *s.EndOfLine
	}

	if s.TrimTrailingWhitespace != nil {
		o.TrimTrailingWhitespace = *s.TrimTrailingWhitespace
	}

	if s.InsertFinalNewline != nil {
		o.InsertFinalNewline = *s.InsertFinalNewline
	}
}

// ParseConfig extracts the formatter section from raw config file bytes.
// A file without the section yields an empty Config.
func ParseConfig(data []byte) (*Config, error) {
	var raw struct {
		Formatter Config `json:"formatter,omitempty"`
	}

	if err := sigsyaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing formatter config: %w", err)
	}

	cfg := raw.Formatter
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the formatter config for correctness.
func (c *Config) Validate() error {
	if err := c.Defaults.validate("defaults"); err != nil {
		return err
	}

	for i, o := range c.Overrides {
		if len(o.Files) == 0 {
			return fmt.Errorf("overrides[%d]: files is required", i)
		}

		if err := o.Options.validate(fmt.Sprintf("overrides[%d]", i)); err != nil {
			return err
		}
	}

	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
	}

	return nil
}

func (s Settings) validate(where string) error {
	if s.Parser != nil && !validParser(*s.Parser) {
		return fmt.Errorf("%s: invalid parser %q (must be go, json, yaml, toml, or text)", where, *s.Parser)
	}

	if s.IndentWidth != nil && *s.IndentWidth < 0 {
		return fmt.Errorf("%s: indentWidth must not be negative", where)
	}

	if s.EndOfLine != nil && *s.EndOfLine != EndOfLineLF && *s.EndOfLine != EndOfLineCRLF {
		return fmt.Errorf("%s: invalid endOfLine %q (must be lf or crlf)", where, *s.EndOfLine)
	}

	return nil
}

// BaseOptions returns DefaultOptions with the configured defaults applied.
func (c *Config) BaseOptions() Options {
	opts := DefaultOptions()
	c.Defaults.apply(&opts)

	return opts
}

// IsEmpty reports whether the section configures nothing.
func (c *Config) IsEmpty() bool {
	return c.Defaults == (Settings{}) && len(c.Overrides) == 0 && len(c.Command) == 0
}

// NewFormatter returns the Command formatter when a command is configured,
// and the built-in Engine otherwise.
func (c *Config) NewFormatter() Formatter {
	if len(c.Command) == 0 {
		return NewEngine()
	}

	cmd := &Command{Args: c.Command}
	if d, err := time.ParseDuration(c.Timeout); err == nil {
		cmd.Timeout = d
	}

	return cmd
}
