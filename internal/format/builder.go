package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// OptionBuilder resolves the options for a single file, starting from base.
type OptionBuilder interface {
	Build(filePath string, base Options) (Options, error)
}

// Builder infers the parser from the file extension and applies the
// configured overrides whose patterns match the file.
type Builder struct {
	overrides []compiledOverride
}

type compiledOverride struct {
	globs    []glob.Glob
	settings Settings
}

// NewBuilder compiles the override patterns. Patterns without a slash match
// the base name; patterns with one match the slash-separated path.
func NewBuilder(overrides []Override) (*Builder, error) {
	b := &Builder{}

	for i, o := range overrides {
		co := compiledOverride{settings: o.Options}

		for _, pattern := range o.Files {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, fmt.Errorf("override[%d]: compiling pattern %q: %w", i, pattern, err)
			}

			co.globs = append(co.globs, g)
		}

		b.overrides = append(b.overrides, co)
	}

	return b, nil
}

// Build returns base with FilePath set, the parser inferred when base does
// not name one, and every matching override applied in declaration order.
func (b *Builder) Build(filePath string, base Options) (Options, error) {
	opts := base
	opts.FilePath = filePath

	for _, o := range b.overrides {
		if o.matches(filePath) {
			o.settings.apply(&opts)
		}
	}

	if opts.Parser == "" {
		opts.Parser = InferParser(filePath)
	}

	if !validParser(opts.Parser) {
		return Options{}, fmt.Errorf("resolving options for %s: unknown parser %q", filePath, opts.Parser)
	}

	return opts, nil
}

func (o compiledOverride) matches(filePath string) bool {
	slashed := filepath.ToSlash(filePath)
	base := filepath.Base(filePath)

	for _, g := range o.globs {
		if g.Match(base) || g.Match(slashed) || g.Match(strings.TrimPrefix(slashed, "/")) {
			return true
		}
	}

	return false
}
