package rewrite

import (
	"log/slog"

	"github.com/hupe1980/shadowfmt/internal/shadowpath"
)

// NodeModulesGlob is always ignored by the host watcher.
const NodeModulesGlob = "**/node_modules"

// Rewriter translates the path-bearing parts of a host configuration.
type Rewriter struct {
	translator *shadowpath.Translator
	logger     *slog.Logger
}

// New creates a Rewriter. A nil logger falls back to slog.Default().
func New(translator *shadowpath.Translator, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Rewriter{translator: translator, logger: logger}
}

// Rewrite mutates cfg in place and returns it:
//
//   - entry is mapped through the translator;
//   - resolve.alias is mapped through the translator;
//   - watchOptions.ignored becomes [source, "**/node_modules"].
//
// Absent entry or resolve.alias keys stay absent. watchOptions is created
// when missing. In build-once mode the mapping is the identity.
func (r *Rewriter) Rewrite(cfg map[string]any) map[string]any {
	if cfg == nil {
		cfg = make(map[string]any)
	}

	tr := r.translator.Pinned()

	if entry, ok := cfg["entry"]; ok {
		cfg["entry"] = tr.Map(entry)
	}

	if resolve, ok := cfg["resolve"].(map[string]any); ok {
		if alias, ok := resolve["alias"]; ok {
			resolve["alias"] = tr.Map(alias)
		}
	}

	watchOptions, ok := cfg["watchOptions"].(map[string]any)
	if !ok {
		watchOptions = make(map[string]any)
		cfg["watchOptions"] = watchOptions
	}

	watchOptions["ignored"] = []any{tr.Source(), NodeModulesGlob}

	r.logger.Debug("host configuration rewritten",
		slog.Bool("watching", tr.Watching()),
		slog.String("source", tr.Source()),
		slog.String("cache", tr.Cache()),
	)

	return cfg
}
