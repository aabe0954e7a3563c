package rewrite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	sigsyaml "sigs.k8s.io/yaml"
)

// Document formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// DetectFormat returns FormatJSON for .json files and FormatYAML otherwise.
func DetectFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}

	return FormatYAML
}

// Load parses a JSON or YAML host configuration into a generic map.
func Load(data []byte) (map[string]any, error) {
	var cfg map[string]any

	if err := sigsyaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing host configuration: %w", err)
	}

	if cfg == nil {
		cfg = make(map[string]any)
	}

	return cfg, nil
}

// Marshal serializes cfg with deterministic key order and a trailing
// newline.
func Marshal(cfg map[string]any, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		raw, err := json.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("serializing JSON: %w", err)
		}

		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("formatting JSON: %w", err)
		}

		buf.WriteByte('\n')

		return buf.Bytes(), nil
	case FormatYAML, "":
		out, err := sigsyaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("serializing YAML: %w", err)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
