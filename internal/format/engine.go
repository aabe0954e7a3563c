package format

import (
	"bytes"
	"encoding/json"
	"errors"
	goformat "go/format"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Formatter maps file content to its formatted form.
type Formatter interface {
	Format(content []byte, opts Options) ([]byte, error)
}

// Engine is the built-in Formatter. It is idempotent: formatting its own
// output returns the same bytes.
type Engine struct{}

// NewEngine creates the built-in formatter.
func NewEngine() *Engine {
	return &Engine{}
}

// sniffLen bounds how much of a file is inspected for binary content.
const sniffLen = 8000

// Format formats content according to opts.Parser. Binary content is
// returned untouched.
func (e *Engine) Format(content []byte, opts Options) ([]byte, error) {
	if isBinary(content) {
		return content, nil
	}

	parser := opts.Parser
	if parser == "" {
		parser = InferParser(opts.FilePath)
	}

	var (
		out []byte
		err error
	)

	switch parser {
	case ParserGo:
		out, err = goformat.Source(content)
	case ParserJSON:
		out, err = formatJSON(content, opts)
	case ParserYAML:
		out, err = formatYAML(content, opts)
	case ParserTOML:
		out, err = formatTOML(content, opts)
	default:
		out = trimLines(content, opts)
	}

	if err != nil {
		return nil, &FormatError{Path: opts.FilePath, Parser: parser, Err: err}
	}

	return finish(out, opts), nil
}

func formatJSON(content []byte, opts Options) ([]byte, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, content); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", opts.indent()); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func formatYAML(content []byte, opts Options) ([]byte, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))

	var out bytes.Buffer

	enc := yaml.NewEncoder(&out)
	enc.SetIndent(max(opts.IndentWidth, 2))

	docs := 0

	for {
		var doc yaml.Node

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		if err := enc.Encode(&doc); err != nil {
			return nil, err
		}

		docs++
	}

	// Comment-only files decode to nothing; keep them as text.
	if docs == 0 {
		return trimLines(content, opts), nil
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// formatTOML rejects malformed documents and otherwise normalizes the text.
// Re-encoding would drop comments and key order.
func formatTOML(content []byte, opts Options) ([]byte, error) {
	var v map[string]any
	if err := toml.Unmarshal(content, &v); err != nil {
		return nil, err
	}

	return trimLines(content, opts), nil
}

// trimLines strips trailing blanks from every line when enabled.
func trimLines(content []byte, opts Options) []byte {
	if !opts.TrimTrailingWhitespace {
		return content
	}

	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return []byte(strings.Join(lines, "\n"))
}

// finish applies the final newline and line ending settings.
func finish(content []byte, opts Options) []byte {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	if opts.InsertFinalNewline && len(text) > 0 {
		text = strings.TrimRight(text, "\n") + "\n"
	}

	if opts.EndOfLine == EndOfLineCRLF {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}

	return []byte(text)
}

func isBinary(content []byte) bool {
	n := min(len(content), sniffLen)
	return bytes.IndexByte(content[:n], 0) >= 0
}
