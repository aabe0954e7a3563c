package format

import (
	"path/filepath"
	"strings"
)

// Supported parsers.
const (
	ParserGo   = "go"
	ParserJSON = "json"
	ParserYAML = "yaml"
	ParserTOML = "toml"
	ParserText = "text"
)

// Supported line endings.
const (
	EndOfLineLF   = "lf"
	EndOfLineCRLF = "crlf"
)

// Options are the per-file formatting options handed to a Formatter.
type Options struct {
	// FilePath is the file being formatted.
	FilePath string `json:"-"`

	// Parser selects the formatting strategy. Empty means infer from the
	// file extension.
	Parser string `json:"parser,omitempty"`

	// IndentWidth is the number of spaces per indentation level.
	IndentWidth int `json:"indentWidth,omitempty"`

	// UseTabs indents with tabs instead of spaces where the parser
	// re-indents (JSON).
	UseTabs bool `json:"useTabs,omitempty"`

	// EndOfLine is lf or crlf.
	EndOfLine string `json:"endOfLine,omitempty"`

	// TrimTrailingWhitespace strips trailing blanks from text lines.
	TrimTrailingWhitespace bool `json:"trimTrailingWhitespace,omitempty"`

	// InsertFinalNewline ensures non-empty output ends with a newline.
	InsertFinalNewline bool `json:"insertFinalNewline,omitempty"`
}

// DefaultOptions returns the base options every file starts from.
func DefaultOptions() Options {
	return Options{
		IndentWidth:            2,
		EndOfLine:              EndOfLineLF,
		TrimTrailingWhitespace: true,
		InsertFinalNewline:     true,
	}
}

// indent returns the indentation unit for re-indenting parsers.
func (o Options) indent() string {
	if o.UseTabs {
		return "\t"
	}

	width := o.IndentWidth
	if width <= 0 {
		width = 2
	}

	return strings.Repeat(" ", width)
}

var parsersByExt = map[string]string{
	".go":   ParserGo,
	".json": ParserJSON,
	".yaml": ParserYAML,
	".yml":  ParserYAML,
	".toml": ParserTOML,
}

// InferParser returns the parser for path based on its extension, falling
// back to plain text.
func InferParser(path string) string {
	if p, ok := parsersByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return p
	}

	return ParserText
}

func validParser(p string) bool {
	switch p {
	case ParserGo, ParserJSON, ParserYAML, ParserTOML, ParserText:
		return true
	}

	return false
}
