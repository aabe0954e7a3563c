package format

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optsFor(path string) Options {
	opts := DefaultOptions()
	opts.FilePath = path
	opts.Parser = InferParser(path)

	return opts
}

func TestEngine_Text(t *testing.T) {
	out, err := NewEngine().Format([]byte("hello  \nworld\t\n\n\n"), optsFor("notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(out))
}

func TestEngine_TextWithoutTrimming(t *testing.T) {
	opts := optsFor("notes.md")
	opts.TrimTrailingWhitespace = false
	opts.InsertFinalNewline = false

	out, err := NewEngine().Format([]byte("keep  \nme"), opts)
	require.NoError(t, err)
	assert.Equal(t, "keep  \nme", string(out))
}

func TestEngine_CRLF(t *testing.T) {
	opts := optsFor("a.txt")
	opts.EndOfLine = EndOfLineCRLF

	out, err := NewEngine().Format([]byte("a\nb\r\nc"), opts)
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\nc\r\n", string(out))
}

func TestEngine_JSON(t *testing.T) {
	out, err := NewEngine().Format([]byte(`{"a":1,  "b":[1,2]}`), optsFor("x.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    1,\n    2\n  ]\n}\n", string(out))
}

func TestEngine_JSONTabs(t *testing.T) {
	opts := optsFor("x.json")
	opts.UseTabs = true

	out, err := NewEngine().Format([]byte(`{"a":1}`), opts)
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"a\": 1\n}\n", string(out))
}

func TestEngine_Go(t *testing.T) {
	out, err := NewEngine().Format([]byte("package main\nfunc main(){  }\n"), optsFor("main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "func main() {}")
}

func TestEngine_YAML(t *testing.T) {
	out, err := NewEngine().Format([]byte("a:    1\n# keep\nb: two\n"), optsFor("c.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "a: 1")
	assert.Contains(t, string(out), "# keep")
	assert.Contains(t, string(out), "b: two")
}

func TestEngine_TOML(t *testing.T) {
	out, err := NewEngine().Format([]byte("[server]  \nport = 80\n"), optsFor("c.toml"))
	require.NoError(t, err)
	assert.Equal(t, "[server]\nport = 80\n", string(out))
}

func TestEngine_BinaryPassthrough(t *testing.T) {
	in := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, ' ', ' '}

	out, err := NewEngine().Format(in, optsFor("logo.png"))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEngine_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{"json", "bad.json", `{"a": }`},
		{"yaml", "bad.yaml", "a: [1, 2\n"},
		{"toml", "bad.toml", "a = \n"},
		{"go", "bad.go", "package main\nfunc {\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine().Format([]byte(tt.content), optsFor(tt.path))
			require.Error(t, err)

			var fmtErr *FormatError
			require.True(t, errors.As(err, &fmtErr))
			assert.Equal(t, tt.path, fmtErr.Path)
			assert.Equal(t, tt.name, fmtErr.Parser)
		})
	}
}

func TestEngine_Idempotent(t *testing.T) {
	inputs := map[string]string{
		"a.json": `{"z":[true,null,{"k":"v"}],"a":1.5}`,
		"a.yaml": "list:\n- one\n-   two\nmap: {x: 1}\n",
		"a.go":   "package p\nimport \"fmt\"\nfunc F(){fmt.Println( 1 )}\n",
		"a.txt":  "trailing   \n\n\n",
		"a.toml": "title = \"x\"   \n",
		"noext":  "x",
	}

	e := NewEngine()

	for path, in := range inputs {
		t.Run(path, func(t *testing.T) {
			first, err := e.Format([]byte(in), optsFor(path))
			require.NoError(t, err)

			second, err := e.Format(first, optsFor(path))
			require.NoError(t, err)
			assert.Equal(t, string(first), string(second))
		})
	}
}

func TestInferParser(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", ParserGo},
		{"package.json", ParserJSON},
		{"a.YAML", ParserYAML},
		{"a.yml", ParserYAML},
		{"Cargo.toml", ParserTOML},
		{"README.md", ParserText},
		{"Makefile", ParserText},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, InferParser(tt.path))
		})
	}
}
