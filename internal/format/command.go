package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// pathPlaceholder is replaced with the file path in command arguments.
const pathPlaceholder = "{path}"

// defaultCommandTimeout bounds an external formatter run when no timeout is
// configured.
const defaultCommandTimeout = 30 * time.Second

// Command is a Formatter that pipes content through an external program,
// e.g. ["npx", "prettier", "--stdin-filepath", "{path}"]. The program reads
// the content on stdin and writes the formatted content to stdout.
type Command struct {
	Args    []string
	Timeout time.Duration
}

// Format runs the command. A non-zero exit status is reported as a
// FormatError carrying the program's stderr.
func (c *Command) Format(content []byte, opts Options) ([]byte, error) {
	if len(c.Args) == 0 {
		return nil, errors.New("formatter command is empty")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = strings.ReplaceAll(a, pathPlaceholder, opts.FilePath)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec

	var stdout, stderr bytes.Buffer

	cmd.Stdin = bytes.NewReader(content)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = exitErr.Error()
			}

			return nil, &FormatError{Path: opts.FilePath, Parser: args[0], Err: errors.New(msg)}
		}

		return nil, fmt.Errorf("running formatter %s: %w", args[0], err)
	}

	return stdout.Bytes(), nil
}
