package repl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tpp/lang"
	"github.com/ardnew/tpp/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It writes the last template to
// a temp file, opens the user's editor on it and renders the result with
// the REPL's variables.
type editCommand struct {
	ctxFunc func() context.Context
	vars    lang.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	source string // in: template to edit; out: edited template
	output string
	prints string
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run opens the editor and renders the edited template.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "tpp-repl-*.tpp")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	_, err = f.WriteString(c.source)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
		return err
	}

	source, err := lang.ReadFile(path)
	if err != nil {
		return err
	}

	c.source = source
	if strings.TrimSpace(source) == "" {
		return nil
	}

	var prints strings.Builder

	c.output, err = lang.Preprocess(ctx, source, c.vars,
		lang.WithLogger(c.logger),
		lang.WithPrintSink(&prints))
	c.prints = prints.String()

	c.logger.TraceContext(ctx, "editor render attempt",
		slog.Int("content_length", len(source)),
		slog.Bool("success", err == nil))

	return err
}

// edit returns a command running the editor for the current template.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		vars:    m.vars,
		logger:  m.logger,
		source:  m.template,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if err != nil {
			return editErrorMsg{source: cmd.source, err: err}
		}

		if strings.TrimSpace(cmd.source) == "" {
			return editCancelledMsg{}
		}

		return editDoneMsg{source: cmd.source, output: cmd.output, prints: cmd.prints}
	})
}

// editorCommand returns the user's editor: $VISUAL, then $EDITOR, then vi.
func editorCommand() (string, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if e := strings.TrimSpace(os.Getenv(env)); e != "" {
			return e, nil
		}
	}

	if _, err := exec.LookPath(defaultEditor); err != nil {
		return "", ErrNoEditor
	}

	return defaultEditor, nil
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor, err := editorCommand()
	if err != nil {
		return err
	}

	args := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
