// Package shell implements the interactive command shell of the rr machine.
package shell

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/ezrec/rrmachine/emulator"
	"github.com/ezrec/rrmachine/translate"
)

const PROMPT = "rr> "

// Shell reads commands from In and writes their results to Out.
type Shell struct {
	Verbose bool               // If set, logs each command.
	Emu     *emulator.Emulator // Emulator the commands act upon.
	In      io.Reader          // Command input.
	Out     io.Writer          // Command output.
	Prompt  bool               // If set, a prompt is written before each command.
}

// isTerminal returns true if the reader is an interactive terminal.
func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// NewShell creates a shell on an emulator. The prompt is shown only when the
// input is a terminal.
func NewShell(emu *emulator.Emulator, in io.Reader, out io.Writer) (sh *Shell) {
	sh = &Shell{
		Emu:    emu,
		In:     in,
		Out:    out,
		Prompt: isTerminal(in),
	}

	return
}

// printf writes translated text to the shell output.
func (sh *Shell) printf(format string, args ...any) {
	translate.Fprintf(sh.Out, format, args...)
}

// Run reads and executes commands until a blank line, a quit command, the end
// of input or cancellation of the context. Command errors are reported and do
// not end the session.
func (sh *Shell) Run(ctx context.Context) (err error) {
	scanner := bufio.NewScanner(sh.In)

	sh.printf("Issue commands to the machine (leave blank to exit):\n")

	for {
		if sh.Prompt {
			io.WriteString(sh.Out, PROMPT)
		}

		if !scanner.Scan() {
			err = scanner.Err()
			return
		}

		err = ctx.Err()
		if err != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			return
		}

		if sh.Verbose {
			logrus.WithField("command", line).Debug("shell: exec")
		}

		var quit bool
		quit, err = sh.Exec(ctx, line)
		if err != nil {
			sh.printf("* %v\n", err)
			err = nil
		}
		if quit {
			return
		}
	}
}

// Exec executes a single command line. Interrupting the process while the
// command runs cancels the command, not the shell.
func (sh *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	words := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(words) == 0 {
		return
	}

	name := strings.ToLower(words[0])
	args := words[1:]

	defer func() {
		if err != nil {
			err = &ErrCommand{Command: name, Err: err}
		}
	}()

	switch name {
	case "quit", "exit":
		quit = true
		return
	}

	cmd, ok := commands[name]
	if !ok {
		err = ErrCommandUnknown
		return
	}

	if len(args) < cmd.min || len(args) > cmd.max {
		err = ErrArguments
		return
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	err = cmd.action(sh, ctx, args)
	return
}
