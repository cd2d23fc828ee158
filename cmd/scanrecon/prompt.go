package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"scanrecon/internal/scan"
)

// promptConfirmer asks on the terminal whether to continue with the next
// scan collection. On a terminal a single keypress answers; otherwise one
// line is read from in. Anything but y/yes declines, and so does EOF.
type promptConfirmer struct {
	in    *os.File
	lines *bufio.Reader
	out   io.Writer
}

func newPromptConfirmer(in *os.File, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: in, lines: bufio.NewReader(in), out: out}
}

func (c *promptConfirmer) Confirm(done *scan.SubfolderResult, next string) (bool, error) {
	fmt.Fprintf(c.out, "%s\nContinue with %s? [y/N] ", describeFolder(done), next)

	if fd := int(c.in.Fd()); term.IsTerminal(fd) {
		return c.readKey(fd)
	}
	return readLineAnswer(c.lines, c.out)
}

// readKey reads one keypress in raw mode.
func (c *promptConfirmer) readKey(fd int) (bool, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return false, fmt.Errorf("switching terminal to raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	var key [1]byte
	if _, err := c.in.Read(key[:]); err != nil {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	// Raw mode disables output translation, so end the line by hand.
	fmt.Fprint(c.out, "\r\n")
	return key[0] == 'y' || key[0] == 'Y', nil
}

func readLineAnswer(r *bufio.Reader, out io.Writer) (bool, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(out)
		return false, nil
	}
	return isYes(line), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func describeFolder(r *scan.SubfolderResult) string {
	return fmt.Sprintf("%s: copied %d of %d file(s), %d failed, %d only at destination",
		r.Name, r.Result.Copied, len(r.Plan.ToCopy), len(r.Result.Failures), len(r.Plan.DestinationOnly))
}

var _ scan.Confirmer = (*promptConfirmer)(nil)
