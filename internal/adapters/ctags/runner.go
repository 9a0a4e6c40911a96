package ctags

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vphantom/repomapper/internal/diag"
	"github.com/vphantom/repomapper/internal/ports"
)

// DefaultBinary is the universal-ctags executable name looked up on PATH.
const DefaultBinary = "ctags"

// Runner invokes universal-ctags and parses its output. It implements
// ports.Tagger. One Runner is shared by all extraction workers; it holds no
// mutable state between calls.
type Runner struct {
	Binary string // executable name or path; DefaultBinary if empty
	Sink   *diag.Sink
}

// NewRunner returns a Runner using the given diagnostics sink.
func NewRunner(sink *diag.Sink) *Runner {
	return &Runner{Binary: DefaultBinary, Sink: sink}
}

func (r *Runner) binary() string {
	if r.Binary == "" {
		return DefaultBinary
	}
	return r.Binary
}

// Tags runs ctags over the given files (relative to root), reading the file
// list from stdin to avoid command-line length limits. stderr chatter is
// recorded as diagnostics; a non-zero exit with no usable output surfaces as
// an error for the batch, which the pipeline treats as "no symbols" for the
// affected files rather than aborting the run.
func (r *Runner) Tags(ctx context.Context, root string, files []string) ([]ports.TagRecord, error) {
	if len(files) == 0 {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, r.binary(),
		"--output-format=json",
		"--fields=*",
		"--fields=+S",
		"--extras=*",
		"--kinds-Python=+vm",
		"-L", "-",
	)
	cmd.Dir = root
	cmd.Stdin = strings.NewReader(strings.Join(files, "\n") + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if msg := strings.TrimSpace(stderr.String()); msg != "" && r.Sink != nil {
		r.Sink.Infof("ctags", "", "%s", firstLine(msg))
	}
	if runErr != nil && stdout.Len() == 0 {
		return nil, fmt.Errorf("ctags: %w", runErr)
	}

	return ParseRecords(&stdout, r.Sink)
}

// Version probes ctags availability. ErrTaggerUnavailable means the binary
// cannot be found or executed; the caller treats that as fatal before any
// output is written.
func (r *Runner) Version(ctx context.Context) (string, error) {
	if _, err := exec.LookPath(r.binary()); err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrTaggerUnavailable, err)
	}
	out, err := exec.CommandContext(ctx, r.binary(), "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrTaggerUnavailable, err)
	}
	return firstLine(string(out)), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
