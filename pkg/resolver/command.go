package resolver

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

// DefaultCommand runs the browserslist CLI through npx.
var DefaultCommand = []string{"npx", "--yes", "browserslist"}

// DefaultTimeout bounds one Command invocation.
const DefaultTimeout = 30 * time.Second

// Command resolves queries by running an external browserslist-compatible
// executable with the query as its last argument. The executable must print
// one "<name> <version>" pair per line.
type Command struct {
	Argv    []string
	Timeout time.Duration
	Dir     string
	Logger  *slog.Logger
}

// NewCommand returns a Command for argv, or DefaultCommand if argv is empty.
func NewCommand(argv []string, timeout time.Duration, logger *slog.Logger) *Command {
	if len(argv) == 0 {
		argv = DefaultCommand
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Command{Argv: append([]string(nil), argv...), Timeout: timeout, Logger: logger}
}

// Resolve runs the command and parses its output.
func (c *Command) Resolve(ctx context.Context, query string) ([]targets.Pair, error) {
	if len(c.Argv) == 0 {
		return nil, fmt.Errorf("resolver command is empty")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string(nil), c.Argv[1:]...), query)
	cmd := exec.CommandContext(ctx, c.Argv[0], args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start := time.Now()
	logger.Debug("running query resolver", "command", c.Argv[0], "query", query)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", c.Argv[0], ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", c.Argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", c.Argv[0], err)
	}

	pairs, err := ParseLines(stdout.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Argv[0], err)
	}
	logger.Debug("query resolved", "query", query, "pairs", len(pairs), "elapsed", time.Since(start))
	return pairs, nil
}
