package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultMaxOutputBytes caps captured standard output.
	DefaultMaxOutputBytes = 1 << 20

	stderrTailBytes = 4 * 1024

	// waitDelay bounds how long Wait blocks on output pipes after the
	// process has been killed.
	waitDelay = 2 * time.Second
)

// CommandInvoker runs an external command-line model tool. The prompt is
// written to a temporary file which becomes the tool's standard input;
// standard output is the response.
type CommandInvoker struct {
	name      string
	command   string
	args      []string
	timeout   time.Duration
	maxOutput int
	lookPath  func(string) (string, error)
}

// CommandOption configures a CommandInvoker.
type CommandOption func(*CommandInvoker)

// WithTimeout sets the per-call timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) CommandOption {
	return func(c *CommandInvoker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxOutputBytes caps captured output. Non-positive values are ignored.
func WithMaxOutputBytes(n int) CommandOption {
	return func(c *CommandInvoker) {
		if n > 0 {
			c.maxOutput = n
		}
	}
}

// NewCommandInvoker creates an invoker named name that runs command with args.
func NewCommandInvoker(name, command string, args []string, opts ...CommandOption) *CommandInvoker {
	c := &CommandInvoker{
		name:      name,
		command:   command,
		args:      append([]string(nil), args...),
		timeout:   DefaultTimeout,
		maxOutput: DefaultMaxOutputBytes,
		lookPath:  exec.LookPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CommandInvoker) Name() string {
	return c.name
}

// Available checks that the command is on PATH.
func (c *CommandInvoker) Available() error {
	if _, err := c.lookPath(c.command); err != nil {
		return fmt.Errorf("%s not found", c.command)
	}
	return nil
}

// Invoke runs the tool once. Latency covers the whole call, including a
// call that ends in a timeout.
func (c *CommandInvoker) Invoke(ctx context.Context, prompt string) Outcome {
	start := time.Now()
	text, truncated, err := c.run(ctx, prompt)
	return Outcome{
		Text:      text,
		Latency:   time.Since(start),
		Truncated: truncated,
		Err:       err,
	}
}

func (c *CommandInvoker) run(ctx context.Context, prompt string) (string, bool, error) {
	dir, err := os.MkdirTemp("", "fewshot-bench-*")
	if err != nil {
		return "", false, fmt.Errorf("create prompt dir: %w", err)
	}
	defer os.RemoveAll(dir)

	promptPath := filepath.Join(dir, "prompt.txt")
	if err := os.WriteFile(promptPath, []byte(prompt), 0o600); err != nil {
		return "", false, fmt.Errorf("write prompt: %w", err)
	}
	stdin, err := os.Open(promptPath)
	if err != nil {
		return "", false, fmt.Errorf("open prompt: %w", err)
	}
	defer stdin.Close()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.command, c.args...)
	cmd.Dir = dir
	cmd.Stdin = stdin
	stdout := newCappedBuffer(c.maxOutput)
	stderr := newCappedBuffer(stderrTailBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	err = cmd.Run()
	out := strings.TrimSpace(stdout.String())
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return out, stdout.truncated, fmt.Errorf("%s timed out after %s", c.name, c.timeout)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return out, stdout.truncated, fmt.Errorf("%s cancelled: %w", c.name, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "no stderr"
		}
		return out, stdout.truncated, fmt.Errorf("%s %s: %w (%s)", c.command, strings.Join(c.args, " "), err, msg)
	}
	return out, stdout.truncated, nil
}

// cappedBuffer keeps the first limit bytes written to it and discards the
// rest. Writes never fail so the child process is not killed by EPIPE.
type cappedBuffer struct {
	buf       []byte
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.limit - len(b.buf)
	if room <= 0 {
		if len(p) > 0 {
			b.truncated = true
		}
		return len(p), nil
	}
	if len(p) > room {
		b.buf = append(b.buf, p[:room]...)
		b.truncated = true
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return string(b.buf)
}
