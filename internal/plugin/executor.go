package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/logger"
)

// ErrTimeout is returned when a plugin does not finish within the executor's
// timeout.
var ErrTimeout = errors.New("plugin execution timeout")

// Executor runs plugins with a per-call timeout.
type Executor struct {
	timeout time.Duration
	log     *zap.Logger
}

// NewExecutor creates an Executor. A nil logger discards output.
func NewExecutor(timeout time.Duration, log *zap.Logger) *Executor {
	log = logger.OrNop(log)
	return &Executor{
		timeout: timeout,
		log:     log.Named("plugin"),
	}
}

// Timeout returns the per-call timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Execute runs plugin with req on stdin and parses its stdout as a Response.
// A plugin that reports Success=false is not an error; the Response carries
// the plugin's message.
func (e *Executor) Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		e.log.Warn("plugin timed out",
			zap.String("plugin", plugin.Manifest.Name),
			zap.String("action", req.Action),
			zap.Duration("timeout", e.timeout))
		return nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}

	if err != nil {
		if s := stderr.String(); s != "" {
			return nil, fmt.Errorf("plugin execution failed: %w, stderr: %s", err, s)
		}
		return nil, fmt.Errorf("plugin execution failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("parse plugin response: %w, stdout: %s", err, stdout.String())
	}

	e.log.Debug("plugin executed",
		zap.String("plugin", plugin.Manifest.Name),
		zap.String("action", req.Action),
		zap.String("pose", req.Pose),
		zap.Bool("success", response.Success),
		zap.Duration("elapsed", elapsed))

	return &response, nil
}
