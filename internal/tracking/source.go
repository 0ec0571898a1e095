package tracking

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// Source produces tracking frames.
type Source interface {
	// Next blocks until the next frame is available. It returns io.EOF when
	// the source is exhausted.
	Next(ctx context.Context) (Frame, error)

	// Close releases any resources held by the source.
	Close() error
}

// ReaderSource decodes newline-delimited JSON frames from a reader.
type ReaderSource struct {
	r   io.Reader
	dec *json.Decoder
}

// NewReaderSource creates a source reading JSON frames from r. If r is an
// io.Closer it is closed by Close.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r, dec: json.NewDecoder(bufio.NewReader(r))}
}

// OpenFile opens a file of JSON frames. The path "-" reads standard input.
func OpenFile(path string) (*ReaderSource, error) {
	if path == "-" {
		return NewReaderSource(io.NopCloser(os.Stdin)), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frames: %w", err)
	}
	return NewReaderSource(f), nil
}

// Next decodes the next frame. Cancellation is checked before each read;
// a read already in progress is not interrupted.
func (s *ReaderSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	var f Frame
	if err := s.dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}

// Close closes the underlying reader when it supports it.
func (s *ReaderSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// CommandSource runs an external tracker process and reads JSON frames from
// its stdout. The process is started lazily on the first call to Next.
type CommandSource struct {
	name string
	args []string

	mu      sync.Mutex
	cmd     *exec.Cmd
	src     *ReaderSource
	started bool
}

// NewCommandSource creates a source for the given tracker command.
func NewCommandSource(name string, args ...string) *CommandSource {
	return &CommandSource{name: name, args: args}
}

// Next returns the next frame emitted by the tracker.
func (c *CommandSource) Next(ctx context.Context) (Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureStarted(); err != nil {
		return Frame{}, err
	}
	return c.src.Next(ctx)
}

func (c *CommandSource) ensureStarted() error {
	if c.started {
		return nil
	}

	cmd := exec.Command(c.name, c.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	// Tracker diagnostics go straight to our stderr.
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start tracker: %w", err)
	}

	c.cmd = cmd
	c.src = NewReaderSource(stdout)
	c.started = true
	return nil
}

// Close stops the tracker process.
func (c *CommandSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}
	c.started = false

	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	// Wait reports the kill as an error; the process is gone either way.
	_ = c.cmd.Wait()
	return nil
}

// MockSource replays a fixed list of frames. It is safe for concurrent use.
type MockSource struct {
	mu     sync.Mutex
	frames []Frame
	err    error
	closed bool
}

// NewMockSource creates a MockSource that yields frames in order, then io.EOF.
func NewMockSource(frames ...Frame) *MockSource {
	return &MockSource{frames: frames}
}

// SetError makes every subsequent Next return err.
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Next returns the next queued frame.
func (m *MockSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Frame{}, m.err
	}
	if len(m.frames) == 0 {
		return Frame{}, io.EOF
	}
	f := m.frames[0]
	m.frames = m.frames[1:]
	return f, nil
}

// Close marks the source closed.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
