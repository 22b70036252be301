package external

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter"
	"github.com/google/uuid"
)

// Environment variables passed to the executable
const (
	EnvProtocolVersion = "CUKEFMT_PROTOCOL_VERSION"
	EnvSessionID       = "CUKEFMT_SESSION_ID"
	EnvColors          = "CUKEFMT_COLORS"
)

// Formatter forwards the run to an external process
type Formatter struct {
	*formatter.Base

	path      string
	sessionID string
	cmd       *exec.Cmd
	stderr    *lineWriter

	mu     sync.Mutex
	stdin  io.WriteCloser
	closed bool
	broken bool

	once sync.Once
}

// Start spawns the executable at path and subscribes it to the run
func Start(path string, opts formatter.Options) (*Formatter, error) {
	f := &Formatter{
		Base:      formatter.NewBase(opts),
		path:      path,
		sessionID: uuid.NewString(),
	}

	f.stderr = &lineWriter{emit: func(line string) { f.Log(line + "\n") }}

	cmd := exec.Command(path)
	cmd.Dir = opts.Cwd
	cmd.Env = append(os.Environ(),
		EnvProtocolVersion+"="+strconv.Itoa(formatter.ProtocolVersion),
		EnvSessionID+"="+f.sessionID,
		EnvColors+"="+strconv.FormatBool(opts.ParsedOptions.ColorsEnabled),
	)
	cmd.Stdout = f.Stream
	cmd.Stderr = f.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin of %s: %w", path, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start external formatter %s: %w", path, err)
	}
	f.cmd = cmd
	f.stdin = stdin

	f.Listen(f.onEnvelope)
	return f, nil
}

// SessionID identifies this process to the executable
func (f *Formatter) SessionID() string {
	return f.sessionID
}

func (f *Formatter) onEnvelope(env *events.Envelope) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.broken {
		return
	}
	if err := events.Encode(f.stdin, env); err != nil {
		f.broken = true
		f.Fail(fmt.Errorf("failed to send envelope to %s: %w", f.path, err))
	}
}

// Finished closes stdin, waits for the process to exit and runs cleanup.
// A non-zero exit status is reported as an error.
func (f *Formatter) Finished() error {
	var err error
	f.once.Do(func() {
		f.mu.Lock()
		f.closed = true
		closeErr := f.stdin.Close()
		f.mu.Unlock()

		var exitErr error
		if err := f.cmd.Wait(); err != nil {
			exitErr = fmt.Errorf("external formatter %s: %w", f.path, err)
		} else if closeErr != nil {
			exitErr = closeErr
		}
		f.stderr.flush()

		err = errors.Join(exitErr, f.Base.Finished())
	})
	return err
}

// lineWriter calls emit for every complete line written to it
type lineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	emit func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimRight(w.buf.Next(i+1), "\r\n"))
		w.emit(line)
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}
