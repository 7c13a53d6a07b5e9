package engine

import (
	"bufio"
	"encoding/base64"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// replyPrefix marks a base64-encoded reply frame on the process transport.
const replyPrefix = "Reply: "

// Process runs the engine as a child process under a pseudo-terminal. Each
// command is written as one line; the engine answers with "FPS: ..." lines,
// "Reply: <base64 frame>" lines, and free-form log output.
type Process struct {
	cmd  *exec.Cmd
	ptmx *os.File

	writeMu   sync.Mutex
	w         io.Writer
	in        chan Inbound
	log       *logBuffer
	done      chan struct{}
	closeOnce sync.Once
}

// SpawnProcess starts name with args under a PTY in raw mode, so commands
// are not echoed back.
func SpawnProcess(name string, args ...string) (*Process, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = append(cmd.Environ(), "TERM=dumb")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := term.MakeRaw(int(ptmx.Fd())); err != nil {
		log.Printf("engine: could not switch PTY to raw mode: %v", err)
	}

	p := newProcess(ptmx, ptmx)
	p.cmd = cmd
	p.ptmx = ptmx
	return p, nil
}

func newProcess(r io.Reader, w io.Writer) *Process {
	p := &Process{
		w:    w,
		in:   make(chan Inbound, 256),
		log:  newLogBuffer(),
		done: make(chan struct{}),
	}
	go p.readLoop(r)
	return p
}

func (p *Process) readLoop(r io.Reader) {
	defer close(p.done)
	defer close(p.in)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.HasPrefix(line, fpsPrefix):
			p.in <- Inbound{Text: line}
		case strings.HasPrefix(line, replyPrefix):
			frame, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(line, replyPrefix))
			if err != nil {
				log.Printf("engine: bad reply line: %v", err)
				continue
			}
			p.in <- Inbound{Binary: frame}
		default:
			p.log.Write([]byte(line + "\n"))
		}
	}
	if err := sc.Err(); err != nil && !isClosedErr(err) {
		log.Printf("engine: process read error: %v", err)
	}
}

// isClosedErr matches the errors a PTY read returns once the child exits.
func isClosedErr(err error) bool {
	return err == io.EOF || strings.Contains(err.Error(), "input/output error") ||
		strings.Contains(err.Error(), "file already closed")
}

func (p *Process) Send(line string) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_, err := io.WriteString(p.w, line+"\n")
	return err
}

func (p *Process) Inbound() <-chan Inbound { return p.in }

func (p *Process) Done() <-chan struct{} { return p.done }

// Log returns the engine's recent non-protocol output.
func (p *Process) Log() []byte { return p.log.Snapshot() }

// Resize reports the viewport size in pixels through the PTY window size.
func (p *Process) Resize(width, height int) error {
	if err := checkViewport(width, height); err != nil {
		return err
	}
	if p.ptmx == nil {
		return nil
	}
	return pty.Setsize(p.ptmx, &pty.Winsize{X: uint16(width), Y: uint16(height)})
}

func (p *Process) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if p.cmd != nil && p.cmd.Process != nil {
			p.cmd.Process.Kill()
		}
		if p.ptmx != nil {
			err = p.ptmx.Close()
		}
		if p.cmd != nil {
			go p.cmd.Wait() //nolint:errcheck
		}
	})
	return err
}
