// lobby/reader/supervisor.go
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// OwnershipKey is the key the card reader is assigned under when several
// lobby instances are registered.
const OwnershipKey = "card-reader"

var (
	ErrAlreadyRunning = errors.New("NFC reader is already running")
	ErrNotRunning     = errors.New("NFC reader is not running")
	ErrNotResponsible = errors.New("another lobby instance owns the NFC reader")
)

// Gate decides whether this instance may drive the physical reader.
type Gate interface {
	IsResponsible(key string) (bool, error)
}

// Config describes the reader child process.
type Config struct {
	Command    string
	Args       []string
	SerialPath string
	BackendURL string
}

// Status is a snapshot of the supervisor.
type Status struct {
	Running bool
	PID     int
}

// Supervisor starts and stops the card-reader process. At most one child runs
// at a time; its output is relayed to the log.
type Supervisor struct {
	cfg  Config
	gate Gate

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// NewSupervisor creates a Supervisor. gate may be nil, meaning this instance
// always owns the reader.
func NewSupervisor(cfg Config, gate Gate) *Supervisor {
	return &Supervisor{cfg: cfg, gate: gate}
}

// Start launches the reader and returns its pid.
func (s *Supervisor) Start() (int, error) {
	if s.gate != nil {
		ok, err := s.gate.IsResponsible(OwnershipKey)
		if err != nil {
			return 0, fmt.Errorf("could not determine reader ownership: %w", err)
		}
		if !ok {
			return 0, ErrNotResponsible
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return 0, ErrAlreadyRunning
	}

	cmd := exec.Command(s.cfg.Command, s.cfg.Args...)
	cmd.Env = append(os.Environ(),
		"SERIAL_PATH="+s.cfg.SerialPath,
		"BACKEND_URL="+s.cfg.BackendURL,
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to attach reader stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to attach reader stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start NFC reader: %w", err)
	}

	var relays sync.WaitGroup
	relays.Add(2)
	go relay(&relays, stdout, "INFO: NFC:")
	go relay(&relays, stderr, "ERROR: NFC:")

	done := make(chan struct{})
	s.cmd, s.done = cmd, done
	go s.wait(cmd, &relays, done)

	log.Printf("INFO: NFC reader started (pid %d)", cmd.Process.Pid)
	return cmd.Process.Pid, nil
}

func (s *Supervisor) wait(cmd *exec.Cmd, relays *sync.WaitGroup, done chan struct{}) {
	relays.Wait()
	err := cmd.Wait()

	s.mu.Lock()
	if s.cmd == cmd {
		s.cmd, s.done = nil, nil
	}
	s.mu.Unlock()
	close(done)

	if err != nil {
		log.Printf("WARN: NFC reader (pid %d) exited: %v", cmd.Process.Pid, err)
	} else {
		log.Printf("INFO: NFC reader (pid %d) exited", cmd.Process.Pid)
	}
}

// Stop sends SIGTERM to the reader, escalating to SIGKILL after grace.
func (s *Supervisor) Stop(grace time.Duration) error {
	s.mu.Lock()
	cmd, done := s.cmd, s.done
	s.mu.Unlock()

	if cmd == nil {
		return ErrNotRunning
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		log.Printf("WARN: NFC reader SIGTERM failed, killing: %v", err)
		_ = cmd.Process.Kill()
	}
	select {
	case <-done:
	case <-time.After(grace):
		log.Printf("WARN: NFC reader (pid %d) ignored SIGTERM for %v, killing", cmd.Process.Pid, grace)
		_ = cmd.Process.Kill()
		<-done
	}
	log.Println("INFO: NFC reader stopped")
	return nil
}

func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil {
		return Status{}
	}
	return Status{Running: true, PID: s.cmd.Process.Pid}
}

func relay(wg *sync.WaitGroup, r io.Reader, prefix string) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Printf("%s %s", prefix, scanner.Text())
	}
}
