// Package service provides a thread-safe wrapper around an inspection
// session, shared by the HTTP API, the TUI, and the GUI the way
// DebuggerService used to be shared across the ARM debugger's front ends.
package service

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/v3dqpu/qpuasm/codec"
	"github.com/v3dqpu/qpuasm/disasm"
	"github.com/v3dqpu/qpuasm/inspector"
	"github.com/v3dqpu/qpuasm/isa"
	"github.com/v3dqpu/qpuasm/validator"
)

var serviceLog *log.Logger

func init() {
	if os.Getenv("QPUASM_DEBUG") != "" {
		logPath := filepath.Join(os.TempDir(), "qpuasm-service-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			serviceLog = log.New(os.Stderr, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			serviceLog = log.New(f, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		serviceLog = log.New(io.Discard, "", 0)
	}
}

var versionNames = map[isa.Version]string{
	isa.Ver33: "3.3",
	isa.Ver40: "4.0",
	isa.Ver41: "4.1",
	isa.Ver42: "4.2",
	isa.Ver71: "7.1",
}

var versionsByName = func() map[string]isa.Version {
	m := make(map[string]isa.Version, len(versionNames))
	for v, n := range versionNames {
		m[n] = v
	}
	return m
}()

// InspectorService wraps an inspector.Session with a mutex so it can be
// driven concurrently by an HTTP handler goroutine and a WebSocket
// broadcast callback without racing on the session's cursor or program.
//
// Lock ordering: the service's own mutex (s.mu) is the only lock in
// play; inspector.Session itself carries no internal lock, so every
// exported method here holds s.mu for its whole body.
type InspectorService struct {
	mu          sync.Mutex
	session     *inspector.Session
	stateChange func(SessionSnapshot) // optional, called after every mutating command
}

// NewInspectorService creates a service around a fresh session targeting dev.
func NewInspectorService(dev isa.Device) *InspectorService {
	return &InspectorService{session: inspector.NewSession(dev)}
}

// OnStateChange registers a callback invoked after every command that
// can change session state, the inspector's analogue of
// DebuggerService's GUI state-changed callback. The callback runs while
// the service's mutex is held.
func (s *InspectorService) OnStateChange(fn func(SessionSnapshot)) {
	s.mu.Lock()
	s.stateChange = fn
	s.mu.Unlock()
}

func (s *InspectorService) notify() {
	if s.stateChange == nil {
		return
	}
	snap := s.snapshotLocked()
	s.stateChange(snap)
}

// Assemble parses one instruction line and appends it to the program.
// Returns the index it was assembled to.
func (s *InspectorService) Assemble(line string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.ExecuteCommand("asm " + line); err != nil {
		return 0, err
	}
	s.session.GetOutput()
	idx := s.session.Cursor
	serviceLog.Printf("assembled %q at index %d", line, idx)
	s.notify()
	return idx, nil
}

// Disassemble decodes a hex word and appends it to the program.
// Returns the index it was decoded to and its disassembly text.
func (s *InspectorService) Disassemble(hexWord string) (int, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.ExecuteCommand("disasm " + hexWord); err != nil {
		return 0, "", err
	}
	s.session.GetOutput()
	idx := s.session.Cursor

	d := disasm.New(s.session.Dev, disasm.DefaultOptions())
	line := d.Line(s.session.Program[idx])
	s.notify()
	return idx, line, nil
}

// List returns the full program listing.
func (s *InspectorService) List() []ProgramLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := disasm.New(s.session.Dev, disasm.DefaultOptions())
	lines := make([]ProgramLine, len(s.session.Program))
	for i, inst := range s.session.Program {
		src := ""
		if i < len(s.session.Source) {
			src = s.session.Source[i]
		}
		lines[i] = ProgramLine{Index: i, Source: src, Disassembly: d.Line(inst)}
	}
	return lines
}

// Goto moves the cursor to idx.
func (s *InspectorService) Goto(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= len(s.session.Program) {
		return fmt.Errorf("index %d out of range (program has %d instructions)", idx, len(s.session.Program))
	}
	s.session.Cursor = idx
	s.notify()
	return nil
}

// Word returns the packed word for the instruction at idx.
func (s *InspectorService) Word(idx int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= len(s.session.Program) {
		return 0, fmt.Errorf("index %d out of range", idx)
	}
	return codec.Pack(s.session.Dev, s.session.Program[idx])
}

// Fields returns a formatted dump of the decoded fields at idx.
func (s *InspectorService) Fields(idx int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.ExecuteCommand(fmt.Sprintf("fields %d", idx)); err != nil {
		return "", err
	}
	return s.session.GetOutput(), nil
}

// Validate runs the validator over the whole program.
func (s *InspectorService) Validate() (bool, []ValidationFinding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.session.Program) == 0 {
		return true, nil
	}
	v := validator.NewValidator(s.session.Dev)
	ok, res := v.Validate(s.session.Program)
	if ok {
		s.notify()
		return true, nil
	}
	findings := []ValidationFinding{{Index: res.Index, Kind: res.Kind.String(), Message: res.Message}}
	s.notify()
	return false, findings
}

// SetVersion switches the session's target ISA version by name ("4.2" etc).
func (s *InspectorService) SetVersion(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ver, ok := versionsByName[name]
	if !ok {
		return fmt.Errorf("unknown version %q", name)
	}
	s.session.Dev = isa.NewDevice(ver)
	s.notify()
	return nil
}

// Clear discards the current program.
func (s *InspectorService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Program = nil
	s.session.Source = nil
	s.session.Cursor = 0
	s.notify()
}

// Snapshot returns the current session state for display.
func (s *InspectorService) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *InspectorService) snapshotLocked() SessionSnapshot {
	state := StateEmpty
	var findings []ValidationFinding
	if len(s.session.Program) > 0 {
		v := validator.NewValidator(s.session.Dev)
		if ok, res := v.Validate(s.session.Program); ok {
			state = StateValid
		} else {
			state = StateInvalid
			findings = []ValidationFinding{{Index: res.Index, Kind: res.Kind.String(), Message: res.Message}}
		}
	}
	return SessionSnapshot{
		Version:  versionNames[s.session.Dev.Ver],
		Cursor:   s.session.Cursor,
		State:    state,
		Lines:    len(s.session.Program),
		Findings: findings,
	}
}
