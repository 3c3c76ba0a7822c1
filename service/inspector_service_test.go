package service

import (
	"testing"

	"github.com/v3dqpu/qpuasm/isa"
)

func TestInspectorServiceAssembleAndSnapshot(t *testing.T) {
	s := NewInspectorService(isa.NewDevice(isa.Ver42))

	idx, err := s.Assemble("nop ; nop")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if idx != 0 {
		t.Errorf("expected index 0, got %d", idx)
	}

	snap := s.Snapshot()
	if snap.Lines != 1 || snap.Cursor != 0 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.State != StateValid {
		t.Errorf("expected valid state for a simple nop program, got %v", snap.State)
	}
}

func TestInspectorServiceAssembleError(t *testing.T) {
	s := NewInspectorService(isa.NewDevice(isa.Ver42))
	if _, err := s.Assemble(""); err == nil {
		t.Error("expected error for empty assembly line")
	}
}

func TestInspectorServiceDisassemble(t *testing.T) {
	s := NewInspectorService(isa.NewDevice(isa.Ver42))

	idx, line, err := s.Disassemble("0x3c003186bb800000")
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if idx != 0 {
		t.Errorf("expected index 0, got %d", idx)
	}
	if line == "" {
		t.Error("expected non-empty disassembly text")
	}
}

func TestInspectorServiceListAndGoto(t *testing.T) {
	s := NewInspectorService(isa.NewDevice(isa.Ver42))
	for i := 0; i < 3; i++ {
		if _, err := s.Assemble("nop ; nop"); err != nil {
			t.Fatalf("Assemble %d: %v", i, err)
		}
	}

	lines := s.List()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	if err := s.Goto(1); err != nil {
		t.Fatalf("Goto: %v", err)
	}
	if s.Snapshot().Cursor != 1 {
		t.Errorf("expected cursor 1, got %d", s.Snapshot().Cursor)
	}

	if err := s.Goto(99); err == nil {
		t.Error("expected error for out-of-range goto")
	}
}

func TestInspectorServiceWordAndFields(t *testing.T) {
	s := NewInspectorService(isa.NewDevice(isa.Ver42))
	if _, err := s.Assemble("nop ; nop"); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	word, err := s.Word(0)
	if err != nil {
		t.Fatalf("Word: %v", err)
	}
	if word == 0 {
		t.Error("expected a non-zero packed word for nop;nop")
	}

	if _, err := s.Word(5); err == nil {
		t.Error("expected out-of-range error for Word(5)")
	}

	text, err := s.Fields(0)
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if text == "" {
		t.Error("expected non-empty fields text")
	}
}

func TestInspectorServiceValidateEmptyProgram(t *testing.T) {
	s := NewInspectorService(isa.NewDevice(isa.Ver42))
	ok, findings := s.Validate()
	if !ok || findings != nil {
		t.Errorf("expected a clean verdict for an empty program, got ok=%v findings=%v", ok, findings)
	}
}

func TestInspectorServiceSetVersion(t *testing.T) {
	s := NewInspectorService(isa.NewDevice(isa.Ver42))

	if err := s.SetVersion("7.1"); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}
	if s.Snapshot().Version != "7.1" {
		t.Errorf("expected version 7.1, got %q", s.Snapshot().Version)
	}

	if err := s.SetVersion("bogus"); err == nil {
		t.Error("expected error for unknown version name")
	}
}

func TestInspectorServiceClear(t *testing.T) {
	s := NewInspectorService(isa.NewDevice(isa.Ver42))
	if _, err := s.Assemble("nop ; nop"); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	s.Clear()
	snap := s.Snapshot()
	if snap.Lines != 0 || snap.Cursor != 0 || snap.State != StateEmpty {
		t.Errorf("expected cleared state, got %+v", snap)
	}
}

func TestInspectorServiceOnStateChange(t *testing.T) {
	s := NewInspectorService(isa.NewDevice(isa.Ver42))

	var last SessionSnapshot
	calls := 0
	s.OnStateChange(func(snap SessionSnapshot) {
		calls++
		last = snap
	})

	if _, err := s.Assemble("nop ; nop"); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 state-change callback, got %d", calls)
	}
	if last.Lines != 1 {
		t.Errorf("expected callback snapshot to report 1 line, got %+v", last)
	}
}
