package inspector

import (
	"strings"
	"testing"

	"github.com/v3dqpu/qpuasm/isa"
)

func TestSessionAsmAndWord(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))

	if err := s.ExecuteCommand("asm nop ; nop"); err != nil {
		t.Fatalf("asm nop: %v", err)
	}
	out := s.GetOutput()
	if !strings.Contains(out, "instruction 0 assembled") {
		t.Errorf("unexpected asm output: %q", out)
	}
	if len(s.Program) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(s.Program))
	}

	if err := s.ExecuteCommand("word"); err != nil {
		t.Fatalf("word: %v", err)
	}
	out = s.GetOutput()
	if !strings.Contains(out, "0x") {
		t.Errorf("expected hex word in output, got %q", out)
	}
}

func TestSessionAsmUsageError(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))
	if err := s.ExecuteCommand("asm"); err == nil {
		t.Error("expected error for asm with no arguments")
	}
}

func TestSessionDisasmRoundTrip(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))

	if err := s.ExecuteCommand("disasm 0x3c003186bb800000"); err != nil {
		t.Fatalf("disasm: %v", err)
	}
	out := s.GetOutput()
	if !strings.Contains(out, "0:") {
		t.Errorf("expected disasm to report index 0, got %q", out)
	}
	if len(s.Program) != 1 {
		t.Fatalf("expected 1 instruction after disasm, got %d", len(s.Program))
	}
}

func TestSessionDisasmBadHex(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))
	if err := s.ExecuteCommand("disasm zzzz"); err == nil {
		t.Error("expected error for invalid hex word")
	}
}

func TestSessionListAndGoto(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))
	mustAsm(t, s, "nop ; nop")
	mustAsm(t, s, "nop ; nop")
	mustAsm(t, s, "nop ; nop")

	if err := s.ExecuteCommand("list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := s.GetOutput()
	for _, want := range []string{"0:", "1:", "2:", "->"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q: %q", want, out)
		}
	}

	if err := s.ExecuteCommand("goto 1"); err != nil {
		t.Fatalf("goto 1: %v", err)
	}
	if s.Cursor != 1 {
		t.Errorf("expected cursor 1, got %d", s.Cursor)
	}

	if err := s.ExecuteCommand("goto 99"); err == nil {
		t.Error("expected error for out-of-range goto")
	}
	if err := s.ExecuteCommand("goto abc"); err == nil {
		t.Error("expected error for non-numeric goto")
	}
}

func TestSessionListEmpty(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))
	if err := s.ExecuteCommand("list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(s.GetOutput(), "empty") {
		t.Error("expected 'empty' message for empty program")
	}
}

func TestSessionWordAndFieldsOutOfRange(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))
	mustAsm(t, s, "nop ; nop")

	if err := s.ExecuteCommand("word 5"); err == nil {
		t.Error("expected out-of-range error for word 5")
	}
	if err := s.ExecuteCommand("fields 5"); err == nil {
		t.Error("expected out-of-range error for fields 5")
	}
	if err := s.ExecuteCommand("word abc"); err == nil {
		t.Error("expected error for non-numeric word index")
	}
}

func TestSessionFields(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))
	mustAsm(t, s, "nop ; nop")

	if err := s.ExecuteCommand("fields"); err != nil {
		t.Fatalf("fields: %v", err)
	}
	out := s.GetOutput()
	if !strings.Contains(out, "kind:") || !strings.Contains(out, "signal:") {
		t.Errorf("unexpected fields output: %q", out)
	}
}

func TestSessionValidate(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))

	if err := s.ExecuteCommand("validate"); err != nil {
		t.Fatalf("validate on empty program: %v", err)
	}
	if !strings.Contains(s.GetOutput(), "empty") {
		t.Error("expected empty-program message")
	}

	mustAsm(t, s, "nop ; nop")
	if err := s.ExecuteCommand("validate"); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(s.GetOutput(), "valid") {
		t.Error("expected a valid-program report for a simple nop program")
	}
}

func TestSessionVersion(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))

	if err := s.ExecuteCommand("version"); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(s.GetOutput(), "4.2") {
		t.Error("expected current version 4.2 to be reported")
	}

	if err := s.ExecuteCommand("version 7.1"); err != nil {
		t.Fatalf("version 7.1: %v", err)
	}
	if s.Dev.Ver != isa.Ver71 {
		t.Errorf("expected device version Ver71, got %v", s.Dev.Ver)
	}

	if err := s.ExecuteCommand("version bogus"); err == nil {
		t.Error("expected error for unknown version name")
	}
}

func TestSessionClear(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))
	mustAsm(t, s, "nop ; nop")

	if err := s.ExecuteCommand("clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(s.Program) != 0 || s.Cursor != 0 {
		t.Error("expected program cleared and cursor reset")
	}
}

func TestSessionHelp(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))
	if err := s.ExecuteCommand("help"); err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(s.GetOutput(), "commands:") {
		t.Error("expected help listing")
	}
}

func TestSessionUnknownCommand(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))
	if err := s.ExecuteCommand("frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestSessionEmptyLineRepeatsLast(t *testing.T) {
	s := NewSession(isa.NewDevice(isa.Ver42))
	mustAsm(t, s, "nop ; nop")
	s.GetOutput()

	if err := s.ExecuteCommand(""); err != nil {
		t.Fatalf("repeat last command: %v", err)
	}
	if len(s.Program) != 2 {
		t.Errorf("expected empty input to repeat last asm, got %d instructions", len(s.Program))
	}
}

func mustAsm(t *testing.T, s *Session, text string) {
	t.Helper()
	if err := s.ExecuteCommand("asm " + text); err != nil {
		t.Fatalf("asm %q: %v", text, err)
	}
	s.GetOutput()
}
