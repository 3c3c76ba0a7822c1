package inspector

import (
	"strings"
	"testing"

	"github.com/v3dqpu/qpuasm/isa"
)

func newTestTUI(t *testing.T) *TUI {
	t.Helper()
	sess := NewSession(isa.NewDevice(isa.Ver42))
	return NewTUI(sess)
}

func TestNewTUIConstructsPanels(t *testing.T) {
	tui := newTestTUI(t)

	if tui.App == nil || tui.Pages == nil || tui.MainLayout == nil {
		t.Fatal("expected application, pages and layout to be constructed")
	}
	for name, v := range map[string]interface{}{
		"ProgramView":   tui.ProgramView,
		"WordView":      tui.WordView,
		"FieldsView":    tui.FieldsView,
		"ValidatorView": tui.ValidatorView,
		"OutputView":    tui.OutputView,
		"CommandInput":  tui.CommandInput,
	} {
		if v == nil {
			t.Errorf("%s was not constructed", name)
		}
	}
}

func TestUpdateProgramViewEmpty(t *testing.T) {
	tui := newTestTUI(t)
	tui.UpdateProgramView()

	text := tui.ProgramView.GetText(true)
	if !strings.Contains(text, "no instructions loaded") {
		t.Errorf("expected empty-program placeholder, got %q", text)
	}
}

func TestUpdateProgramViewMarksCursor(t *testing.T) {
	tui := newTestTUI(t)
	mustAsm(t, tui.Session, "nop ; nop")
	mustAsm(t, tui.Session, "nop ; nop")
	tui.Session.Cursor = 1

	tui.UpdateProgramView()
	text := tui.ProgramView.GetText(true)
	if !strings.Contains(text, "->") {
		t.Errorf("expected cursor marker in program view, got %q", text)
	}
}

func TestUpdateWordView(t *testing.T) {
	tui := newTestTUI(t)
	mustAsm(t, tui.Session, "nop ; nop")

	tui.UpdateWordView()
	text := tui.WordView.GetText(true)
	if !strings.Contains(text, "0x") {
		t.Errorf("expected packed word in word view, got %q", text)
	}
}

func TestUpdateWordViewNoInstructions(t *testing.T) {
	tui := newTestTUI(t)
	tui.UpdateWordView()
	text := tui.WordView.GetText(true)
	if text == "" {
		t.Error("expected an error message when no instructions are loaded")
	}
}

func TestUpdateFieldsView(t *testing.T) {
	tui := newTestTUI(t)
	mustAsm(t, tui.Session, "nop ; nop")

	tui.UpdateFieldsView()
	text := tui.FieldsView.GetText(true)
	if !strings.Contains(text, "kind:") {
		t.Errorf("expected decoded fields, got %q", text)
	}
}

func TestUpdateValidatorView(t *testing.T) {
	tui := newTestTUI(t)
	mustAsm(t, tui.Session, "nop ; nop")

	tui.UpdateValidatorView()
	text := tui.ValidatorView.GetText(true)
	if !strings.Contains(text, "valid") {
		t.Errorf("expected validator report, got %q", text)
	}
}

func TestExecuteCommandUpdatesOutputAndPanels(t *testing.T) {
	tui := newTestTUI(t)
	tui.executeCommand("asm nop ; nop")

	out := tui.OutputView.GetText(true)
	if !strings.Contains(out, "instruction 0 assembled") {
		t.Errorf("expected asm confirmation in output view, got %q", out)
	}
	if !strings.Contains(tui.ProgramView.GetText(true), "nop") {
		t.Error("expected program view to refresh after executeCommand")
	}
}

func TestExecuteCommandReportsError(t *testing.T) {
	tui := newTestTUI(t)
	tui.executeCommand("frobnicate")

	out := tui.OutputView.GetText(true)
	if !strings.Contains(out, "Error:") {
		t.Errorf("expected error to be written to output view, got %q", out)
	}
}
