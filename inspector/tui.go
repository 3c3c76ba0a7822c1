package inspector

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/v3dqpu/qpuasm/disasm"
)

// TUI is the text user interface over a Session, grounded on
// debugger.TUI's panel layout and key-binding style.
type TUI struct {
	Session *Session
	App     *tview.Application
	Pages   *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	ProgramView   *tview.TextView
	WordView      *tview.TextView
	FieldsView    *tview.TextView
	ValidatorView *tview.TextView
	OutputView    *tview.TextView
	CommandInput  *tview.InputField
}

// NewTUI creates an inspector TUI over sess.
func NewTUI(sess *Session) *TUI {
	t := &TUI{Session: sess, App: tview.NewApplication()}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.ProgramView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.ProgramView.SetBorder(true).SetTitle(" Program ")

	t.WordView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.WordView.SetBorder(true).SetTitle(" Packed word ")

	t.FieldsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.FieldsView.SetBorder(true).SetTitle(" Decoded fields ")

	t.ValidatorView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.ValidatorView.SetBorder(true).SetTitle(" Validator ")

	t.OutputView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.ProgramView, 0, 1, false)

	rightTop := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.WordView, 4, 0, false).
		AddItem(t.FieldsView, 0, 1, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(rightTop, 0, 3, false).
		AddItem(t.ValidatorView, 8, 0, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().
		AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("validate")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key == tcell.KeyEnter {
		cmd := t.CommandInput.GetText()
		if cmd != "" {
			t.executeCommand(cmd)
			t.CommandInput.SetText("")
		}
	}
}

func (t *TUI) executeCommand(cmd string) {
	t.Session.Output.Reset()

	err := t.Session.ExecuteCommand(cmd)
	output := t.Session.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	t.RefreshAll()
}

// WriteOutput appends text to the output view.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from the session's current state.
func (t *TUI) RefreshAll() {
	t.UpdateProgramView()
	t.UpdateWordView()
	t.UpdateFieldsView()
	t.UpdateValidatorView()
	t.App.Draw()
}

// UpdateProgramView lists the program, highlighting the cursor.
func (t *TUI) UpdateProgramView() {
	t.ProgramView.Clear()

	if len(t.Session.Program) == 0 {
		t.ProgramView.SetText("[yellow]no instructions loaded[white]")
		return
	}

	d := disasm.New(t.Session.Dev, disasm.DefaultOptions())
	var lines []string
	for i, inst := range t.Session.Program {
		marker, color := "  ", "white"
		if i == t.Session.Cursor {
			marker, color = "->", "yellow"
		}
		lines = append(lines, fmt.Sprintf("[%s]%s %3d: %s[white]", color, marker, i, d.Line(inst)))
	}
	t.ProgramView.SetText(strings.Join(lines, "\n"))
}

// UpdateWordView shows the packed word for the cursor instruction.
func (t *TUI) UpdateWordView() {
	t.WordView.Clear()
	if err := t.Session.cmdWord(nil); err != nil {
		t.WordView.SetText(fmt.Sprintf("[red]%v[white]", err))
		return
	}
	t.WordView.SetText(strings.TrimSpace(t.Session.GetOutput()))
}

// UpdateFieldsView shows the decoded fields for the cursor instruction.
func (t *TUI) UpdateFieldsView() {
	t.FieldsView.Clear()
	if err := t.Session.cmdFields(nil); err != nil {
		t.FieldsView.SetText(fmt.Sprintf("[red]%v[white]", err))
		return
	}
	t.FieldsView.SetText(strings.TrimSpace(t.Session.GetOutput()))
}

// UpdateValidatorView runs the validator over the full program.
func (t *TUI) UpdateValidatorView() {
	t.ValidatorView.Clear()
	if err := t.Session.cmdValidate(nil); err != nil {
		t.ValidatorView.SetText(fmt.Sprintf("[red]%v[white]", err))
		return
	}
	t.ValidatorView.SetText(strings.TrimSpace(t.Session.GetOutput()))
}

// Run starts the TUI event loop.
func (t *TUI) Run() error {
	t.RefreshAll()

	t.WriteOutput("[green]V3D QPU Instruction Inspector[white]\n")
	t.WriteOutput("Press F1 for help, F5 to validate, Ctrl-C to quit\n")
	t.WriteOutput("Type 'help' for the command list\n\n")

	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI application.
func (t *TUI) Stop() {
	t.App.Stop()
}
