// Package gui implements a graphical instruction inspector: type a
// hex word or an assembly line and see the decoded record, its
// disassembly, and any validator rejection, side by side.
package gui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/v3dqpu/qpuasm/asm"
	"github.com/v3dqpu/qpuasm/codec"
	"github.com/v3dqpu/qpuasm/disasm"
	"github.com/v3dqpu/qpuasm/isa"
	"github.com/v3dqpu/qpuasm/validator"
)

// Inspector is the graphical instruction-inspector window.
type Inspector struct {
	Dev isa.Device
	App fyne.App
	Window fyne.Window

	WordInput *widget.Entry
	AsmInput  *widget.Entry

	FieldsView  *widget.TextGrid
	AsmOutput   *widget.TextGrid
	WordOutput  *widget.TextGrid
	StatusLabel *widget.Label

	Toolbar *widget.Toolbar

	history []string
}

// RunInspector runs the GUI for dev.
func RunInspector(dev isa.Device) error {
	g := newInspector(dev)
	g.Window.ShowAndRun()
	return nil
}

func newInspector(dev isa.Device) *Inspector {
	myApp := app.New()
	myWindow := myApp.NewWindow("V3D QPU Instruction Inspector")

	g := &Inspector{
		Dev:    dev,
		App:    myApp,
		Window: myWindow,
	}

	g.initializeViews()
	g.buildLayout()
	g.setupToolbar()

	myWindow.Resize(fyne.NewSize(1100, 700))
	return g
}

func (g *Inspector) initializeViews() {
	g.WordInput = widget.NewEntry()
	g.WordInput.SetPlaceHolder("0x3c003186bb800000")

	g.AsmInput = widget.NewEntry()
	g.AsmInput.SetPlaceHolder("add rf2, ra3, rb5 ; nop")

	g.FieldsView = widget.NewTextGrid()
	g.FieldsView.SetText("no instruction decoded")

	g.AsmOutput = widget.NewTextGrid()
	g.WordOutput = widget.NewTextGrid()

	g.StatusLabel = widget.NewLabel("Ready")
}

func (g *Inspector) buildLayout() {
	decodePanel := container.NewBorder(
		widget.NewLabel("Word (hex)"),
		nil, nil,
		widget.NewButton("Decode", g.decodeWord),
		g.WordInput,
	)

	encodePanel := container.NewBorder(
		widget.NewLabel("Assembly"),
		nil, nil,
		widget.NewButton("Encode", g.encodeAsm),
		g.AsmInput,
	)

	inputPanel := container.NewVBox(decodePanel, encodePanel)

	fieldsPanel := container.NewBorder(
		widget.NewLabel("Decoded fields"),
		nil, nil, nil,
		container.NewScroll(g.FieldsView),
	)
	asmPanel := container.NewBorder(
		widget.NewLabel("Disassembly"),
		nil, nil, nil,
		container.NewScroll(g.AsmOutput),
	)
	wordPanel := container.NewBorder(
		widget.NewLabel("Packed word"),
		nil, nil, nil,
		container.NewScroll(g.WordOutput),
	)

	resultTabs := container.NewAppTabs(
		container.NewTabItem("Fields", fieldsPanel),
		container.NewTabItem("Disassembly", asmPanel),
		container.NewTabItem("Word", wordPanel),
	)

	statusBar := container.NewBorder(nil, nil, nil, nil, g.StatusLabel)

	content := container.NewBorder(
		container.NewVBox(g.Toolbar, inputPanel),
		statusBar,
		nil, nil,
		resultTabs,
	)

	g.Window.SetContent(content)
}

func (g *Inspector) setupToolbar() {
	g.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.ViewRefreshIcon(), g.decodeWord),
		widget.NewToolbarAction(theme.ConfirmIcon(), g.encodeAsm),
		widget.NewToolbarAction(theme.ContentClearIcon(), g.clear),
	)
}

// decodeWord parses the hex word in WordInput, unpacks it, and fills
// every result panel, including a validator pass over the single
// decoded instruction.
func (g *Inspector) decodeWord() {
	text := strings.TrimSpace(g.WordInput.Text)
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	word, err := strconv.ParseUint(text, 16, 64)
	if err != nil {
		g.setStatus(fmt.Sprintf("bad hex word: %v", err))
		return
	}

	inst, err := codec.Unpack(g.Dev, word)
	if err != nil {
		g.setStatus(fmt.Sprintf("unpack failed: %v", err))
		g.FieldsView.SetText(err.Error())
		return
	}

	g.showInstruction(word, inst)
	g.setStatus("decoded")
}

// encodeAsm parses the assembly line in AsmInput, packs it, and fills
// every result panel.
func (g *Inspector) encodeAsm() {
	line := strings.TrimSpace(g.AsmInput.Text)
	if line == "" {
		g.setStatus("nothing to assemble")
		return
	}

	p := asm.New(g.Dev, "gui")
	inst, err := p.ParseLine(line, 1)
	if err != nil {
		g.setStatus(fmt.Sprintf("assemble failed: %v", err))
		g.FieldsView.SetText(err.Error())
		return
	}

	word, err := codec.Pack(g.Dev, inst)
	if err != nil {
		g.setStatus(fmt.Sprintf("pack failed: %v", err))
		g.FieldsView.SetText(err.Error())
		return
	}

	g.history = append(g.history, line)
	g.showInstruction(word, inst)
	g.setStatus("encoded")
}

func (g *Inspector) showInstruction(word uint64, inst isa.Instruction) {
	g.WordOutput.SetText(fmt.Sprintf("0x%016x", word))

	d := disasm.New(g.Dev, disasm.DefaultOptions())
	g.AsmOutput.SetText(d.Line(inst))

	var sb strings.Builder
	fmt.Fprintf(&sb, "kind: %v\n", inst.Kind)
	if inst.Kind == isa.KindALU {
		fmt.Fprintf(&sb, "add: %+v\n", inst.Add)
		fmt.Fprintf(&sb, "mul: %+v\n", inst.Mul)
		fmt.Fprintf(&sb, "flags: %+v\n", inst.Flags)
	} else {
		fmt.Fprintf(&sb, "branch: %+v\n", inst.Branch)
	}
	fmt.Fprintf(&sb, "signal: %+v\n", inst.Signal)
	g.FieldsView.SetText(sb.String())

	v := validator.NewValidator(g.Dev)
	if ok, res := v.Validate([]isa.Instruction{inst}); !ok {
		fmt.Fprintf(&sb, "\nvalidation: %s\n", res.Error())
		g.FieldsView.SetText(sb.String())
	}
}

func (g *Inspector) clear() {
	g.WordInput.SetText("")
	g.AsmInput.SetText("")
	g.FieldsView.SetText("no instruction decoded")
	g.AsmOutput.SetText("")
	g.WordOutput.SetText("")
	g.setStatus("cleared")
}

func (g *Inspector) setStatus(text string) {
	g.StatusLabel.SetText(text)
}
