package gui

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/v3dqpu/qpuasm/isa"
)

func TestInspector_InitializeViews(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	g := &Inspector{Dev: isa.NewDevice(isa.Ver42), App: testApp}
	g.initializeViews()

	if g.WordInput == nil || g.AsmInput == nil {
		t.Fatal("input widgets not created")
	}
	if g.FieldsView == nil || g.AsmOutput == nil || g.WordOutput == nil {
		t.Fatal("result panels not created")
	}
}

func TestInspector_DecodeWord(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	g := &Inspector{Dev: isa.NewDevice(isa.Ver42), App: testApp}
	g.initializeViews()

	g.WordInput.SetText("0x3c003186bb800000")
	g.decodeWord()

	if g.WordOutput.Text() == "" {
		t.Error("expected word panel to be filled after a successful decode")
	}
}

func TestInspector_EncodeAsm(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	g := &Inspector{Dev: isa.NewDevice(isa.Ver42), App: testApp}
	g.initializeViews()

	g.AsmInput.SetText("nop ; nop")
	g.encodeAsm()

	if g.WordOutput.Text() == "" {
		t.Error("expected word panel to be filled after a successful encode")
	}
}

func TestInspector_Clear(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	g := &Inspector{Dev: isa.NewDevice(isa.Ver42), App: testApp}
	g.initializeViews()

	g.AsmInput.SetText("nop ; nop")
	g.encodeAsm()
	g.clear()

	if g.WordOutput.Text() != "" {
		t.Error("expected clear to empty the word panel")
	}
}
