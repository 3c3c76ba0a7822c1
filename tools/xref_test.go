package tools

import (
	"strings"
	"testing"

	"github.com/v3dqpu/qpuasm/isa"
)

func TestGenerateXRef_CountsOps(t *testing.T) {
	r, err := GenerateXRef(isa.NewDevice(isa.Ver42), "add rf0, ra1, rb2 ; nop\nnop ; mov rf1, ra3\n", "test.qasm")
	if err != nil {
		t.Fatalf("GenerateXRef error: %v", err)
	}
	if r.Instructions != 2 {
		t.Errorf("expected 2 instructions, got %d", r.Instructions)
	}

	var addCount, movCount int
	for _, u := range r.Ops {
		switch u.Name {
		case "add":
			addCount = u.Add
		case "mov":
			movCount = u.Mul
		}
	}
	if addCount != 1 {
		t.Errorf("expected 1 add usage, got %d", addCount)
	}
	if movCount != 1 {
		t.Errorf("expected 1 mov usage, got %d", movCount)
	}
}

func TestGenerateXRef_ParseError(t *testing.T) {
	if _, err := GenerateXRef(isa.NewDevice(isa.Ver42), "frobnicate garbage\n", "test.qasm"); err == nil {
		t.Error("expected a parse error for unrecognized input")
	}
}

func TestGenerateXRef_CountsSignals(t *testing.T) {
	r, err := GenerateXRef(isa.NewDevice(isa.Ver42), "add rf0, ra1, rb2 ; nop ; sig=ldunif\n", "test.qasm")
	if err != nil {
		t.Fatalf("GenerateXRef error: %v", err)
	}
	found := false
	for _, s := range r.Signals {
		if s.Name == "ldunif" {
			found = true
			if s.Count != 1 {
				t.Errorf("expected ldunif count 1, got %d", s.Count)
			}
		}
	}
	if !found {
		t.Error("expected ldunif in signal usage")
	}
}

func TestBuildXRef_NilInput(t *testing.T) {
	r := BuildXRef(nil)
	if r.Instructions != 0 {
		t.Errorf("expected 0 instructions for nil input, got %d", r.Instructions)
	}
}

func TestXRefReport_StringRendersSections(t *testing.T) {
	r, err := GenerateXRef(isa.NewDevice(isa.Ver42), "nop ; nop\n", "test.qasm")
	if err != nil {
		t.Fatalf("GenerateXRef error: %v", err)
	}
	text := r.String()
	if !strings.Contains(text, "Opcodes") || !strings.Contains(text, "Signals") {
		t.Errorf("expected Opcodes and Signals sections, got: %s", text)
	}
}

func TestUnusedOps_ExcludesSeenOps(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	r, err := GenerateXRef(dev, "add rf0, ra1, rb2 ; nop\n", "test.qasm")
	if err != nil {
		t.Fatalf("GenerateXRef error: %v", err)
	}
	for _, name := range UnusedOps(dev, r) {
		if name == "add" {
			t.Error("did not expect add in the unused-ops list after using it")
		}
	}
}
