package asm

import (
	"testing"

	"github.com/v3dqpu/qpuasm/isa"
)

func TestParseLine_NopNop(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	p := New(dev, "test.qasm")

	inst, err := p.ParseLine("nop ; nop", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Add.Op != isa.OpNop || inst.Mul.Op != isa.OpNop {
		t.Errorf("expected nop/nop, got %v/%v", inst.Add.Op, inst.Mul.Op)
	}
}

func TestParseLine_AddWithOperands(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	p := New(dev, "test.qasm")

	inst, err := p.ParseLine("add rf2, ra3, rb5 ; nop", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Add.Op != isa.OpAdd {
		t.Fatalf("expected add, got %v", inst.Add.Op)
	}
	if inst.Add.Waddr != 2 || inst.Add.MagicWrite {
		t.Errorf("unexpected dest: waddr=%d magic=%t", inst.Add.Waddr, inst.Add.MagicWrite)
	}
	if inst.Add.A.Mux != isa.MuxA || inst.Add.A.Raddr != 3 {
		t.Errorf("unexpected operand a: %+v", inst.Add.A)
	}
	if inst.Add.B.Mux != isa.MuxB || inst.Add.B.Raddr != 5 {
		t.Errorf("unexpected operand b: %+v", inst.Add.B)
	}
}

func TestParseLine_UnknownMnemonicSuggestsCandidate(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	p := New(dev, "test.qasm")

	_, err := p.ParseLine("adc rf0, ra0, rb0 ; nop", 1)
	if err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Kind != ErrorUnknownMnemonic {
		t.Errorf("expected ErrorUnknownMnemonic, got %v", e.Kind)
	}
	found := false
	for _, c := range e.Candidates {
		if c == "add" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'add' among candidates, got %v", e.Candidates)
	}
}

func TestParseLine_MagicDestination(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	p := New(dev, "test.qasm")

	inst, err := p.ParseLine("nop ; fmul tmud, ra0, rb0", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inst.Mul.MagicWrite || inst.Mul.Waddr != 7 {
		t.Errorf("expected magic waddr 7 (tmud), got waddr=%d magic=%t", inst.Mul.Waddr, inst.Mul.MagicWrite)
	}
}

func TestParseLine_Branch(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	p := New(dev, "test.qasm")

	inst, err := p.ParseLine("b.a0 pc+16", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Kind != isa.KindBranch {
		t.Fatalf("expected a branch instruction")
	}
	if inst.Branch.Cond != isa.BranchA0 {
		t.Errorf("expected cond a0, got %v", inst.Branch.Cond)
	}
	if inst.Branch.IPDest != isa.DestRel || inst.Branch.Offset != 16 {
		t.Errorf("expected rel dest +16, got %v %d", inst.Branch.IPDest, inst.Branch.Offset)
	}
}
