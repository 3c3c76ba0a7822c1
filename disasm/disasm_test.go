package disasm

import (
	"strings"
	"testing"

	"github.com/v3dqpu/qpuasm/isa"
)

func TestLine_NopNop(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	inst := isa.Instruction{Kind: isa.KindALU, Add: isa.ALUHalf{Op: isa.OpNop}, Mul: isa.ALUHalf{Op: isa.OpNop}}

	d := New(dev, nil)
	line := d.Line(inst)

	if !strings.Contains(line, "nop") {
		t.Errorf("expected nop in output, got %q", line)
	}
	if !strings.Contains(line, "; nop") {
		t.Errorf("expected mul half to start after a semicolon, got %q", line)
	}
}

func TestLine_DestAndOperands(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	inst := isa.Instruction{
		Kind: isa.KindALU,
		Add: isa.ALUHalf{
			Op:    isa.OpAdd,
			A:     isa.Operand{Mux: isa.MuxA, Raddr: 3},
			B:     isa.Operand{Mux: isa.MuxB, Raddr: 5},
			Waddr: 2,
		},
		Mul: isa.ALUHalf{Op: isa.OpNop},
	}

	d := New(dev, nil)
	line := d.Line(inst)

	if !strings.Contains(line, "add rf2, ra3, rb5") {
		t.Errorf("unexpected add rendering: %q", line)
	}
}

func TestLine_MagicWaddr(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	inst := isa.Instruction{
		Kind: isa.KindALU,
		Add:  isa.ALUHalf{Op: isa.OpNop},
		Mul: isa.ALUHalf{
			Op:         isa.OpFMul,
			A:          isa.Operand{Mux: isa.MuxA, Raddr: 0},
			B:          isa.Operand{Mux: isa.MuxB, Raddr: 0},
			Waddr:      7,
			MagicWrite: true,
		},
	}

	d := New(dev, nil)
	line := d.Line(inst)

	if !strings.Contains(line, "tmud") {
		t.Errorf("expected magic waddr name tmud, got %q", line)
	}
}

func TestLine_SignalSection(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	inst := isa.Instruction{
		Kind:   isa.KindALU,
		Signal: isa.Signals{LoadUnif: true},
		Add:    isa.ALUHalf{Op: isa.OpNop},
		Mul:    isa.ALUHalf{Op: isa.OpNop},
	}

	d := New(dev, nil)
	line := d.Line(inst)

	if !strings.Contains(line, "sig=ldunif") {
		t.Errorf("expected signal section, got %q", line)
	}
}

func TestBranchLine(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	inst := isa.Instruction{
		Kind: isa.KindBranch,
		Branch: isa.Branch{
			Cond:   isa.BranchA0,
			IPDest: isa.DestRel,
			Offset: 16,
		},
	}

	d := New(dev, nil)
	line := d.Line(inst)

	if !strings.HasPrefix(line, "b.a0 ") {
		t.Errorf("unexpected branch mnemonic: %q", line)
	}
	if !strings.Contains(line, "pc+16") {
		t.Errorf("expected relative offset rendering, got %q", line)
	}
}
