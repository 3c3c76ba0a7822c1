package validator

import (
	"testing"

	"github.com/v3dqpu/qpuasm/isa"
)

func nopInst() isa.Instruction {
	return isa.Instruction{Kind: isa.KindALU}
}

func TestValidate_CleanNopProgram(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	v := NewValidator(dev)

	ok, res := v.Validate([]isa.Instruction{nopInst(), nopInst(), nopInst()})
	if !ok || res != nil {
		t.Fatalf("expected a clean nop program to validate, got %v", res)
	}
}

func TestValidate_LdunifAfterLdvary(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	v := NewValidator(dev)

	ldvary := nopInst()
	ldvary.Signal.LoadVary = true
	ldvary.SignalAddress = 3

	ldunif := nopInst()
	ldunif.Signal.LoadUnif = true

	ok, res := v.Validate([]isa.Instruction{ldvary, ldunif})
	if ok {
		t.Fatal("expected ldvary immediately followed by ldunif to be rejected")
	}
	if res.Index != 1 || res.Kind != LdunifAfterLdvary {
		t.Errorf("expected LdunifAfterLdvary at index 1, got %v at %d", res.Kind, res.Index)
	}
}

func TestValidate_ThreeConsecutiveThrswNoDelaySlots(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	v := NewValidator(dev)

	thrsw := func() isa.Instruction {
		i := nopInst()
		i.Signal.ThreadSwitch = true
		return i
	}

	ok, res := v.Validate([]isa.Instruction{thrsw(), thrsw(), thrsw()})
	if ok {
		t.Fatal("expected three consecutive thrsw signals with no trailing delay slots to be rejected")
	}
	if res.Kind != NoProgramEndThrswDelaySlots {
		t.Errorf("expected NoProgramEndThrswDelaySlots, got %v", res.Kind)
	}
}

func TestValidate_ResourceExclusivity(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	v := NewValidator(dev)

	inst := nopInst()
	inst.Add = isa.ALUHalf{Op: isa.OpFAdd, MagicWrite: true, Waddr: 7}  // tmud
	inst.Mul = isa.ALUHalf{Op: isa.OpRecip, MagicWrite: true, Waddr: 33} // rsqrt

	ok, res := v.Validate([]isa.Instruction{inst})
	if ok {
		t.Fatal("expected a TMU write and an SFU write in the same instruction to be rejected")
	}
	if res.Kind != OnlyOneOfTmuSfuTsyTlbReadVpmAllowed {
		t.Errorf("expected OnlyOneOfTmuSfuTsyTlbReadVpmAllowed, got %v", res.Kind)
	}
}

func TestValidate_SmallImmBeforeV71(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	v := NewValidator(dev)

	inst := nopInst()
	inst.Signal.SmallImmA = true

	ok, res := v.Validate([]isa.Instruction{inst})
	if ok {
		t.Fatal("expected small_imm_a on a pre-v7.1 device to be rejected")
	}
	if res.Kind != SmallImmAInvalidBeforeV71 {
		t.Errorf("expected SmallImmAInvalidBeforeV71, got %v", res.Kind)
	}
}

func TestValidate_SfuWriteDuringThrswDelaySlot(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	v := NewValidator(dev)

	thrsw := nopInst()
	thrsw.Signal.ThreadSwitch = true

	sfuWrite := nopInst()
	sfuWrite.Mul = isa.ALUHalf{Op: isa.OpRecip, MagicWrite: true, Waddr: 33}

	ok, res := v.Validate([]isa.Instruction{thrsw, sfuWrite})
	if ok {
		t.Fatal("expected an SFU write in a THRSW delay slot to be rejected")
	}
	if res.Kind != SfuWriteDuringThrswDelaySlots {
		t.Errorf("expected SfuWriteDuringThrswDelaySlots, got %v", res.Kind)
	}
}
