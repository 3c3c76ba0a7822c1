package validator

import (
	"math"

	"github.com/v3dqpu/qpuasm/isa"
)

// Magic write-address values the resource-classification helpers
// below key on. These mirror isa.MagicWaddrs; they are duplicated as
// small local constants rather than looked up by name on every check
// since the window scan runs once per instruction with no allocation.
const (
	waddrR4      = 4
	waddrTMUFrom = 7
	waddrTMUTo   = 23
	waddrVPM     = 24
	waddrVPMU    = 25
	waddrTLB     = 26
	waddrTLBU    = 27
	waddrTMU0CSIS = 28
	waddrSyncB   = 29
	waddrSync    = 30
	waddrSyncU   = 31
	waddrSFUFrom = 32
	waddrSFUTo   = 37
)

// delayWindow is the width, in instructions, of a branch or THRSW
// delay slot: the instruction itself plus the two that follow it.
const delayWindow = 3

// Validator scans an instruction stream in order, carrying forward
// the small window of state the sequencing rules need. It holds no
// resources and allocates nothing per call; a single instance can be
// reused across programs by calling Reset between them.
type Validator struct {
	dev isa.Device

	program      []isa.Instruction
	last         isa.Instruction

	lastBranchIP   int
	lastThrswIP    int
	lastSFUWrite   int
	firstTLBZWrite int
	thrswCount     int

	// lastThrswFound is set the first time a THRSW immediately follows
	// another THRSW (the thread-end marker pair). It starts false, and
	// Validate clears it through Reset before every scan, so state from
	// a previous program never carries over.
	lastThrswFound bool
	threndFound    bool
	threndIP       int
}

// NewValidator builds a Validator for dev with window state reset to
// its initial values.
func NewValidator(dev isa.Device) *Validator {
	v := &Validator{dev: dev}
	v.Reset()
	return v
}

// Reset returns the window state to its initial values, for reuse of
// a single Validator across independent programs.
func (v *Validator) Reset() {
	v.lastBranchIP = -10
	v.lastThrswIP = -10
	v.lastSFUWrite = -10
	v.firstTLBZWrite = math.MaxInt32
	v.thrswCount = 0
	v.lastThrswFound = false
	v.threndFound = false
	v.threndIP = -1
}

// Validate scans insts in order and returns (true, nil) if every
// instruction satisfies every sequencing rule, or (false, result) for
// the first violation found. Validate resets window state before
// scanning, so a single Validator can check multiple programs safely.
func (v *Validator) Validate(insts []isa.Instruction) (bool, *Result) {
	v.Reset()
	v.program = insts
	for ip, inst := range insts {
		if res := v.checkOne(ip, inst); res != nil {
			return false, res
		}
		v.advance(ip, inst)
	}
	if v.thrswCount >= 2 && !v.lastThrswFound {
		return false, newResult(len(insts)-1, MissingLastThrswMarker,
			"program has %d THRSWs but none marks thread end", v.thrswCount)
	}
	if v.threndFound && len(insts)-1-v.threndIP < 2 {
		return false, newResult(v.threndIP, NoProgramEndThrswDelaySlots,
			"thread-end THRSW at %d has fewer than 2 trailing instructions", v.threndIP)
	}
	return true, nil
}

func (v *Validator) checkOne(ip int, inst isa.Instruction) *Result {
	inBranchDelay := ip-v.lastBranchIP < delayWindow
	inThrswDelay := ip-v.lastThrswIP < delayWindow
	inSFUWindow := ip-v.lastSFUWrite < delayWindow
	afterTLBZWrite := ip > v.firstTLBZWrite

	// Rule 1.
	if inst.Kind == isa.KindBranch && afterTLBZWrite {
		b := inst.Branch
		if b.MsfIgnore != isa.MsfIgnoreNone &&
			b.Cond != isa.BranchAlways && b.Cond != isa.BranchA0 && b.Cond != isa.BranchNA0 {
			return newResult(ip, ImplicitBranchMsfReadAfterTlbZWrite,
				"branch with msf-ignore %v and condition %v implicitly reads MSF after a TLB-Z write at %d",
				b.MsfIgnore, b.Cond, v.firstTLBZWrite)
		}
	}

	// Rule 2.
	if afterTLBZWrite {
		if inst.Kind == isa.KindALU && inst.Add.Op == isa.OpSetMsf {
			return newResult(ip, SetMsfAfterTlbZWrite,
				"SETMSF after a TLB-Z write at %d", v.firstTLBZWrite)
		}
		// This instruction model has no operand path that reads the
		// MSF magic register directly (Mux/Raddr only reach the
		// register file and accumulators), so there is nothing
		// structural to test here; the rule is vacuously satisfied.
	}

	// Rules 3 and 4.
	if res := v.checkSmallImm(ip, inst); res != nil {
		return res
	}

	// Rule 5.
	if ip > 0 {
		prev := v.last
		if prev.Signal.LoadVary && ldunifFamily(inst.Signal) {
			return newResult(ip, LdunifAfterLdvary,
				"LDUNIF/LDUNIFA immediately follows LDVARY at %d", ip-1)
		}
		// Rule 6.
		if v.dev.Ver < isa.Ver42 && ldunifFamily(prev.Signal) && ldunifFamily(inst.Signal) {
			return newResult(ip, ConsecutiveLdunifBeforeV42,
				"consecutive LDUNIF/LDUNIFA before v4.2")
		}
	}

	// Rule 7.
	if inThrswDelay {
		if instSFUWrite(inst) {
			return newResult(ip, SfuWriteDuringThrswDelaySlots,
				"SFU write inside the THRSW delay slot opened at %d", v.lastThrswIP)
		}
		if v.dev.Ver == isa.Ver42 && inst.Signal.LoadVary {
			return newResult(ip, LdvaryDuringThrswDelaySlot,
				"LDVARY inside the THRSW delay slot opened at %d", v.lastThrswIP)
		}
		if v.dev.AtLeast(isa.Ver71) && ip-v.lastThrswIP == 2 && inst.Signal.LoadVary {
			return newResult(ip, LdvaryInSecondThrswDelaySlot,
				"LDVARY in the second THRSW delay slot opened at %d", v.lastThrswIP)
		}
	}

	// Rule 8.
	if inSFUWindow && ip != v.lastSFUWrite {
		if r4Access(inst) {
			return newResult(ip, R4AccessNearSfuWrite,
				"R4 access within 2 instructions of the SFU write at %d", v.lastSFUWrite)
		}
		if instSFUWrite(inst) {
			return newResult(ip, SfuWriteTooSoonAfterSfuWrite,
				"SFU write within 2 instructions of the previous SFU write at %d", v.lastSFUWrite)
		}
	}

	// Rule 9.
	if res := v.checkResourceExclusivity(ip, inst); res != nil {
		return res
	}

	// Rule 10. A THRSW inside the 2-instruction window right after the
	// thread-end marker is just occupying a required delay slot, not a
	// fresh thread-switch attempt; only a THRSW past that window counts
	// as "after the last THRSW".
	isThrsw := inst.Signal.ThreadSwitch
	if isThrsw {
		if inBranchDelay {
			return newResult(ip, ThrswInBranchDelaySlot,
				"THRSW inside the branch delay slot opened at %d", v.lastBranchIP)
		}
		if v.lastThrswFound && ip-v.threndIP > 2 {
			return newResult(ip, ThrswAfterLastThrsw,
				"THRSW at %d follows the thread-end THRSW at %d", ip, v.lastThrswIP)
		}
		if !v.lastThrswFound && inThrswDelay && ip-v.lastThrswIP != 1 {
			return newResult(ip, ThrswTooSoonAfterThrsw,
				"THRSW too soon after the previous THRSW at %d", v.lastThrswIP)
		}
	}

	// Rule 11.
	if v.threndFound {
		sinceThrend := ip - v.threndIP
		if sinceThrend >= 0 && sinceThrend <= 2 {
			if v.dev.Ver == isa.Ver42 && sinceThrend > 0 && nonMagicWrite(inst) {
				return newResult(ip, RegisterFileWriteAfterThreadEnd,
					"non-magic register-file write %d instructions after thread end", sinceThrend)
			}
			if v.dev.AtLeast(isa.Ver71) {
				if sinceThrend > 0 && writesRf2OrRf3(inst) {
					return newResult(ip, Rf2Rf3WriteAfterThreadEnd,
						"write to rf2/rf3 %d instructions after thread end", sinceThrend)
				}
				if sinceThrend == 0 && nonMagicWrite(inst) {
					return newResult(ip, RegisterFileWriteAtThreadEnd,
						"register-file write at the thread-end THRSW itself")
				}
			}
		}
	}
	if ip == len(v.program)-1 {
		if inst.Kind == isa.KindALU && (inst.Add.Op == isa.OpTMUWT || inst.Mul.Op == isa.OpTMUWT) {
			return newResult(ip, TmuwtInFinalInstruction, "TMUWT as the program's final instruction")
		}
	}

	// Rule 12.
	if inst.Kind == isa.KindBranch {
		if inBranchDelay {
			return newResult(ip, BranchInBranchDelaySlot,
				"branch inside the branch delay slot opened at %d", v.lastBranchIP)
		}
		if inThrswDelay {
			return newResult(ip, BranchInThrswDelaySlot,
				"branch inside the THRSW delay slot opened at %d", v.lastThrswIP)
		}
	}

	return nil
}

func (v *Validator) checkSmallImm(ip int, inst isa.Instruction) *Result {
	sig := inst.Signal
	if v.dev.Ver < isa.Ver71 {
		if sig.SmallImmA {
			return newResult(ip, SmallImmAInvalidBeforeV71, "small_imm_a set before v7.1")
		}
		if sig.SmallImmC {
			return newResult(ip, SmallImmCInvalidBeforeV71, "small_imm_c set before v7.1")
		}
		if sig.SmallImmD {
			return newResult(ip, SmallImmDInvalidBeforeV71, "small_imm_d set before v7.1")
		}
		return nil
	}

	if inst.Kind != isa.KindALU {
		return nil
	}
	if (sig.SmallImmA || sig.SmallImmB) && inst.Add.Op == isa.OpNop {
		return newResult(ip, SmallImmRequiresAddOp, "small_imm_a/b set but ADD op is NOP")
	}
	if (sig.SmallImmC || sig.SmallImmD) && inst.Mul.Op == isa.OpNop {
		return newResult(ip, SmallImmRequiresMulOp, "small_imm_c/d set but MUL op is NOP")
	}
	if sig.SmallImmCount() > 1 {
		return newResult(ip, TooManySmallImmSelectors, "more than one small-immediate selector set")
	}
	return nil
}

func (v *Validator) checkResourceExclusivity(ip int, inst isa.Instruction) *Result {
	count := 0
	if instTMUWrite(inst) {
		count++
	}
	if instSFUWrite(inst) {
		count++
	}
	if instVPMWrite(inst) {
		count++
	}
	if instTLBWrite(inst) {
		count++
	}
	if instTSYWrite(inst) {
		count++
	}
	if v.dev.Ver == isa.Ver42 && inst.Signal.LoadTMU {
		count++
	}
	if inst.Signal.LoadTLB {
		count++
	}
	if inst.Signal.LoadVPM {
		count++
	}
	if inst.Signal.LoadTLBU {
		count++
	}
	if count > 1 {
		return newResult(ip, OnlyOneOfTmuSfuTsyTlbReadVpmAllowed,
			"%d resource triggers in one instruction, at most 1 allowed", count)
	}
	return nil
}

// advance folds inst into the window state after checkOne has cleared
// it, and records it as v.last/v.program for the next iteration.
func (v *Validator) advance(ip int, inst isa.Instruction) {
	v.last = inst

	if inst.Kind == isa.KindBranch {
		v.lastBranchIP = ip
	}
	if inst.Signal.ThreadSwitch {
		if !v.lastThrswFound && ip-v.lastThrswIP == 1 {
			v.lastThrswFound = true
			v.threndFound = true
			v.threndIP = ip
		}
		v.lastThrswIP = ip
		v.thrswCount++
	}
	if instSFUWrite(inst) {
		v.lastSFUWrite = ip
	}
	if (instTLBWrite(inst)) && v.firstTLBZWrite == math.MaxInt32 {
		v.firstTLBZWrite = ip
	}
}

func ldunifFamily(s isa.Signals) bool {
	return s.LoadUnif || s.LoadUnifA || s.LoadUnifRF || s.LoadUnifARF
}

func isMagicInRange(h isa.ALUHalf, lo, hi uint8) bool {
	return h.MagicWrite && h.Waddr >= lo && h.Waddr <= hi
}

func instSFUWrite(inst isa.Instruction) bool {
	if inst.Kind != isa.KindALU {
		return false
	}
	return isMagicInRange(inst.Add, waddrSFUFrom, waddrSFUTo) || isMagicInRange(inst.Mul, waddrSFUFrom, waddrSFUTo)
}

func instTMUWrite(inst isa.Instruction) bool {
	if inst.Kind != isa.KindALU {
		return false
	}
	tmu := func(h isa.ALUHalf) bool {
		return isMagicInRange(h, waddrTMUFrom, waddrTMUTo) || isMagicInRange(h, waddrTMU0CSIS, waddrTMU0CSIS)
	}
	return tmu(inst.Add) || tmu(inst.Mul)
}

func instVPMWrite(inst isa.Instruction) bool {
	if inst.Kind != isa.KindALU {
		return false
	}
	vpm := func(h isa.ALUHalf) bool {
		if isMagicInRange(h, waddrVPM, waddrVPMU) {
			return true
		}
		switch h.Op {
		case isa.OpStVPMV, isa.OpStVPMD, isa.OpStVPMP:
			return true
		}
		return false
	}
	return vpm(inst.Add) || vpm(inst.Mul)
}

func instTLBWrite(inst isa.Instruction) bool {
	if inst.Kind != isa.KindALU {
		return false
	}
	return isMagicInRange(inst.Add, waddrTLB, waddrTLBU) || isMagicInRange(inst.Mul, waddrTLB, waddrTLBU)
}

func instTSYWrite(inst isa.Instruction) bool {
	if inst.Kind != isa.KindALU {
		return false
	}
	return isMagicInRange(inst.Add, waddrSyncB, waddrSyncU) || isMagicInRange(inst.Mul, waddrSyncB, waddrSyncU)
}

func r4Access(inst isa.Instruction) bool {
	if inst.Kind != isa.KindALU {
		return false
	}
	reads := func(h isa.ALUHalf) bool {
		return h.A.Mux == isa.MuxR4 || h.B.Mux == isa.MuxR4
	}
	writes := func(h isa.ALUHalf) bool {
		return h.MagicWrite && h.Waddr == waddrR4
	}
	return reads(inst.Add) || reads(inst.Mul) || writes(inst.Add) || writes(inst.Mul)
}

func nonMagicWrite(inst isa.Instruction) bool {
	if inst.Kind != isa.KindALU {
		return false
	}
	writes := func(h isa.ALUHalf) bool { return h.Op.HasDst() && !h.MagicWrite }
	return writes(inst.Add) || writes(inst.Mul) || inst.Signal.WritesAddress()
}

func writesRf2OrRf3(inst isa.Instruction) bool {
	if inst.Kind != isa.KindALU {
		return false
	}
	writes := func(h isa.ALUHalf) bool {
		return h.Op.HasDst() && !h.MagicWrite && (h.Waddr == 2 || h.Waddr == 3)
	}
	if writes(inst.Add) || writes(inst.Mul) {
		return true
	}
	return inst.Signal.WritesAddress() && (inst.SignalAddress == 2 || inst.SignalAddress == 3)
}
