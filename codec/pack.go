package codec

import (
	"math/bits"

	"github.com/v3dqpu/qpuasm/isa"
)

const codecAllMux8 = 0xff
const codecAllRaddr64 = ^uint64(0)

// forcedMux returns the lowest mux value mask accepts and true, unless
// mask accepts every mux (the field is then a real operand selector,
// not a discriminator, and the caller's own choice stands).
func forcedMux(mask uint8) (isa.Mux, bool) {
	if mask == codecAllMux8 {
		return 0, false
	}
	return isa.Mux(bits.TrailingZeros8(mask)), true
}

// forcedRaddr is forcedMux's v7.1 raddr counterpart.
func forcedRaddr(mask uint64) (uint8, bool) {
	if mask == codecAllRaddr64 {
		return 0, false
	}
	return uint8(bits.TrailingZeros64(mask)), true
}

// Pack encodes inst into its packed 64-bit word under dev, or returns
// an Error and a meaningless word if inst is not representable.
func Pack(dev isa.Device, inst isa.Instruction) (uint64, error) {
	if inst.Kind == isa.KindBranch {
		return packBranch(dev, inst.Branch)
	}
	return packALU(dev, inst)
}

func packALU(dev isa.Device, inst isa.Instruction) (uint64, error) {
	sigIdx, ok := isa.SignalIndex(dev, inst.Signal)
	if !ok {
		return 0, newErr(ErrInvalidSignal, "signal set %+v has no encoding on this device", inst.Signal)
	}

	var cond uint64
	if inst.Signal.WritesAddress() && dev.AtLeast(isa.Ver41) {
		if !inst.Flags.IsNone() {
			return 0, newErr(ErrUnrepresentable, "instruction carries both an address-writing signal and flags")
		}
		if inst.SignalAddress&^uint8(0x3f) != 0 {
			return 0, newErr(ErrFieldOverflow, "signal address %#x exceeds 6 bits", inst.SignalAddress)
		}
		cond = uint64(inst.SignalAddress & 0x3f)
		if inst.SignalMagic {
			cond |= 1 << 6
		}
	} else {
		c, ok := isa.PackFlags(inst.Flags)
		if !ok {
			return 0, newErr(ErrUnrepresentable, "flags %+v do not match any supported cond-field shape", inst.Flags)
		}
		cond = uint64(c)
	}

	var word uint64
	word = isa.SetField(word, isa.FieldSig, uint64(sigIdx))
	word = isa.SetField(word, isa.FieldCond, cond)

	var addEntry isa.AddEntry
	if dev.Is71() {
		opAdd, raddrA, raddrB, e, err := packAddV71(dev, inst.Add)
		if err != nil {
			return 0, err
		}
		addEntry = e
		opMul, raddrC, raddrD, err := packMulV71(dev, inst.Mul)
		if err != nil {
			return 0, err
		}
		word = isa.SetField(word, isa.FieldOpAdd, uint64(opAdd))
		word = isa.SetField(word, isa.FieldOpMul, uint64(opMul))
		word = isa.SetField(word, isa.FieldRaddrA, uint64(raddrA))
		word = isa.SetField(word, isa.FieldRaddrB, uint64(raddrB))
		word = isa.SetField(word, isa.FieldRaddrC, uint64(raddrC))
		word = isa.SetField(word, isa.FieldRaddrD, uint64(raddrD))
	} else {
		opAdd, muxAddA, muxAddB, e, err := packAddV4(dev, inst.Add)
		if err != nil {
			return 0, err
		}
		addEntry = e
		opMul, muxMulA, muxMulB, err := packMulV4(dev, inst.Mul)
		if err != nil {
			return 0, err
		}
		mulEntry, _ := isa.LookupMulByOp(dev, inst.Mul.Op)
		raddrA, raddrB, err := reconcileRaddrs(inst.Add, inst.Mul, addEntry, mulEntry)
		if err != nil {
			return 0, err
		}
		word = isa.SetField(word, isa.FieldOpAdd, uint64(opAdd))
		word = isa.SetField(word, isa.FieldOpMul, uint64(opMul))
		word = isa.SetField(word, isa.FieldAddA, uint64(muxAddA))
		word = isa.SetField(word, isa.FieldAddB, uint64(muxAddB))
		word = isa.SetField(word, isa.FieldMulA, uint64(muxMulA))
		word = isa.SetField(word, isa.FieldMulB, uint64(muxMulB))
		word = isa.SetField(word, isa.FieldRaddrA, uint64(raddrA))
		word = isa.SetField(word, isa.FieldRaddrB, uint64(raddrB))
	}

	addWaddr := inst.Add.Waddr
	addMagic := inst.Add.MagicWrite
	switch {
	case addEntry.HasWaddrDiscrim:
		// STVPMV/D/P carry no destination; the waddr field instead
		// signals which of the three shares op_add's value.
		addWaddr = addEntry.WaddrValue
		addMagic = false
	case addEntry.HasMagicDiscrim:
		// The MA bit picks _IN vs _OUT for this op instead of meaning
		// "magic destination"; a genuinely magic destination can't be
		// expressed for these four op families.
		if addMagic {
			return 0, newErr(ErrUnrepresentable, "op %s cannot write a magic-register destination, its MA bit selects the _IN/_OUT variant", inst.Add.Op)
		}
		addMagic = addEntry.WantMagic
	}

	if addWaddr&^uint8(0x3f) != 0 || inst.Mul.Waddr&^uint8(0x3f) != 0 {
		return 0, newErr(ErrFieldOverflow, "waddr exceeds 6 bits")
	}
	word = isa.SetField(word, isa.FieldWaddrAdd, uint64(addWaddr))
	word = isa.SetField(word, isa.FieldWaddrMul, uint64(inst.Mul.Waddr))
	if addMagic {
		word = isa.SetField(word, isa.FieldAddMagic, 1)
	}
	if inst.Mul.MagicWrite {
		word = isa.SetField(word, isa.FieldMulMagic, 1)
	}

	return word, nil
}

// reconcileRaddrs finds the single raddr_a/raddr_b pair that satisfies
// every add/mul operand whose Mux selects the register file, failing
// if two operands reference the same port with different addresses.
// An operand whose mux the table row fixes is a discriminator, not a
// source, and claims no port.
func reconcileRaddrs(add, mul isa.ALUHalf, addEntry isa.AddEntry, mulEntry isa.MulEntry) (raddrA, raddrB uint8, err error) {
	var haveA, haveB bool
	consider := func(op isa.Operand) error {
		switch op.Mux {
		case isa.MuxA:
			if haveA && raddrA != op.Raddr {
				return newErr(ErrUnrepresentable, "conflicting raddr_a requests %#x and %#x", raddrA, op.Raddr)
			}
			raddrA, haveA = op.Raddr, true
		case isa.MuxB:
			if haveB && raddrB != op.Raddr {
				return newErr(ErrUnrepresentable, "conflicting raddr_b requests %#x and %#x", raddrB, op.Raddr)
			}
			raddrB, haveB = op.Raddr, true
		}
		return nil
	}
	masks := []uint8{addEntry.AMask, addEntry.BMask, mulEntry.AMask, mulEntry.BMask}
	for i, op := range []isa.Operand{add.A, add.B, mul.A, mul.B} {
		if masks[i] != codecAllMux8 {
			continue
		}
		if err := consider(op); err != nil {
			return 0, 0, err
		}
	}
	return raddrA, raddrB, nil
}

// orderPair returns a and b in the order required to encode op: when
// entry has a commutative alternate, the wire order must make the
// ordering-key comparison agree with whether op is the canonical or
// alternate member. Fails only when the operands are tied under the
// key and op is the alternate, since no wire order can then express it.
func orderPair(entry isa.AddEntry, op isa.Op, a, b isa.Operand, keyFn func(isa.Operand) int) (isa.Operand, isa.Operand, error) {
	if !entry.HasAlt {
		return a, b, nil
	}
	wantAlt := op == entry.AltOp
	if (keyFn(a) > keyFn(b)) == wantAlt {
		return a, b, nil
	}
	a, b = b, a
	if (keyFn(a) > keyFn(b)) == wantAlt {
		return a, b, nil
	}
	return isa.Operand{}, isa.Operand{}, newErr(ErrUnrepresentable, "op %s not representable: operands tie under the commutative ordering key", op)
}

func packSubCode(entry isa.AddEntry, a, b isa.Operand, outPack isa.OutputPack) (uint8, error) {
	if entry.FloatUnpack {
		ca, ok := isa.Float32UnpackCode(a.Unpack)
		if !ok {
			return 0, newErr(ErrInvalidUnpack, "unpack %s not valid for a float-unpack op", a.Unpack)
		}
		cb, ok := isa.Float32UnpackCode(b.Unpack)
		if !ok {
			return 0, newErr(ErrInvalidUnpack, "unpack %s not valid for a float-unpack op", b.Unpack)
		}
		return (ca << 2) | cb, nil
	}
	if entry.Op.HasDst() && entry.OpLast-entry.OpFirst >= 1 {
		c, ok := isa.OutputPackCode(outPack)
		if !ok {
			return 0, newErr(ErrInvalidUnpack, "output pack %s has no code", outPack)
		}
		return c, nil
	}
	return 0, nil
}

func packSubCodeMul(entry isa.MulEntry, a, b isa.Operand, outPack isa.OutputPack) (uint8, error) {
	if entry.FloatUnpack {
		ca, ok := isa.Float32UnpackCode(a.Unpack)
		if !ok {
			return 0, newErr(ErrInvalidUnpack, "unpack %s not valid for a float-unpack op", a.Unpack)
		}
		cb, ok := isa.Float32UnpackCode(b.Unpack)
		if !ok {
			return 0, newErr(ErrInvalidUnpack, "unpack %s not valid for a float-unpack op", b.Unpack)
		}
		return (ca << 2) | cb, nil
	}
	if entry.Op.HasDst() && entry.OpLast-entry.OpFirst >= 1 {
		c, ok := isa.OutputPackCode(outPack)
		if !ok {
			return 0, newErr(ErrInvalidUnpack, "output pack %s has no code", outPack)
		}
		return c, nil
	}
	return 0, nil
}

func packAddV4(dev isa.Device, add isa.ALUHalf) (opAdd uint8, muxA, muxB isa.Mux, entry isa.AddEntry, err error) {
	entry, ok := isa.LookupAddByOp(dev, add.Op)
	if !ok {
		return 0, 0, 0, isa.AddEntry{}, newErr(ErrUnrepresentable, "op %s has no ADD encoding on this device", add.Op)
	}
	a, b, err := orderPair(entry, add.Op, add.A, add.B, orderingKeyV4)
	if err != nil {
		return 0, 0, 0, isa.AddEntry{}, err
	}
	sub, err := packSubCode(entry, a, b, add.OutputPack)
	if err != nil {
		return 0, 0, 0, isa.AddEntry{}, err
	}
	muxA, muxB = a.Mux, b.Mux
	if m, ok := forcedMux(entry.AMask); ok {
		muxA = m
	}
	if m, ok := forcedMux(entry.BMask); ok {
		muxB = m
	}
	return entry.OpFirst + sub, muxA, muxB, entry, nil
}

func packMulV4(dev isa.Device, mul isa.ALUHalf) (opMul uint8, muxA, muxB isa.Mux, err error) {
	entry, ok := isa.LookupMulByOp(dev, mul.Op)
	if !ok {
		return 0, 0, 0, newErr(ErrUnrepresentable, "op %s has no MUL encoding on this device", mul.Op)
	}
	sub, err := packSubCodeMul(entry, mul.A, mul.B, mul.OutputPack)
	if err != nil {
		return 0, 0, 0, err
	}
	muxA, muxB = mul.A.Mux, mul.B.Mux
	if m, ok := forcedMux(entry.AMask); ok {
		muxA = m
	}
	if m, ok := forcedMux(entry.BMask); ok {
		muxB = m
	}
	return entry.OpFirst + sub, muxA, muxB, nil
}

func packAddV71(dev isa.Device, add isa.ALUHalf) (opAdd, raddrA, raddrB uint8, entry isa.AddEntry, err error) {
	entry, ok := isa.LookupAddByOp(dev, add.Op)
	if !ok {
		return 0, 0, 0, isa.AddEntry{}, newErr(ErrUnrepresentable, "op %s has no ADD encoding on this device", add.Op)
	}
	a, b, err := orderPair(entry, add.Op, add.A, add.B, orderingKeyV71)
	if err != nil {
		return 0, 0, 0, isa.AddEntry{}, err
	}
	sub, err := packSubCode(entry, a, b, add.OutputPack)
	if err != nil {
		return 0, 0, 0, isa.AddEntry{}, err
	}
	raddrA, raddrB = a.Raddr, b.Raddr
	if r, ok := forcedRaddr(entry.RaddrMask); ok {
		raddrB = r
	}
	return entry.OpFirst + sub, raddrA, raddrB, entry, nil
}

func packMulV71(dev isa.Device, mul isa.ALUHalf) (opMul, raddrC, raddrD uint8, err error) {
	entry, ok := isa.LookupMulByOp(dev, mul.Op)
	if !ok {
		return 0, 0, 0, newErr(ErrUnrepresentable, "op %s has no MUL encoding on this device", mul.Op)
	}
	sub, err := packSubCodeMul(entry, mul.A, mul.B, mul.OutputPack)
	if err != nil {
		return 0, 0, 0, err
	}
	raddrC, raddrD = mul.A.Raddr, mul.B.Raddr
	if r, ok := forcedRaddr(entry.RaddrMask); ok {
		raddrD = r
	}
	return entry.OpFirst + sub, raddrC, raddrD, nil
}
