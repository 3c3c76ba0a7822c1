package codec

import (
	"github.com/v3dqpu/qpuasm/isa"
)

// Unpack decodes a packed 64-bit instruction word into a structured
// isa.Instruction under dev, per the unpacker's dispatch/decode rules.
func Unpack(dev isa.Device, word uint64) (isa.Instruction, error) {
	opMul := isa.GetField(word, isa.FieldOpMul)
	sigRaw := isa.GetField(word, isa.FieldSig)

	if opMul != 0 {
		return unpackALU(dev, word)
	}
	if (sigRaw>>3)&0x3 == 0b10 {
		return unpackBranch(dev, word)
	}
	return isa.Instruction{}, newErr(ErrMalformed, "zero mul-opcode field with non-branch signal prefix")
}

func unpackALU(dev isa.Device, word uint64) (isa.Instruction, error) {
	sigRaw := uint8(isa.GetField(word, isa.FieldSig))
	sigTable := isa.SignalMap(dev)
	if int(sigRaw) >= len(sigTable) {
		return isa.Instruction{}, newErr(ErrInvalidSignal, "signal index %d out of range", sigRaw)
	}
	sigEntry := sigTable[sigRaw]
	if sigEntry.Reserved {
		return isa.Instruction{}, newErr(ErrInvalidSignal, "signal index %d is reserved", sigRaw)
	}

	inst := isa.Instruction{Kind: isa.KindALU, Signal: sigEntry.Signals}

	cond := uint8(isa.GetField(word, isa.FieldCond))
	if sigEntry.Signals.WritesAddress() && dev.AtLeast(isa.Ver41) {
		inst.SignalAddress = cond & 0x3f
		inst.SignalMagic = (cond>>6)&0x1 != 0
	} else {
		flags, ok := isa.UnpackFlags(cond)
		if !ok {
			return isa.Instruction{}, newErr(ErrReservedFlags, "cond field %#x is reserved", cond)
		}
		inst.Flags = flags
	}

	opAdd := uint8(isa.GetField(word, isa.FieldOpAdd))
	opMul := uint8(isa.GetField(word, isa.FieldOpMul))

	// Read the ADD half's waddr and MA bit off the wire before
	// decoding: STVPM and LDVPM _IN/_OUT rows need them to pick the
	// right table entry, not just to fill in the decoded Waddr field.
	waddrAdd := uint8(isa.GetField(word, isa.FieldWaddrAdd))
	magicAdd := isa.GetField(word, isa.FieldAddMagic) != 0

	var add, mul isa.ALUHalf
	var err error
	if dev.Is71() {
		raddrA := uint8(isa.GetField(word, isa.FieldRaddrA))
		raddrB := uint8(isa.GetField(word, isa.FieldRaddrB))
		raddrC := uint8(isa.GetField(word, isa.FieldRaddrC))
		raddrD := uint8(isa.GetField(word, isa.FieldRaddrD))

		add, err = decodeAddV71(dev, opAdd, raddrA, raddrB, sigEntry.Signals, waddrAdd, magicAdd)
		if err != nil {
			return isa.Instruction{}, err
		}
		mul, err = decodeMulV71(dev, opMul, raddrC, raddrD, sigEntry.Signals)
		if err != nil {
			return isa.Instruction{}, err
		}
	} else {
		inst.RaddrA = uint8(isa.GetField(word, isa.FieldRaddrA))
		inst.RaddrB = uint8(isa.GetField(word, isa.FieldRaddrB))
		muxAddA := isa.Mux(isa.GetField(word, isa.FieldAddA))
		muxAddB := isa.Mux(isa.GetField(word, isa.FieldAddB))
		muxMulA := isa.Mux(isa.GetField(word, isa.FieldMulA))
		muxMulB := isa.Mux(isa.GetField(word, isa.FieldMulB))

		add, err = decodeAddV4(dev, opAdd, muxAddA, muxAddB, inst.RaddrA, inst.RaddrB, waddrAdd, magicAdd)
		if err != nil {
			return isa.Instruction{}, err
		}
		mul, err = decodeMulV4(dev, opMul, muxMulA, muxMulB, inst.RaddrA, inst.RaddrB)
		if err != nil {
			return isa.Instruction{}, err
		}
	}

	mul.Waddr = uint8(isa.GetField(word, isa.FieldWaddrMul))
	mul.MagicWrite = isa.GetField(word, isa.FieldMulMagic) != 0

	inst.Add = add
	inst.Mul = mul
	return inst, nil
}

// orderingKeyV4 computes the v4.x commutative ordering key: unpack*8 + mux.
func orderingKeyV4(op isa.Operand) int {
	return int(op.Unpack)*8 + int(op.Mux)
}

// orderingKeyV71 computes the v7.1 commutative ordering key:
// small_imm*256 + unpack*64 + raddr.
func orderingKeyV71(op isa.Operand) int {
	si := 0
	if op.SmallImm {
		si = 1
	}
	return si*256 + int(op.Unpack)*64 + int(op.Raddr)
}

// addUnpackFromCode splits the ADD entry's opcode sub-bits (everything below
// OpFirst's implicit base) into the a/b input-unpack codes (for a
// float-unpack-family entry) or the output-pack code (otherwise).
func addUnpackFromCode(entry isa.AddEntry, opAdd uint8) (a, b isa.InputUnpack, pack isa.OutputPack, err error) {
	sub := opAdd - entry.OpFirst
	if entry.FloatUnpack {
		a = isa.Float32UnpackFromCode((sub >> 2) & 0x3)
		b = isa.Float32UnpackFromCode(sub & 0x3)
		return a, b, isa.PackNone, nil
	}
	if entry.Op.HasDst() && entry.OpLast-entry.OpFirst >= 1 {
		p, ok := isa.OutputPackFromCode(sub & 0x3)
		if !ok {
			return 0, 0, 0, newErr(ErrInvalidUnpack, "reserved output-pack code in op_add %#x", opAdd)
		}
		pack = p
	}
	return isa.UnpackNone, isa.UnpackNone, pack, nil
}

func mulUnpackFromCode(entry isa.MulEntry, opMul uint8) (a, b isa.InputUnpack, pack isa.OutputPack, err error) {
	sub := opMul - entry.OpFirst
	if entry.FloatUnpack {
		a = isa.Float32UnpackFromCode((sub >> 2) & 0x3)
		b = isa.Float32UnpackFromCode(sub & 0x3)
		return a, b, isa.PackNone, nil
	}
	if entry.Op.HasDst() && entry.OpLast-entry.OpFirst >= 1 {
		p, ok := isa.OutputPackFromCode(sub & 0x3)
		if !ok {
			return 0, 0, 0, newErr(ErrInvalidUnpack, "reserved output-pack code in op_mul %#x", opMul)
		}
		pack = p
	}
	return isa.UnpackNone, isa.UnpackNone, pack, nil
}

func decodeAddV4(dev isa.Device, opAdd uint8, muxA, muxB isa.Mux, raddrA, raddrB, waddr uint8, magicBit bool) (isa.ALUHalf, error) {
	entry, ok := isa.LookupAdd(dev, opAdd, muxA, muxB, 0, waddr, magicBit)
	if !ok {
		return isa.ALUHalf{}, newErr(ErrInvalidOpcode, "op_add %#x/mux(%d,%d) has no v4.x ADD entry", opAdd, muxA, muxB)
	}
	aUnpack, bUnpack, pack, err := addUnpackFromCode(entry, opAdd)
	if err != nil {
		return isa.ALUHalf{}, err
	}
	a := isa.Operand{Mux: muxA, Unpack: aUnpack}
	b := isa.Operand{Mux: muxB, Unpack: bUnpack}
	if muxA == isa.MuxA {
		a.Raddr = raddrA
	} else if muxA == isa.MuxB {
		a.Raddr = raddrB
	}
	if muxB == isa.MuxA {
		b.Raddr = raddrA
	} else if muxB == isa.MuxB {
		b.Raddr = raddrB
	}
	op := entry.Op
	if entry.HasAlt && orderingKeyV4(a) > orderingKeyV4(b) {
		op = entry.AltOp
	}
	half := isa.ALUHalf{Op: op, A: a, B: b, OutputPack: pack}
	applyAddDiscriminator(&half, entry, waddr, magicBit)
	return half, nil
}

// applyAddDiscriminator finalizes an ADD half's Waddr/MagicWrite once
// the table entry (and hence which discriminator, if any, applies) is
// known. STVPM rows carry no real destination, so Waddr is cleared;
// LDVPM _IN/_OUT rows had their MA bit consumed to pick the variant,
// so MagicWrite reads back false rather than the raw wire bit.
func applyAddDiscriminator(half *isa.ALUHalf, entry isa.AddEntry, waddr uint8, magicBit bool) {
	switch {
	case entry.HasWaddrDiscrim:
		half.Waddr = 0
		half.MagicWrite = false
	case entry.HasMagicDiscrim:
		half.Waddr = waddr
		half.MagicWrite = false
	default:
		half.Waddr = waddr
		half.MagicWrite = magicBit
	}
}

func decodeMulV4(dev isa.Device, opMul uint8, muxA, muxB isa.Mux, raddrA, raddrB uint8) (isa.ALUHalf, error) {
	entry, ok := isa.LookupMul(dev, opMul, muxA, muxB, 0)
	if !ok {
		return isa.ALUHalf{}, newErr(ErrInvalidOpcode, "op_mul %#x/mux(%d,%d) has no v4.x MUL entry", opMul, muxA, muxB)
	}
	aUnpack, bUnpack, pack, err := mulUnpackFromCode(entry, opMul)
	if err != nil {
		return isa.ALUHalf{}, err
	}
	a := isa.Operand{Mux: muxA, Unpack: aUnpack}
	b := isa.Operand{Mux: muxB, Unpack: bUnpack}
	if muxA == isa.MuxA {
		a.Raddr = raddrA
	} else if muxA == isa.MuxB {
		a.Raddr = raddrB
	}
	if muxB == isa.MuxA {
		b.Raddr = raddrA
	} else if muxB == isa.MuxB {
		b.Raddr = raddrB
	}
	return isa.ALUHalf{Op: entry.Op, A: a, B: b, OutputPack: pack}, nil
}

func decodeAddV71(dev isa.Device, opAdd, raddrA, raddrB uint8, sig isa.Signals, waddr uint8, magicBit bool) (isa.ALUHalf, error) {
	entry, ok := isa.LookupAdd(dev, opAdd, 0, 0, raddrB, waddr, magicBit)
	if !ok {
		return isa.ALUHalf{}, newErr(ErrInvalidOpcode, "op_add %#x/raddr_b %#x has no v7.1 ADD entry", opAdd, raddrB)
	}
	aUnpack, bUnpack, pack, err := addUnpackFromCode(entry, opAdd)
	if err != nil {
		return isa.ALUHalf{}, err
	}
	a := isa.Operand{Raddr: raddrA, Unpack: aUnpack, SmallImm: sig.SmallImmA}
	b := isa.Operand{Raddr: raddrB, Unpack: bUnpack, SmallImm: sig.SmallImmB}
	op := entry.Op
	if entry.HasAlt && orderingKeyV71(a) > orderingKeyV71(b) {
		op = entry.AltOp
	}
	half := isa.ALUHalf{Op: op, A: a, B: b, OutputPack: pack}
	applyAddDiscriminator(&half, entry, waddr, magicBit)
	return half, nil
}

func decodeMulV71(dev isa.Device, opMul, raddrC, raddrD uint8, sig isa.Signals) (isa.ALUHalf, error) {
	entry, ok := isa.LookupMul(dev, opMul, 0, 0, raddrD)
	if !ok {
		return isa.ALUHalf{}, newErr(ErrInvalidOpcode, "op_mul %#x/raddr_d %#x has no v7.1 MUL entry", opMul, raddrD)
	}
	aUnpack, bUnpack, pack, err := mulUnpackFromCode(entry, opMul)
	if err != nil {
		return isa.ALUHalf{}, err
	}
	a := isa.Operand{Raddr: raddrC, Unpack: aUnpack, SmallImm: sig.SmallImmC}
	b := isa.Operand{Raddr: raddrD, Unpack: bUnpack, SmallImm: sig.SmallImmD}
	return isa.ALUHalf{Op: entry.Op, A: a, B: b, OutputPack: pack}, nil
}
