package isa

// AddEntry is one row of the ADD opcode descriptor table (spec's
// "opcode tables", §4.1). OpFirst/OpLast bound the op_add field range
// this row matches (inclusive). AMask/BMask are the v4.x mux
// discriminator masks, one bit per Mux value (bit i set means mux
// value i is accepted); RaddrMask is the v7.1 discriminator, one bit
// per raddr value. A float-unpack-family entry's low 4 bits of op_add
// (within its OpFirst..OpLast span) carry the operands' input-unpack
// codes (§4.4); other multi-valued entries carry the result's
// output-pack code in the low bits instead. HasAlt marks a
// commutative-pair row (FADD/FADDNF, FMIN/FMAX): Op is the canonical
// (forward-ordered) member, AltOp the reverse-ordered one.
//
// Real hardware overloads several single-value opcodes (186..188 and
// the rounding/conversion values from 245 up, in both eras) across a
// dozen-plus distinct ops, disambiguated purely by AMask/BMask (v4.x)
// or RaddrMask (v7.1) rather than by opcode range — those ops are
// transcribed here with OpFirst==OpLast and a real sub-range mask
// rather than through the width-based allocator. Two further
// overloaded families aren't resolvable by mux/raddr mask at all:
// STVPMV/D/P share one opcode discriminated by the destination waddr
// value (0/1/2), and the LDVPM _IN/_OUT pairs share one opcode
// discriminated by the MA bit. Both get their own discriminator
// fields below rather than being dropped (see HasWaddrDiscrim /
// HasMagicDiscrim and DESIGN.md).
type AddEntry struct {
	OpFirst, OpLast   uint8
	AMask, BMask      uint8
	RaddrMask         uint64
	Op                Op
	HasAlt            bool
	AltOp             Op
	FloatUnpack       bool // low 4 bits of op_add carry (a_unpack<<2)|b_unpack
	FirstVer, LastVer Version

	// HasWaddrDiscrim marks a row in the STVPMV/STVPMD/STVPMP family:
	// the three ops share one op_add value and are told apart by the
	// literal value written to waddr_a, not by mux/raddr at all.
	HasWaddrDiscrim bool
	WaddrValue      uint8

	// HasMagicDiscrim marks a row in the LDVPM{V,D,G}_IN/_OUT family:
	// the pair shares one op_add value and the MA bit picks _IN vs
	// _OUT instead of meaning "magic destination" as it does for
	// every other ADD op.
	HasMagicDiscrim bool
	WantMagic       bool
}

const allMux8 = 0xff
const allRaddr64 = ^uint64(0)

// AddTable is the full ADD opcode descriptor table across all
// supported versions: the v3.3/v4.x rows (mux masks) followed by the
// v7.1 rows (raddr masks), mirroring the original two-table split
// (op_add 186 onward renumbers and reshuffles enough between v4.x and
// v7.1 - e.g. RECIP moves from 186 to 188, CLZ moves from 252 to 186 -
// that one shared first_ver/last_ver-gated table would be less clear
// than keeping the eras apart, same as the source this was grounded
// on). Lookup filters by version applicability and then by the
// version-appropriate discriminator; the first match wins.
var AddTable = append(buildAddTableV4(), buildAddTableV71()...)

// widthV4 returns the allocator's sub-code width for ops that are NOT
// part of a mux/raddr-mask-discriminated opcode family: 16 for a
// float-unpack op, 4 for any other op with a destination (2-bit
// output-pack code), 1 for an op with no destination.
func widthV4(op Op, floatUnpack bool) uint8 {
	switch {
	case floatUnpack:
		return 16
	case !op.HasDst():
		return 1
	default:
		return 4
	}
}

func buildAddTableV4() []AddEntry {
	var t []AddEntry
	next := uint8(0)

	add := func(op Op, floatUnpack bool, firstVer, lastVer Version) {
		w := widthV4(op, floatUnpack)
		t = append(t, AddEntry{
			OpFirst: next, OpLast: next + w - 1,
			AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64,
			Op: op, FloatUnpack: floatUnpack,
			FirstVer: firstVer, LastVer: lastVer,
		})
		next += w
	}
	addPair := func(op, alt Op, floatUnpack bool, firstVer, lastVer Version) {
		w := widthV4(op, floatUnpack)
		t = append(t, AddEntry{
			OpFirst: next, OpLast: next + w - 1,
			AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64,
			Op: op, HasAlt: true, AltOp: alt, FloatUnpack: floatUnpack,
			FirstVer: firstVer, LastVer: lastVer,
		})
		next += w
	}
	atFixed := func(opAdd uint8, aMask, bMask uint8, op Op, firstVer, lastVer Version) {
		t = append(t, AddEntry{
			OpFirst: opAdd, OpLast: opAdd,
			AMask: aMask, BMask: bMask, RaddrMask: allRaddr64,
			Op: op, FirstVer: firstVer, LastVer: lastVer,
		})
	}

	// op_add 0..47: FADD is FADDNF depending on mux_a/mux_b order
	// (real range is 48 wide and three-fold redundant; one 16-wide
	// float-unpack block is enough to carry every unpack code, so the
	// allocator below only claims the first block - see DESIGN.md).
	addPair(OpFAdd, OpFAddNF, true, 0, 0)
	add(OpVFPack, false, 0, 0) // real op_add 53-55/57-59/61-63 interleaved with ADD/SUB; one representative block kept
	add(OpAdd, false, 0, 0)    // real op_add 56
	add(OpSub, false, 0, 0)    // real op_add 60
	add(OpFSub, true, 0, 0)    // real op_add 64-111
	add(OpMin, false, 0, 0)    // real op_add 120
	add(OpMax, false, 0, 0)    // real op_add 121
	add(OpUMin, false, 0, 0)   // real op_add 122
	add(OpUMax, false, 0, 0)   // real op_add 123
	add(OpShl, false, 0, 0)    // real op_add 124
	add(OpShr, false, 0, 0)    // real op_add 125
	add(OpAsr, false, 0, 0)    // real op_add 126
	add(OpRor, false, 0, 0)    // real op_add 127
	addPair(OpFMin, OpFMax, true, 0, 0) // real op_add 128-175
	add(OpVFMin, false, 0, 0)           // real op_add 176-180
	add(OpAnd, false, 0, 0)             // real op_add 181
	add(OpOr, false, 0, 0)              // real op_add 182
	add(OpXor, false, 0, 0)             // real op_add 183
	add(OpVAdd, false, 0, 0)            // real op_add 184
	add(OpVSub, false, 0, 0)            // real op_add 185

	// op_add 186: 8 ops sharing one value, told apart by mux_b alone.
	atFixed(186, allMux8, 1<<0, OpNot, 0, 0)
	atFixed(186, allMux8, 1<<1, OpNeg, 0, 0)
	atFixed(186, allMux8, 1<<2, OpFlaPush, 0, 0)
	atFixed(186, allMux8, 1<<3, OpFlbPush, 0, 0)
	atFixed(186, allMux8, 1<<4, OpFlPop, 0, 0)
	atFixed(186, allMux8, 1<<5, OpRecip, 0, 0)
	atFixed(186, allMux8, 1<<6, OpSetMsf, 0, 0)
	atFixed(186, allMux8, 1<<7, OpSetRevF, 0, 0)

	// op_add 187: told apart by mux_b's top bits, then mux_a where
	// mux_b selects the "0" sub-group.
	atFixed(187, 1<<0, 1<<0, OpNop, 0, 0)
	atFixed(187, 1<<1, 1<<0, OpTIdx, 0, 0)
	atFixed(187, 1<<2, 1<<0, OpEIdx, 0, 0)
	atFixed(187, 1<<3, 1<<0, OpLR, 0, 0)
	atFixed(187, 1<<4, 1<<0, OpVFLA, 0, 0)
	atFixed(187, 1<<5, 1<<0, OpVFLNA, 0, 0)
	atFixed(187, 1<<6, 1<<0, OpVFLB, 0, 0)
	atFixed(187, 1<<7, 1<<0, OpVFLNB, 0, 0)
	atFixed(187, (1<<0)|(1<<1)|(1<<2), 1<<1, OpFXCD, 0, 0)
	atFixed(187, 1<<3, 1<<1, OpXCD, 0, 0)
	atFixed(187, (1<<4)|(1<<5)|(1<<6), 1<<1, OpFYCD, 0, 0)
	atFixed(187, 1<<7, 1<<1, OpYCD, 0, 0)
	atFixed(187, 1<<0, 1<<2, OpMsf, 0, 0)
	atFixed(187, 1<<1, 1<<2, OpRevF, 0, 0)
	atFixed(187, 1<<2, 1<<2, OpVDWWT, Ver33, Ver33)
	atFixed(187, 1<<2, 1<<2, OpIID, Ver40, 0)
	atFixed(187, 1<<3, 1<<2, OpSampID, Ver40, 0)
	atFixed(187, 1<<4, 1<<2, OpBarrierID, Ver40, 0)
	atFixed(187, 1<<5, 1<<2, OpTMUWT, 0, 0)
	atFixed(187, 1<<6, 1<<2, OpVPMWt, 0, 0)
	atFixed(187, 1<<7, 1<<2, OpFlaFirst, Ver41, 0)
	atFixed(187, 1<<0, 1<<3, OpFlNaFirst, Ver41, 0)
	atFixed(187, allMux8, 1<<3, OpVPMSetup, Ver33, Ver33)

	// op_add 188: VPM loads and the v4.1 SFU ops, told apart by
	// mux_b. The LDVPM rows here are the _IN half of a MagicDiscrim
	// pair; the _OUT half is appended after the plain SFU rows so
	// LookupAdd's first-match-wins scan still prefers an exact SFU
	// match over a magic-gated VPM match when both could apply.
	t = append(t, AddEntry{
		OpFirst: 188, OpLast: 188, AMask: allMux8, BMask: 1 << 0, RaddrMask: allRaddr64,
		Op: OpLdVPMVIn, FirstVer: Ver40, HasMagicDiscrim: true, WantMagic: false,
	})
	t = append(t, AddEntry{
		OpFirst: 188, OpLast: 188, AMask: allMux8, BMask: 1 << 0, RaddrMask: allRaddr64,
		Op: OpLdVPMVOut, FirstVer: Ver40, HasMagicDiscrim: true, WantMagic: true,
	})
	t = append(t, AddEntry{
		OpFirst: 188, OpLast: 188, AMask: allMux8, BMask: 1 << 1, RaddrMask: allRaddr64,
		Op: OpLdVPMDIn, FirstVer: Ver40, HasMagicDiscrim: true, WantMagic: false,
	})
	t = append(t, AddEntry{
		OpFirst: 188, OpLast: 188, AMask: allMux8, BMask: 1 << 1, RaddrMask: allRaddr64,
		Op: OpLdVPMDOut, FirstVer: Ver40, HasMagicDiscrim: true, WantMagic: true,
	})
	atFixed(188, allMux8, 1<<2, OpLdVPMP, Ver40, 0)
	atFixed(188, allMux8, 1<<3, OpRSqrt, Ver41, Ver42)
	atFixed(188, allMux8, 1<<4, OpExp, Ver41, Ver42)
	atFixed(188, allMux8, 1<<5, OpLog, Ver41, Ver42)
	atFixed(188, allMux8, 1<<6, OpSin, Ver41, Ver42)
	atFixed(188, allMux8, 1<<7, OpRSqrt2, Ver41, Ver42)

	// op_add 189: LDVPMG _IN/_OUT, MagicDiscrim pair spanning the
	// whole mux range (no further mux sub-split on v4.x).
	t = append(t, AddEntry{
		OpFirst: 189, OpLast: 189, AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64,
		Op: OpLdVPMGIn, FirstVer: Ver40, HasMagicDiscrim: true, WantMagic: false,
	})
	t = append(t, AddEntry{
		OpFirst: 189, OpLast: 189, AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64,
		Op: OpLdVPMGOut, FirstVer: Ver40, HasMagicDiscrim: true, WantMagic: true,
	})

	add(OpFCmp, true, 0, 0) // real op_add 192-239 (48 wide); first 16-wide block kept
	add(OpVFMax, false, 0, 0)

	atFixed(245, allMux8, (1<<0)|(1<<1)|(1<<2), OpFRound, 0, 0)
	atFixed(245, allMux8, 1<<3, OpFtoIN, 0, 0)
	atFixed(245, allMux8, (1<<4)|(1<<5)|(1<<6), OpFTrunc, 0, 0)
	atFixed(245, allMux8, 1<<7, OpFtoIZ, 0, 0)
	atFixed(246, allMux8, (1<<0)|(1<<1)|(1<<2), OpFFloor, 0, 0)
	atFixed(246, allMux8, 1<<3, OpFtoUZ, 0, 0)
	atFixed(246, allMux8, (1<<4)|(1<<5)|(1<<6), OpFCeil, 0, 0)
	atFixed(246, allMux8, 1<<7, OpFtoC, 0, 0)
	atFixed(247, allMux8, (1<<0)|(1<<1)|(1<<2), OpFDX, 0, 0)
	atFixed(247, allMux8, (1<<4)|(1<<5)|(1<<6), OpFDY, 0, 0)

	// op_add 248: STVPMV/D/P share one opcode, told apart by the
	// literal waddr value (0/1/2) rather than by mux.
	t = append(t, AddEntry{OpFirst: 248, OpLast: 248, AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64, Op: OpStVPMV, HasWaddrDiscrim: true, WaddrValue: 0})
	t = append(t, AddEntry{OpFirst: 248, OpLast: 248, AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64, Op: OpStVPMD, HasWaddrDiscrim: true, WaddrValue: 1})
	t = append(t, AddEntry{OpFirst: 248, OpLast: 248, AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64, Op: OpStVPMP, HasWaddrDiscrim: true, WaddrValue: 2})

	atFixed(252, allMux8, (1<<0)|(1<<1)|(1<<2), OpItoF, 0, 0)
	atFixed(252, allMux8, 1<<3, OpClz, 0, 0)
	atFixed(252, allMux8, (1<<4)|(1<<5)|(1<<6), OpUtoF, 0, 0)

	// Cap every row left open-ended at Ver42 so the v7.1 rows below
	// are the only ones consulted on v7.1.
	for i := range t {
		if t[i].LastVer == 0 {
			t[i].LastVer = Ver42
		}
	}
	return t
}

func buildAddTableV71() []AddEntry {
	var t []AddEntry
	next := uint8(0)

	add := func(op Op, floatUnpack bool) {
		w := widthV4(op, floatUnpack)
		t = append(t, AddEntry{
			OpFirst: next, OpLast: next + w - 1,
			AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64,
			Op: op, FloatUnpack: floatUnpack, FirstVer: Ver71,
		})
		next += w
	}
	addPair := func(op, alt Op, floatUnpack bool) {
		w := widthV4(op, floatUnpack)
		t = append(t, AddEntry{
			OpFirst: next, OpLast: next + w - 1,
			AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64,
			Op: op, HasAlt: true, AltOp: alt, FloatUnpack: floatUnpack, FirstVer: Ver71,
		})
		next += w
	}
	atFixed := func(opAdd uint8, raddrMask uint64, op Op) {
		t = append(t, AddEntry{
			OpFirst: opAdd, OpLast: opAdd,
			AMask: allMux8, BMask: allMux8, RaddrMask: raddrMask,
			Op: op, FirstVer: Ver71,
		})
	}

	addPair(OpFAdd, OpFAddNF, true) // real raddr op_add 0-47
	add(OpVFPack, false)            // real op_add 53-55/57-59/61-63
	add(OpAdd, false)               // real op_add 56
	add(OpSub, false)               // real op_add 60
	add(OpFSub, true)               // real op_add 64-111
	add(OpMin, false)
	add(OpMax, false)
	add(OpUMin, false)
	add(OpUMax, false)
	add(OpShl, false)
	add(OpShr, false)
	add(OpAsr, false)
	add(OpRor, false)
	addPair(OpFMin, OpFMax, true)
	add(OpVFMin, false)
	add(OpAnd, false)
	add(OpOr, false)
	add(OpXor, false)
	add(OpVAdd, false)
	add(OpVSub, false)

	// op_add 186: CLZ displaces RECIP here in v7.1 (RECIP moves to 188).
	atFixed(186, uint64(1)<<0, OpNot)
	atFixed(186, uint64(1)<<1, OpNeg)
	atFixed(186, uint64(1)<<2, OpFlaPush)
	atFixed(186, uint64(1)<<3, OpFlbPush)
	atFixed(186, uint64(1)<<4, OpFlPop)
	atFixed(186, uint64(1)<<5, OpClz)
	atFixed(186, uint64(1)<<6, OpSetMsf)
	atFixed(186, uint64(1)<<7, OpSetRevF)

	// op_add 187: a flat raddr_b enumeration, no mux_a sub-split.
	atFixed(187, uint64(1)<<0, OpNop)
	atFixed(187, uint64(1)<<1, OpTIdx)
	atFixed(187, uint64(1)<<2, OpEIdx)
	atFixed(187, uint64(1)<<3, OpLR)
	atFixed(187, uint64(1)<<4, OpVFLA)
	atFixed(187, uint64(1)<<5, OpVFLNA)
	atFixed(187, uint64(1)<<6, OpVFLB)
	atFixed(187, uint64(1)<<7, OpVFLNB)
	atFixed(187, uint64(1)<<8, OpXCD)
	atFixed(187, uint64(1)<<9, OpYCD)
	atFixed(187, uint64(1)<<10, OpMsf)
	atFixed(187, uint64(1)<<11, OpRevF)
	atFixed(187, uint64(1)<<12, OpIID)
	atFixed(187, uint64(1)<<13, OpSampID)
	atFixed(187, uint64(1)<<14, OpBarrierID)
	atFixed(187, uint64(1)<<15, OpTMUWT)
	atFixed(187, uint64(1)<<16, OpVPMWt)
	atFixed(187, uint64(1)<<17, OpFlaFirst)
	atFixed(187, uint64(1)<<18, OpFlNaFirst)
	atFixed(187, BitRange(32, 34), OpFXCD)
	atFixed(187, BitRange(36, 38), OpFYCD)

	// op_add 188: the LDVPM _IN rows (paired with the _OUT rows
	// below) and the relocated SFU ops (RECIP now lives here, not at
	// 186 as it does pre-v7.1).
	t = append(t, AddEntry{
		OpFirst: 188, OpLast: 188, AMask: allMux8, BMask: allMux8, RaddrMask: uint64(1) << 0,
		Op: OpLdVPMVIn, FirstVer: Ver71, HasMagicDiscrim: true, WantMagic: false,
	})
	t = append(t, AddEntry{
		OpFirst: 188, OpLast: 188, AMask: allMux8, BMask: allMux8, RaddrMask: uint64(1) << 0,
		Op: OpLdVPMVOut, FirstVer: Ver71, HasMagicDiscrim: true, WantMagic: true,
	})
	t = append(t, AddEntry{
		OpFirst: 188, OpLast: 188, AMask: allMux8, BMask: allMux8, RaddrMask: uint64(1) << 1,
		Op: OpLdVPMDIn, FirstVer: Ver71, HasMagicDiscrim: true, WantMagic: false,
	})
	t = append(t, AddEntry{
		OpFirst: 188, OpLast: 188, AMask: allMux8, BMask: allMux8, RaddrMask: uint64(1) << 1,
		Op: OpLdVPMDOut, FirstVer: Ver71, HasMagicDiscrim: true, WantMagic: true,
	})
	atFixed(188, uint64(1)<<2, OpLdVPMP)
	atFixed(188, uint64(1)<<32, OpRecip)
	atFixed(188, uint64(1)<<33, OpRSqrt)
	atFixed(188, uint64(1)<<34, OpExp)
	atFixed(188, uint64(1)<<35, OpLog)
	atFixed(188, uint64(1)<<36, OpSin)
	atFixed(188, uint64(1)<<37, OpRSqrt2)

	t = append(t, AddEntry{
		OpFirst: 189, OpLast: 189, AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64,
		Op: OpLdVPMGIn, FirstVer: Ver71, HasMagicDiscrim: true, WantMagic: false,
	})
	t = append(t, AddEntry{
		OpFirst: 189, OpLast: 189, AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64,
		Op: OpLdVPMGOut, FirstVer: Ver71, HasMagicDiscrim: true, WantMagic: true,
	})

	// op_add 190: STVPMV/D/P, waddr-discriminated (moved here from
	// 248 pre-v7.1).
	t = append(t, AddEntry{OpFirst: 190, OpLast: 190, AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64, Op: OpStVPMV, FirstVer: Ver71, HasWaddrDiscrim: true, WaddrValue: 0})
	t = append(t, AddEntry{OpFirst: 190, OpLast: 190, AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64, Op: OpStVPMD, FirstVer: Ver71, HasWaddrDiscrim: true, WaddrValue: 1})
	t = append(t, AddEntry{OpFirst: 190, OpLast: 190, AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64, Op: OpStVPMP, FirstVer: Ver71, HasWaddrDiscrim: true, WaddrValue: 2})

	add(OpFCmp, true) // real op_add 192-207, exactly one 16-wide block - no truncation needed here

	// op_add 245-247: the real v7.1 FROUND/FTOIN/.../FDY/ITOF/UTOF
	// family interleaves pack-mode and round-mode selection across
	// raddr sub-ranges (four repeated blocks per op). That nested
	// encoding isn't reproduced bit-for-bit; each op instead gets one
	// representative raddr range wide enough to carry the 2-bit
	// output-pack code the rest of this table's HasDst ops use (see
	// DESIGN.md).
	atFixed(245, BitRange(0, 3), OpFRound)
	atFixed(245, BitRange(16, 19), OpFtoIN)
	atFixed(245, BitRange(32, 35), OpFTrunc)
	atFixed(245, BitRange(48, 51), OpFtoIZ)
	atFixed(246, BitRange(0, 3), OpFFloor)
	atFixed(246, BitRange(16, 19), OpFtoUZ)
	atFixed(246, BitRange(32, 35), OpFCeil)
	atFixed(246, BitRange(48, 51), OpFtoC)
	atFixed(247, BitRange(0, 3), OpFDX)
	atFixed(247, BitRange(16, 19), OpFDY)
	atFixed(247, BitRange(32, 35), OpItoF)
	atFixed(247, BitRange(48, 51), OpUtoF)

	add(OpVPack, false)
	add(OpV8Pack, false)

	atFixed(249, BitRange(0, 27), OpFMov)
	atFixed(249, BitRange(32, 51), OpMov)

	add(OpV10Pack, false)
	add(OpV11FPack, false)

	return t
}

// BitRange returns a mask with bits bot..top (inclusive) set, the Go
// equivalent of the original source's OP_RANGE macro.
func BitRange(bot, top uint8) uint64 {
	var m uint64
	for b := bot; b <= top; b++ {
		m |= uint64(1) << b
	}
	return m
}

// LookupAddByOp returns the descriptor for op valid under dev, or
// false if op has no ADD-side encoding on this version.
func LookupAddByOp(dev Device, op Op) (AddEntry, bool) {
	for _, e := range AddTable {
		if !inRange(dev.Ver, e.FirstVer, e.LastVer) {
			continue
		}
		if e.Op == op || (e.HasAlt && e.AltOp == op) {
			return e, true
		}
	}
	return AddEntry{}, false
}

// LookupAdd decodes op_add (with mux_a/mux_b on v4.x, or raddr_b on
// v7.1) against AddTable, returning the matching entry. waddr and
// magicBit are the destination waddr field and MA bit read straight
// off the wire; they only affect matching for the handful of entries
// with HasWaddrDiscrim/HasMagicDiscrim set (every other entry ignores
// them). Callers use the entry's HasAlt/AltOp together with the
// operand ordering key to pick between a commutative pair's two
// members.
func LookupAdd(dev Device, opAdd uint8, muxA, muxB Mux, raddrB uint8, waddr uint8, magicBit bool) (AddEntry, bool) {
	for _, e := range AddTable {
		if opAdd < e.OpFirst || opAdd > e.OpLast {
			continue
		}
		if !inRange(dev.Ver, e.FirstVer, e.LastVer) {
			continue
		}
		if e.HasWaddrDiscrim && e.WaddrValue != waddr {
			continue
		}
		if e.HasMagicDiscrim && e.WantMagic != magicBit {
			continue
		}
		if dev.Is71() {
			if e.RaddrMask&(uint64(1)<<raddrB) == 0 {
				continue
			}
		} else {
			if e.AMask&(1<<uint(muxA)) == 0 || e.BMask&(1<<uint(muxB)) == 0 {
				continue
			}
		}
		return e, true
	}
	return AddEntry{}, false
}
