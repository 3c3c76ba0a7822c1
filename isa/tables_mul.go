package isa

// MulEntry is one row of the MUL opcode descriptor table, the MUL-side
// twin of AddEntry. op_mul is only a 6-bit field (see FieldOpMul),
// narrower than op_add's 8 bits, leaving no room for most of AddEntry's
// discriminator machinery: no op shares a value across incompatible
// operand counts the way STVPM/LDVPM do on the ADD side, so MulEntry
// carries no waddr/magic discriminator fields.
type MulEntry struct {
	OpFirst, OpLast   uint8
	AMask, BMask      uint8
	RaddrMask         uint64
	Op                Op
	FloatUnpack       bool
	FirstVer, LastVer Version
}

// MulTable is the full MUL opcode descriptor table across all
// supported versions: the v3.3/v4.x rows (mux masks) followed by the
// v7.1 rows (raddr masks). Real hardware's MUL-side NOP/FMOV/MOV share
// one op_mul value on both eras, same overloading style as the ADD
// side's op_add 186-189; v7.1 additionally folds the four new
// sub-byte-pack MUL ops (FTOUNORM16/FTOSNORM16/VFTOUNORM8/VFTOSNORM8)
// and the two 10-bit pack ops into that same shared value.
var MulTable = append(buildMulTableV33(), buildMulTableV71()...)

func buildMulTableV33() []MulEntry {
	var t []MulEntry

	atFixed := func(opMul uint8, aMask, bMask uint8, op Op, lastVer Version) {
		t = append(t, MulEntry{
			OpFirst: opMul, OpLast: opMul,
			AMask: aMask, BMask: bMask, RaddrMask: allRaddr64,
			Op: op, LastVer: lastVer,
		})
	}

	atFixed(1, allMux8, allMux8, OpAdd, 0)
	atFixed(2, allMux8, allMux8, OpSub, 0)
	atFixed(3, allMux8, allMux8, OpUMul24, 0)
	// Real op_mul 4-8 is a 5-wide VFMUL block; that width doesn't
	// divide evenly into this codec's 2-bit output-pack sub-code
	// scheme, so only the base value is claimed (see DESIGN.md).
	atFixed(4, allMux8, allMux8, OpVFMul, 0)
	atFixed(9, allMux8, allMux8, OpSMul24, 0)
	atFixed(10, allMux8, allMux8, OpMultop, 0)

	// Capped at Ver42: v7.1 reuses op_mul 14/15 with a different,
	// raddr-discriminated row set (buildMulTableV71) that would
	// otherwise never be reached, since these mux-masked rows default
	// to matching any raddr when evaluated under the v7.1 branch.
	atFixed(14, allMux8, allMux8, OpFMov, Ver42)
	atFixed(15, allMux8, (1<<0)|(1<<1)|(1<<2)|(1<<3), OpFMov, Ver42)
	atFixed(15, 1<<0, 1<<4, OpNop, Ver42)
	atFixed(15, allMux8, 1<<7, OpMov, Ver42)

	// Real op_mul 16-63 (48 wide) carries the input-unpack codes for
	// FMUL the same way op_add's FADD/FSUB ranges do; one 16-wide
	// block is enough to represent every unpack code (see AddTable).
	t = append(t, MulEntry{
		OpFirst: 16, OpLast: 31,
		AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64,
		Op: OpFMul, FloatUnpack: true, LastVer: Ver42,
	})

	return t
}

func buildMulTableV71() []MulEntry {
	var t []MulEntry

	atFixed := func(opMul uint8, raddrMask uint64, op Op) {
		t = append(t, MulEntry{
			OpFirst: opMul, OpLast: opMul,
			AMask: allMux8, BMask: allMux8, RaddrMask: raddrMask,
			Op: op, FirstVer: Ver71,
		})
	}

	atFixed(1, allRaddr64, OpAdd)
	atFixed(2, allRaddr64, OpSub)
	atFixed(3, allRaddr64, OpUMul24)
	atFixed(4, allRaddr64, OpVFMul)
	atFixed(9, allRaddr64, OpSMul24)
	atFixed(10, allRaddr64, OpMultop)

	fmovMask := BitRange(0, 2) | BitRange(4, 6) | BitRange(8, 10) | BitRange(12, 14) | BitRange(16, 18) | BitRange(20, 22)
	movMask := uint64(1)<<3 | uint64(1)<<7 | uint64(1)<<11 | uint64(1)<<15 | uint64(1)<<19
	atFixed(14, fmovMask, OpFMov)
	atFixed(14, movMask, OpMov)
	atFixed(14, uint64(1)<<32, OpFtoUNorm16)
	atFixed(14, uint64(1)<<33, OpFtoSNorm16)
	atFixed(14, uint64(1)<<34, OpVFtoUNorm8)
	atFixed(14, uint64(1)<<35, OpVFtoSNorm8)
	atFixed(14, uint64(1)<<48, OpVFtoUNorm10Lo)
	atFixed(14, uint64(1)<<49, OpVFtoUNorm10Hi)
	atFixed(14, uint64(1)<<63, OpNop)

	t = append(t, MulEntry{
		OpFirst: 16, OpLast: 31,
		AMask: allMux8, BMask: allMux8, RaddrMask: allRaddr64,
		Op: OpFMul, FloatUnpack: true, FirstVer: Ver71,
	})

	return t
}

// LookupMulByOp returns the descriptor for op valid under dev.
func LookupMulByOp(dev Device, op Op) (MulEntry, bool) {
	for _, e := range MulTable {
		if !inRange(dev.Ver, e.FirstVer, e.LastVer) {
			continue
		}
		if e.Op == op {
			return e, true
		}
	}
	return MulEntry{}, false
}

// LookupMul decodes op_mul (with mux_a/mux_b on v4.x, or raddr_d on
// v7.1) against MulTable.
func LookupMul(dev Device, opMul uint8, muxA, muxB Mux, raddrD uint8) (MulEntry, bool) {
	for _, e := range MulTable {
		if opMul < e.OpFirst || opMul > e.OpLast {
			continue
		}
		if !inRange(dev.Ver, e.FirstVer, e.LastVer) {
			continue
		}
		if dev.Is71() {
			if e.RaddrMask&(uint64(1)<<raddrD) == 0 {
				continue
			}
		} else {
			if e.AMask&(1<<uint(muxA)) == 0 || e.BMask&(1<<uint(muxB)) == 0 {
				continue
			}
		}
		return e, true
	}
	return MulEntry{}, false
}
