package isa

// Op is a closed ALU opcode. The ADD and MUL opcode spaces are
// disjoint in hardware (separate 8-bit fields) but share this one Go
// enumeration; which subset is legal in a given ALUHalf is determined
// by which of AddTable/MulTable (tables_add.go/tables_mul.go) has an
// entry for it. A handful of mnemonics (add, sub, nop, mov, fmov) are
// legal on both sides and share one Op value across both tables.
type Op int

const (
	OpNop Op = iota

	// ADD-side ops.
	OpFAdd
	OpFAddNF
	OpVFPack
	OpAdd
	OpSub
	OpFSub
	OpMin
	OpMax
	OpUMin
	OpUMax
	OpShl
	OpShr
	OpAsr
	OpRor
	OpFMin
	OpFMax
	OpVFMin
	OpAnd
	OpOr
	OpXor
	OpVAdd
	OpVSub
	OpNot
	OpNeg
	OpFlaPush
	OpFlbPush
	OpFlPop
	OpRecip
	OpSetMsf
	OpSetRevF
	OpTIdx
	OpEIdx
	OpLR
	OpVFLA
	OpVFLNA
	OpVFLB
	OpVFLNB
	OpFXCD
	OpXCD
	OpFYCD
	OpYCD
	OpMsf
	OpRevF
	OpVDWWT
	OpIID
	OpSampID
	OpBarrierID
	OpTMUWT
	OpVPMSetup
	OpVPMWt
	OpFlaFirst
	OpFlNaFirst
	OpLdVPMVIn
	OpLdVPMVOut
	OpLdVPMDIn
	OpLdVPMDOut
	OpLdVPMP
	OpRSqrt
	OpExp
	OpLog
	OpSin
	OpRSqrt2
	OpLdVPMGIn
	OpLdVPMGOut
	OpFCmp
	OpVFMax
	OpFRound
	OpFtoIN
	OpFTrunc
	OpFtoIZ
	OpFFloor
	OpFtoUZ
	OpFCeil
	OpFtoC
	OpFDX
	OpFDY
	OpStVPMV
	OpStVPMD
	OpStVPMP
	OpItoF
	OpClz
	OpUtoF

	// v7.x-only ADD ops, shared with MUL where the same mnemonic
	// exists on both sides (Mov, FMov).
	OpFMov
	OpMov
	OpVPack
	OpV8Pack
	OpV10Pack
	OpV11FPack

	// MUL-side ops.
	OpFMul
	OpUMul24
	OpSMul24
	OpMulMov
	OpMultop
	OpVFMul
	OpFtoUNorm16
	OpFtoSNorm16
	OpVFtoUNorm8
	OpVFtoSNorm8
	OpVFtoUNorm10Lo
	OpVFtoUNorm10Hi

	opCount
)

var opNames = [opCount]string{
	OpNop:           "nop",
	OpFAdd:          "fadd",
	OpFAddNF:        "faddnf",
	OpVFPack:        "vfpack",
	OpAdd:           "add",
	OpSub:           "sub",
	OpFSub:          "fsub",
	OpMin:           "min",
	OpMax:           "max",
	OpUMin:          "umin",
	OpUMax:          "umax",
	OpShl:           "shl",
	OpShr:           "shr",
	OpAsr:           "asr",
	OpRor:           "ror",
	OpFMin:          "fmin",
	OpFMax:          "fmax",
	OpVFMin:         "vfmin",
	OpAnd:           "and",
	OpOr:            "or",
	OpXor:           "xor",
	OpVAdd:          "vadd",
	OpVSub:          "vsub",
	OpNot:           "not",
	OpNeg:           "neg",
	OpFlaPush:       "flapush",
	OpFlbPush:       "flbpush",
	OpFlPop:         "flpop",
	OpRecip:         "recip",
	OpSetMsf:        "setmsf",
	OpSetRevF:       "setrevf",
	OpTIdx:          "tidx",
	OpEIdx:          "eidx",
	OpLR:            "lr",
	OpVFLA:          "vfla",
	OpVFLNA:         "vflna",
	OpVFLB:          "vflb",
	OpVFLNB:         "vflnb",
	OpFXCD:          "fxcd",
	OpXCD:           "xcd",
	OpFYCD:          "fycd",
	OpYCD:           "ycd",
	OpMsf:           "msf",
	OpRevF:          "revf",
	OpVDWWT:         "vdwwt",
	OpIID:           "iid",
	OpSampID:        "sampid",
	OpBarrierID:     "barrierid",
	OpTMUWT:         "tmuwt",
	OpVPMSetup:      "vpmsetup",
	OpVPMWt:         "vpmwt",
	OpFlaFirst:      "flafirst",
	OpFlNaFirst:     "flnafirst",
	OpLdVPMVIn:      "ldvpmv_in",
	OpLdVPMVOut:     "ldvpmv_out",
	OpLdVPMDIn:      "ldvpmd_in",
	OpLdVPMDOut:     "ldvpmd_out",
	OpLdVPMP:        "ldvpmp",
	OpRSqrt:         "rsqrt",
	OpExp:           "exp",
	OpLog:           "log",
	OpSin:           "sin",
	OpRSqrt2:        "rsqrt2",
	OpLdVPMGIn:      "ldvpmg_in",
	OpLdVPMGOut:     "ldvpmg_out",
	OpFCmp:          "fcmp",
	OpVFMax:         "vfmax",
	OpFRound:        "fround",
	OpFtoIN:         "ftoin",
	OpFTrunc:        "ftrunc",
	OpFtoIZ:         "ftoiz",
	OpFFloor:        "ffloor",
	OpFtoUZ:         "ftouz",
	OpFCeil:         "fceil",
	OpFtoC:          "ftoc",
	OpFDX:           "fdx",
	OpFDY:           "fdy",
	OpStVPMV:        "stvpmv",
	OpStVPMD:        "stvpmd",
	OpStVPMP:        "stvpmp",
	OpItoF:          "itof",
	OpClz:           "clz",
	OpUtoF:          "utof",
	OpFMov:          "fmov",
	OpMov:           "mov",
	OpVPack:         "vpack",
	OpV8Pack:        "v8pack",
	OpV10Pack:       "v10pack",
	OpV11FPack:      "v11fpack",
	OpFMul:          "fmul",
	OpUMul24:        "umul24",
	OpSMul24:        "smul24",
	OpMulMov:        "mulmov",
	OpMultop:        "multop",
	OpVFMul:         "vfmul",
	OpFtoUNorm16:    "ftounorm16",
	OpFtoSNorm16:    "ftosnorm16",
	OpVFtoUNorm8:    "vftounorm8",
	OpVFtoSNorm8:    "vftosnorm8",
	OpVFtoUNorm10Lo: "vftounorm10lo",
	OpVFtoUNorm10Hi: "vftounorm10hi",
}

func (o Op) String() string {
	if int(o) >= 0 && int(o) < int(opCount) {
		return opNames[o]
	}
	return "?op"
}

// OpFromName returns the Op whose String() is name, for the
// assembler's mnemonic matcher.
func OpFromName(name string) (Op, bool) {
	for i, n := range opNames {
		if n == name {
			return Op(i), true
		}
	}
	return 0, false
}

// NumSrc returns how many of the op's two source operand slots are
// actually read, per the real add_op_args/mul_op_args tables (D/A/B
// bit flags: D=writes dest, A/B=reads that source). Ops not listed
// here default to two sources (the common D|A|B shape).
func (o Op) NumSrc() int {
	switch o {
	case OpNop, OpTIdx, OpEIdx, OpLR, OpVFLA, OpVFLNA, OpVFLB, OpVFLNB,
		OpMsf, OpRevF, OpVDWWT, OpIID, OpSampID, OpBarrierID, OpTMUWT, OpVPMWt,
		OpFXCD, OpXCD, OpFYCD, OpYCD, OpFlaFirst, OpFlNaFirst:
		return 0
	case OpNot, OpNeg, OpFlaPush, OpFlbPush, OpFlPop, OpRecip, OpSetMsf, OpSetRevF,
		OpVPMSetup, OpLdVPMVIn, OpLdVPMVOut, OpLdVPMDIn, OpLdVPMDOut, OpLdVPMP,
		OpRSqrt, OpExp, OpLog, OpSin, OpRSqrt2,
		OpFRound, OpFtoIN, OpFTrunc, OpFtoIZ, OpFFloor, OpFtoUZ, OpFCeil, OpFtoC,
		OpFDX, OpFDY, OpItoF, OpClz, OpUtoF, OpFMov, OpMov, OpMulMov,
		OpFtoUNorm16, OpFtoSNorm16, OpVFtoUNorm8, OpVFtoSNorm8, OpVFtoUNorm10Lo, OpVFtoUNorm10Hi:
		return 1
	default:
		return 2
	}
}

// HasDst reports whether the op produces a register-file/magic write,
// per the real add_op_args/mul_op_args tables' D bit. Only NOP and
// the VPM stores (STVPMV/STVPMD/STVPMP) are false here.
func (o Op) HasDst() bool {
	switch o {
	case OpNop, OpStVPMV, OpStVPMD, OpStVPMP:
		return false
	default:
		return true
	}
}

// IsCommutativeFloatPair reports whether op belongs to one of the two
// commutative floating-point families the codec decodes via an
// ordering-key comparison (FADD/FADDNF and FMIN/FMAX), per the opcode
// table's discriminator-sharing rule.
func IsCommutativeFloatPair(op Op) bool {
	switch op {
	case OpFAdd, OpFAddNF, OpFMin, OpFMax:
		return true
	default:
		return false
	}
}

// wantsReverseOrder reports whether op's canonical encoding wants the
// operand pair in reverse of the "natural" ordering-key comparison.
func wantsReverseOrder(op Op) bool {
	return op == OpFMax || op == OpFAddNF
}
