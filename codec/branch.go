package codec

import "github.com/v3dqpu/qpuasm/isa"

// Branch instructions are recognized by a zero op_mul field together
// with a 0b10 prefix in the top two bits of the 5-bit sig field (see
// Unpack's dispatch). The remaining three sig bits are the top bits of
// FieldBranchAddrLow (bits 35-55), so they carry offset bits rather
// than a signal. The 29-bit branch offset: FieldBranchAddrHi supplies
// the high 8 bits, FieldBranchAddrLow the low 21.
const branchSigPrefix = 0b10

func unpackBranch(dev isa.Device, word uint64) (isa.Instruction, error) {
	hi := isa.GetField(word, isa.FieldBranchAddrHi)
	lo := isa.GetField(word, isa.FieldBranchAddrLow)
	raw := (hi << 21) | lo
	offset := signExtend(raw, 29)

	b := isa.Branch{
		Cond:              isa.BranchCond(isa.GetField(word, isa.FieldBranchCond)),
		MsfIgnore:         isa.MsfIgnore(isa.GetField(word, isa.FieldBranchMsfIgn)),
		IPDest:            isa.BranchDest(isa.GetField(word, isa.FieldBranchBdi)),
		UniformDest:       isa.BranchDest(isa.GetField(word, isa.FieldBranchBdu)),
		UpdateUniformBase: isa.GetField(word, isa.FieldUB) != 0,
		Raddr:             uint8(isa.GetField(word, isa.FieldRaddrA)),
		Offset:            offset,
	}
	if int(b.Cond) > int(isa.BranchAllNA) {
		return isa.Instruction{}, newErr(ErrInvalidOpcode, "branch cond %d is reserved", b.Cond)
	}
	if int(b.UniformDest) > int(isa.DestRegfile) {
		return isa.Instruction{}, newErr(ErrInvalidOpcode, "branch uniform-dest %d is reserved", b.UniformDest)
	}

	return isa.Instruction{Kind: isa.KindBranch, Branch: b}, nil
}

func packBranch(dev isa.Device, b isa.Branch) (uint64, error) {
	if b.Cond < isa.BranchAlways || b.Cond > isa.BranchAllNA {
		return 0, newErr(ErrUnrepresentable, "branch cond %d out of range", b.Cond)
	}
	if b.IPDest < isa.DestAbs || b.IPDest > isa.DestRegfile {
		return 0, newErr(ErrUnrepresentable, "branch ip-dest %d out of range", b.IPDest)
	}
	if b.UniformDest < isa.DestAbs || b.UniformDest > isa.DestRegfile {
		return 0, newErr(ErrUnrepresentable, "branch uniform-dest %d out of range", b.UniformDest)
	}
	const offMin, offMax = -(1 << 28), (1 << 28) - 1
	if b.Offset < offMin || b.Offset > offMax {
		return 0, newErr(ErrUnrepresentable, "branch offset %d exceeds 29-bit signed range", b.Offset)
	}

	var word uint64
	word = isa.SetField(word, isa.FieldOpMul, 0)
	word = isa.SetField(word, isa.FieldSig, uint64(branchSigPrefix)<<3)
	word = isa.SetField(word, isa.FieldBranchCond, uint64(b.Cond))
	word = isa.SetField(word, isa.FieldBranchMsfIgn, uint64(b.MsfIgnore))
	word = isa.SetField(word, isa.FieldBranchBdi, uint64(b.IPDest))
	word = isa.SetField(word, isa.FieldBranchBdu, uint64(b.UniformDest))
	if b.UpdateUniformBase {
		word = isa.SetField(word, isa.FieldUB, 1)
	}
	word = isa.SetField(word, isa.FieldRaddrA, uint64(b.Raddr))

	raw := uint64(b.Offset) & ((1 << 29) - 1)
	word = isa.SetField(word, isa.FieldBranchAddrHi, raw>>21)
	word = isa.SetField(word, isa.FieldBranchAddrLow, raw&isa.FieldBranchAddrLow.Mask)
	return word, nil
}

func signExtend(raw uint64, bits uint) int32 {
	shift := 32 - bits
	return int32(raw<<shift) >> shift
}
