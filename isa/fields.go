package isa

// Field names a bit range within the 64-bit instruction word, per the
// layout table in the spec's field-codec section. Shift is the bit
// position of the field's LSB; Mask is the field's own value mask
// (already shifted down), e.g. a 6-bit field has Mask = 0x3f.
type Field struct {
	Shift uint
	Mask  uint64
}

// v4.x / shared field layout.
var (
	FieldOpMul         = Field{58, 0x3f}
	FieldSig           = Field{53, 0x1f}
	FieldCond          = Field{46, 0x7f}
	FieldMulMagic      = Field{45, 0x1}
	FieldAddMagic      = Field{44, 0x1}
	FieldWaddrMul      = Field{38, 0x3f}
	FieldBranchAddrLow = Field{35, 0x1fffff}
	FieldWaddrAdd      = Field{32, 0x3f}
	FieldBranchCond    = Field{32, 0x7}
	FieldBranchAddrHi  = Field{24, 0xff}
	FieldOpAdd         = Field{24, 0xff}
	FieldMulB          = Field{21, 0x7}
	FieldBranchMsfIgn  = Field{21, 0x3}
	FieldMulA          = Field{18, 0x7}
	FieldRaddrC        = Field{18, 0x3f}
	FieldAddB          = Field{15, 0x7}
	FieldBranchBdu     = Field{15, 0x7}
	FieldUB            = Field{14, 0x1}
	FieldAddA          = Field{12, 0x7}
	FieldBranchBdi     = Field{12, 0x3}
	FieldRaddrD        = Field{12, 0x3f}
	FieldRaddrA        = Field{6, 0x3f}
	FieldRaddrB        = Field{0, 0x3f}
)

// GetField extracts f's value from word.
func GetField(word uint64, f Field) uint64 {
	return (word >> f.Shift) & f.Mask
}

// SetField returns word with f's bits replaced by value. It panics if
// value overflows f's mask, mirroring the source's field-overflow
// assertion: an overflow here always indicates an internal bug in the
// packer, never caller-supplied bad data (those are rejected earlier).
func SetField(word uint64, f Field, value uint64) uint64 {
	if value&^f.Mask != 0 {
		panic("isa: field overflow while packing")
	}
	word &^= f.Mask << f.Shift
	word |= value << f.Shift
	return word
}
