package isa

// OutputPackCode and UnpackCode convert between the canonical OutputPack
// / InputUnpack enums and the small numeric codes the opcode's low bits
// carry, per the field-codec section's conversion tables:
//
//	output pack:          NONE->0, L->1, H->2
//	float32 input unpack:  ABS->0, NONE->1, L->2, H->3

// OutputPackCode returns p's 2-bit opcode sub-field value, or false if
// p has no representable code (value 3 is reserved).
func OutputPackCode(p OutputPack) (uint8, bool) {
	switch p {
	case PackNone:
		return 0, true
	case PackL:
		return 1, true
	case PackH:
		return 2, true
	default:
		return 0, false
	}
}

// OutputPackFromCode is the inverse of OutputPackCode.
func OutputPackFromCode(code uint8) (OutputPack, bool) {
	switch code {
	case 0:
		return PackNone, true
	case 1:
		return PackL, true
	case 2:
		return PackH, true
	default:
		return 0, false
	}
}

// Float32UnpackCode returns u's 2-bit opcode sub-field value for the
// float-unpack-family ops (FADD, FMIN, FMUL, ...), or false if u is not
// one of the four codes that family supports.
func Float32UnpackCode(u InputUnpack) (uint8, bool) {
	switch u {
	case UnpackAbs:
		return 0, true
	case UnpackNone:
		return 1, true
	case UnpackL:
		return 2, true
	case UnpackH:
		return 3, true
	default:
		return 0, false
	}
}

// Float32UnpackFromCode is the inverse of Float32UnpackCode.
func Float32UnpackFromCode(code uint8) InputUnpack {
	switch code {
	case 0:
		return UnpackAbs
	case 2:
		return UnpackL
	case 3:
		return UnpackH
	default:
		return UnpackNone
	}
}
