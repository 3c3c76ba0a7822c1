package isa

// The 7-bit cond field packs up to two of the instruction's six flag
// sub-fields (add/mul condition, add/mul push-flag, add/mul
// update-flag) at once, never all six: hardware only implements a
// fixed set of "shapes". PackFlags/UnpackFlags model those shapes as
// disjoint numeric bands over the 7-bit field, per the prefix-coded
// scheme in the field-codec section. Any Flags value outside the
// implemented shapes fails to pack, matching spec's "if no entry
// matches, packing fails".
const (
	condNone       = 0
	condAPFBase    = 1  // 1..3:  apf alone
	condMPFBase    = 4  // 4..6:  mpf alone
	condAUFBase    = 8  // 8..19: auf alone
	condMUFBase    = 24 // 24..35: muf alone
	condACMPFBase  = 40 // 40..55: add-cond + mul-push-flag
	condMCAPFBase  = 56 // 56..71: mul-cond + add-push-flag
	condACMCBase   = 72 // 72..87: add-cond + mul-cond, no push/update
)

// PackFlags encodes f into the 7-bit cond field, or fails if f mixes
// fields outside one of the supported shapes.
func PackFlags(f Flags) (uint8, bool) {
	if f.IsNone() {
		return condNone, true
	}

	has := func(c Condition) bool { return c != CondNone }
	hasAC, hasMC := has(f.AddCond), has(f.MulCond)
	hasAPF, hasMPF := f.AddPush != PushNone, f.MulPush != PushNone
	hasAUF, hasMUF := f.AddUpdate != UpdateNone, f.MulUpdate != UpdateNone

	switch {
	case hasAPF && !hasMPF && !hasAC && !hasMC && !hasAUF && !hasMUF:
		return uint8(condAPFBase + int(f.AddPush) - 1), true
	case hasMPF && !hasAPF && !hasAC && !hasMC && !hasAUF && !hasMUF:
		return uint8(condMPFBase + int(f.MulPush) - 1), true
	case hasAUF && !hasMUF && !hasAC && !hasMC && !hasAPF && !hasMPF:
		return uint8(condAUFBase + int(f.AddUpdate) - 1), true
	case hasMUF && !hasAUF && !hasAC && !hasMC && !hasAPF && !hasMPF:
		return uint8(condMUFBase + int(f.MulUpdate) - 1), true
	case hasAC && hasMPF && !hasMC && !hasAPF && !hasAUF && !hasMUF:
		cc := int(f.AddCond) - 1
		return uint8(condACMPFBase + cc*4 + int(f.MulPush) - 1), true
	case hasMC && hasAPF && !hasAC && !hasMPF && !hasAUF && !hasMUF:
		cc := int(f.MulCond) - 1
		return uint8(condMCAPFBase + cc*4 + int(f.AddPush) - 1), true
	case hasAC && hasMC && !hasAPF && !hasMPF && !hasAUF && !hasMUF:
		return uint8(condACMCBase + (int(f.AddCond)-1)*4 + (int(f.MulCond) - 1)), true
	default:
		return 0, false
	}
}

// UnpackFlags decodes the 7-bit cond field into Flags, failing on a
// value that falls in none of the supported bands (a reserved code).
func UnpackFlags(cond uint8) (Flags, bool) {
	c := int(cond)
	switch {
	case c == condNone:
		return Flags{}, true
	case c >= condAPFBase && c < condAPFBase+3:
		return Flags{AddPush: PushFlag(c - condAPFBase + 1)}, true
	case c >= condMPFBase && c < condMPFBase+3:
		return Flags{MulPush: PushFlag(c - condMPFBase + 1)}, true
	case c >= condAUFBase && c < condAUFBase+12:
		return Flags{AddUpdate: UpdateFlag(c - condAUFBase + 1)}, true
	case c >= condMUFBase && c < condMUFBase+12:
		return Flags{MulUpdate: UpdateFlag(c - condMUFBase + 1)}, true
	case c >= condACMPFBase && c < condACMPFBase+16:
		rel := c - condACMPFBase
		return Flags{AddCond: Condition(rel/4 + 1), MulPush: PushFlag(rel%4 + 1)}, true
	case c >= condMCAPFBase && c < condMCAPFBase+16:
		rel := c - condMCAPFBase
		return Flags{MulCond: Condition(rel/4 + 1), AddPush: PushFlag(rel%4 + 1)}, true
	case c >= condACMCBase && c < condACMCBase+16:
		rel := c - condACMCBase
		return Flags{AddCond: Condition(rel/4 + 1), MulCond: Condition(rel%4 + 1)}, true
	default:
		return Flags{}, false
	}
}
