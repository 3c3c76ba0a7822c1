// Package validator scans an assembled instruction stream for the
// sequencing restrictions the V3D QPU pipeline imposes across
// adjacent instructions: branch/THRSW delay slots, SFU result
// latency, TLB-Z write ordering, and thread-end shape.
package validator

import "fmt"

// ErrorKind names one validator rule violation. Each is stable and
// distinct so callers can match on it without parsing Message.
type ErrorKind int

const (
	ImplicitBranchMsfReadAfterTlbZWrite ErrorKind = iota
	SetMsfAfterTlbZWrite
	MsfReadAfterTlbZWrite
	SmallImmAInvalidBeforeV71
	SmallImmCInvalidBeforeV71
	SmallImmDInvalidBeforeV71
	SmallImmRequiresAddOp
	SmallImmRequiresMulOp
	TooManySmallImmSelectors
	LdunifAfterLdvary
	ConsecutiveLdunifBeforeV42
	SfuWriteDuringThrswDelaySlots
	LdvaryDuringThrswDelaySlot
	LdvaryInSecondThrswDelaySlot
	R4AccessNearSfuWrite
	SfuWriteTooSoonAfterSfuWrite
	OnlyOneOfTmuSfuTsyTlbReadVpmAllowed
	ThrswInBranchDelaySlot
	ThrswAfterLastThrsw
	ThrswTooSoonAfterThrsw
	RegisterFileWriteAfterThreadEnd
	Rf2Rf3WriteAfterThreadEnd
	RegisterFileWriteAtThreadEnd
	TmuwtInFinalInstruction
	BranchInBranchDelaySlot
	BranchInThrswDelaySlot
	MissingLastThrswMarker
	NoProgramEndThrswDelaySlots
	InternalValidatorError
)

var errorKindNames = [...]string{
	"implicit branch reads MSF after a TLB-Z write",
	"SETMSF after a TLB-Z write",
	"MSF read after a TLB-Z write",
	"small_imm_a set before v7.1",
	"small_imm_c set before v7.1",
	"small_imm_d set before v7.1",
	"small_imm_a/b set but ADD op is NOP",
	"small_imm_c/d set but MUL op is NOP",
	"more than one small-immediate selector set",
	"LDUNIF/LDUNIFA immediately after LDVARY",
	"consecutive LDUNIF/LDUNIFA before v4.2",
	"SFU write inside a THRSW delay slot",
	"LDVARY inside a THRSW delay slot",
	"LDVARY in the second THRSW delay slot",
	"R4 access too soon after an SFU write",
	"SFU write too soon after a previous SFU write",
	"more than one of TMU/SFU/TSY/TLB-read/VPM triggered in one instruction",
	"THRSW inside a branch delay slot",
	"THRSW issued after the thread-end THRSW",
	"THRSW too soon after a previous THRSW",
	"register-file write after thread end",
	"rf2/rf3 write after thread end",
	"register-file write at the thread-end THRSW itself",
	"TMUWT as the program's final instruction",
	"branch inside a branch delay slot",
	"branch inside a THRSW delay slot",
	"program has two or more THRSWs but no thread-end marker",
	"program ends without two THRSW delay-slot instructions",
	"internal validator error",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "unknown validator error"
}

// Result reports the first rule violation Validate finds: the index
// of the offending instruction, the rule it broke, and a
// human-readable message. A nil *Result means the program validated
// clean.
type Result struct {
	Index   int
	Kind    ErrorKind
	Message string
}

func (r *Result) Error() string {
	return fmt.Sprintf("instruction %d: %s", r.Index, r.Message)
}

func newResult(index int, kind ErrorKind, format string, args ...interface{}) *Result {
	return &Result{Index: index, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
