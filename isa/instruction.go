package isa

// Kind discriminates the two instruction shapes a 64-bit word can hold.
type Kind int

const (
	KindALU Kind = iota
	KindBranch
)

func (k Kind) String() string {
	if k == KindBranch {
		return "branch"
	}
	return "alu"
}

// Signals is the bit-set of side-channel actions an instruction may
// carry, decoded from the 5-bit sig field via the per-version signal
// map table. Exactly the fields named in the data model are present;
// SmallImmC/D are only meaningful from v7.1.
type Signals struct {
	ThreadSwitch bool
	LoadUnif     bool
	LoadUnifRF   bool
	LoadUnifA    bool
	LoadUnifARF  bool
	LoadTMU      bool
	LoadVary     bool
	LoadVPM      bool
	LoadTLB      bool
	LoadTLBU     bool
	UCB          bool
	Rotate       bool
	WrTMUC       bool
	SmallImmA    bool
	SmallImmB    bool
	SmallImmC    bool
	SmallImmD    bool
}

// WritesAddress reports whether this signal set loads a value into the
// register file at an address carried in the cond field (valid v4.1+).
func (s Signals) WritesAddress() bool {
	return s.LoadUnifRF || s.LoadUnifARF || s.LoadTMU || s.LoadVary || s.LoadTLB || s.LoadTLBU
}

// SmallImmCount returns how many of the four v7.1 small-immediate
// selector bits are set.
func (s Signals) SmallImmCount() int {
	n := 0
	for _, b := range []bool{s.SmallImmA, s.SmallImmB, s.SmallImmC, s.SmallImmD} {
		if b {
			n++
		}
	}
	return n
}

// Any reports whether at least one signal bit is set.
func (s Signals) Any() bool {
	return s != Signals{}
}

// Condition selects one of the five add/mul flag-test conditions, or
// none.
type Condition int

const (
	CondNone Condition = iota
	CondIfA
	CondIfB
	CondIfNA
	CondIfNB
)

var conditionNames = [...]string{"", "ifa", "ifb", "ifna", "ifnb"}

func (c Condition) String() string {
	if int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return "?cond"
}

// PushFlag selects which comparison result an ALU op pushes into the
// flags register.
type PushFlag int

const (
	PushNone PushFlag = iota
	PushZ
	PushN
	PushC
)

var pushFlagNames = [...]string{"", "pushz", "pushn", "pushc"}

func (p PushFlag) String() string {
	if int(p) < len(pushFlagNames) {
		return pushFlagNames[p]
	}
	return "?pf"
}

// UpdateFlag selects one of the AND/NOR flag combinators, or none.
type UpdateFlag int

const (
	UpdateNone UpdateFlag = iota
	UpdateAndZ
	UpdateAndN
	UpdateAndC
	UpdateAndNZ
	UpdateAndNN
	UpdateAndNC
	UpdateNorZ
	UpdateNorN
	UpdateNorC
	UpdateNorNZ
	UpdateNorNN
	UpdateNorNC
)

var updateFlagNames = [...]string{
	"", "andz", "andn", "andc", "andnz", "andnn", "andnc",
	"norz", "norn", "norc", "nornz", "nornn", "nornc",
}

func (u UpdateFlag) String() string {
	if int(u) < len(updateFlagNames) {
		return updateFlagNames[u]
	}
	return "?uf"
}

// Flags holds the six optional per-instruction condition fields.
type Flags struct {
	AddCond   Condition
	MulCond   Condition
	AddPush   PushFlag
	MulPush   PushFlag
	AddUpdate UpdateFlag
	MulUpdate UpdateFlag
}

// IsNone reports whether every flag field is at its zero value, the
// state required alongside an address-writing signal.
func (f Flags) IsNone() bool { return f == Flags{} }

// InputUnpack selects how an ALU source operand is reinterpreted
// before use. The numeric values below match the float32-unpack
// encoding from the field-codec section; other unpack kinds reuse
// this single enum and are translated per-op by the packer.
type InputUnpack int

const (
	UnpackNone InputUnpack = iota
	UnpackAbs
	UnpackL
	UnpackH
	UnpackReplicate32F
	UnpackReplicateL
	UnpackReplicateH
	UnpackSwap
	UnpackIntUL
	UnpackIntUH
	UnpackIntIL
	UnpackIntIH
)

var inputUnpackNames = [...]string{
	"", "abs", "l", "h", "ff", "ll", "hh", "swp", "ul", "uh", "il", "ih",
}

func (u InputUnpack) String() string {
	if int(u) < len(inputUnpackNames) {
		return inputUnpackNames[u]
	}
	return "?unpack"
}

// OutputPack selects the 16-bit float packing applied to an ALU
// result before write-back.
type OutputPack int

const (
	PackNone OutputPack = iota
	PackL
	PackH
)

var outputPackNames = [...]string{"", "l", "h"}

func (p OutputPack) String() string {
	if int(p) < len(outputPackNames) {
		return outputPackNames[p]
	}
	return "?pack"
}

// Mux selects a v4.x ALU input source: an accumulator R0..R5 or one
// of the two register-file read ports.
type Mux int

const (
	MuxR0 Mux = iota
	MuxR1
	MuxR2
	MuxR3
	MuxR4
	MuxR5
	MuxA
	MuxB
)

// Operand is one ALU source. On v4.x, Mux selects the input path and
// Raddr is only meaningful when Mux is MuxA or MuxB (it is then a copy
// of the instruction's shared RaddrA/RaddrB). On v7.1, Raddr is the
// operand's own dedicated raddr field and Mux is unused.
type Operand struct {
	Mux      Mux
	Raddr    uint8
	Unpack   InputUnpack
	SmallImm bool // this operand is a small immediate (decoded via Raddr into the small-imm table)
}

// ALUHalf is one side (add or mul) of an ALU instruction.
type ALUHalf struct {
	Op          Op
	A, B        Operand
	Waddr       uint8
	MagicWrite  bool
	OutputPack  OutputPack
}

// BranchCond selects which flag test gates a branch.
type BranchCond int

const (
	BranchAlways BranchCond = iota
	BranchA0
	BranchNA0
	BranchAllA
	BranchAnyNA
	BranchAnyA
	BranchAllNA
)

var branchCondNames = [...]string{"always", "a0", "na0", "alla", "anyna", "anya", "allna"}

func (b BranchCond) String() string {
	if int(b) < len(branchCondNames) {
		return branchCondNames[b]
	}
	return "?bcond"
}

// MsfIgnore selects the multisample-flag ignore mode on a branch.
type MsfIgnore int

const (
	MsfIgnoreNone MsfIgnore = iota
	MsfIgnoreP
	MsfIgnoreQ
)

// BranchDest selects how a branch computes its IP or uniform-stream
// destination.
type BranchDest int

const (
	DestAbs BranchDest = iota
	DestRel
	DestLinkReg
	DestRegfile
)

// Branch is the structured record for a branch instruction.
type Branch struct {
	Cond              BranchCond
	MsfIgnore         MsfIgnore
	IPDest            BranchDest
	UniformDest       BranchDest
	UpdateUniformBase bool
	Raddr             uint8
	Offset            int32
}

// Instruction is the tagged-variant structured record produced by the
// assembler or unpacker and consumed by the packer or disassembler.
type Instruction struct {
	Kind Kind

	// Shared fields.
	Signal        Signals
	SignalAddress uint8
	SignalMagic   bool
	RaddrA        uint8 // v4.x only
	RaddrB        uint8 // v4.x only
	Flags         Flags

	// Valid when Kind == KindALU.
	Add ALUHalf
	Mul ALUHalf

	// Valid when Kind == KindBranch.
	Branch Branch
}
