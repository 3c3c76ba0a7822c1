package isa

// MagicWaddr is one entry of the magic (hardware-mapped) write-address
// space: destinations outside the general register file, such as TMU
// request fields, VPM, TLB, and SFU inputs.
type MagicWaddr struct {
	Value uint8
	Name  string
}

// MagicWaddrs is the magic write-address name table, used by the
// disassembler to print waddr_{a,m} when MagicWrite is set and by the
// assembler to resolve a magic-address mnemonic.
//
// The table intentionally keeps "tmuscm" and "tmuhscm" as two distinct
// entries with distinct values: spec.md's open questions note the
// original source's name table aliased them, but they are distinct
// waddrs (DESIGN.md open-question #3).
var MagicWaddrs = []MagicWaddr{
	{0, "r0"},
	{1, "r1"},
	{2, "r2"},
	{3, "r3"},
	{4, "r4"},
	{5, "r5"},
	{6, "nop"}, // the address written by ops with HasDst()==false
	{7, "tmud"},
	{8, "tmua"},
	{9, "tmull"},
	{10, "tmuau"},
	{11, "tmu0s"},
	{12, "tmu0t"},
	{13, "tmu0r"},
	{14, "tmu0b"},
	{15, "tmu1s"},
	{16, "tmu1t"},
	{17, "tmu1r"},
	{18, "tmu1b"},
	{19, "tmuc"},
	{20, "tmuscm"},
	{21, "tmuhscm"},
	{22, "tmusf"},
	{23, "tmuslod"},
	{24, "vpm"},
	{25, "vpmu"},
	{26, "tlb"},
	{27, "tlbu"},
	{28, "tmu0csis"},
	{29, "syncb"},
	{30, "sync"},
	{31, "syncu"},
	{32, "recip"},
	{33, "rsqrt"},
	{34, "rsqrt2"},
	{35, "exp"},
	{36, "log"},
	{37, "sin"},
	{38, "quad_xy"},
	{39, "msf"},
	{40, "stop"},
}

// NopMagicWaddr is the magic write address used by ops whose HasDst
// is false.
const NopMagicWaddr = 6

// LookupMagicWaddrByName returns the table entry for name, matched
// exactly (case-sensitive).
func LookupMagicWaddrByName(name string) (MagicWaddr, bool) {
	for _, m := range MagicWaddrs {
		if m.Name == name {
			return m, true
		}
	}
	return MagicWaddr{}, false
}

// LookupMagicWaddrByValue returns the table entry for value, or false
// if it falls outside the named range (the disassembler then falls
// back to "waddr UNKNOWN <n>" per spec).
func LookupMagicWaddrByValue(value uint8) (MagicWaddr, bool) {
	for _, m := range MagicWaddrs {
		if m.Value == value {
			return m, true
		}
	}
	return MagicWaddr{}, false
}

// MagicWaddrNames returns every magic-address mnemonic, for assembler
// error candidate-hint lists.
func MagicWaddrNames() []string {
	names := make([]string, len(MagicWaddrs))
	for i, m := range MagicWaddrs {
		names[i] = m.Name
	}
	return names
}

// ConditionNames, PushFlagNames, UpdateFlagNames, InputUnpackNames, and
// OutputPackNames return every valid suffix spelling for their
// respective field, for both the assembler's suffix parser and its
// candidate-hint error lists.
func ConditionNames() []string { return conditionNames[1:] }
func PushFlagNames() []string  { return pushFlagNames[1:] }
func UpdateFlagNames() []string {
	return updateFlagNames[1:]
}
func InputUnpackNames() []string { return inputUnpackNames[1:] }
func OutputPackNames() []string  { return outputPackNames[1:] }
func BranchCondNames() []string  { return branchCondNames[1:] }

// BranchCondFromName matches name against BranchCondNames case-sensitively.
func BranchCondFromName(name string) (BranchCond, bool) {
	for i, n := range branchCondNames {
		if n == name {
			return BranchCond(i), true
		}
	}
	return 0, false
}

// ConditionFromName, PushFlagFromName, UpdateFlagFromName, and
// InputUnpackFromName are the inverse of their respective String()
// methods, for the assembler's suffix parser.
func ConditionFromName(name string) (Condition, bool) {
	for i, n := range conditionNames {
		if i != 0 && n == name {
			return Condition(i), true
		}
	}
	return 0, false
}

func PushFlagFromName(name string) (PushFlag, bool) {
	for i, n := range pushFlagNames {
		if i != 0 && n == name {
			return PushFlag(i), true
		}
	}
	return 0, false
}

func UpdateFlagFromName(name string) (UpdateFlag, bool) {
	for i, n := range updateFlagNames {
		if i != 0 && n == name {
			return UpdateFlag(i), true
		}
	}
	return 0, false
}

func InputUnpackFromName(name string) (InputUnpack, bool) {
	for i, n := range inputUnpackNames {
		if i != 0 && n == name {
			return InputUnpack(i), true
		}
	}
	return 0, false
}

func OutputPackFromName(name string) (OutputPack, bool) {
	for i, n := range outputPackNames {
		if i != 0 && n == name {
			return OutputPack(i), true
		}
	}
	return 0, false
}

// AddOpNames and MulOpNames return every mnemonic valid on the
// respective ALU half under dev, for the assembler's op-name matcher
// and candidate-hint lists.
func AddOpNames(dev Device) []string {
	seen := map[Op]bool{}
	var names []string
	add := func(op Op) {
		if !seen[op] {
			seen[op] = true
			names = append(names, op.String())
		}
	}
	for _, e := range AddTable {
		if !inRange(dev.Ver, e.FirstVer, e.LastVer) {
			continue
		}
		add(e.Op)
		if e.HasAlt {
			add(e.AltOp)
		}
	}
	return names
}

func MulOpNames(dev Device) []string {
	seen := map[Op]bool{}
	var names []string
	for _, e := range MulTable {
		if !inRange(dev.Ver, e.FirstVer, e.LastVer) {
			continue
		}
		if seen[e.Op] {
			continue
		}
		seen[e.Op] = true
		names = append(names, e.Op.String())
	}
	return names
}
