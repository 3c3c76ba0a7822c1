// Package fuzz generates structured instruction records directly from
// the ISA opcode descriptor tables and drives them through the codec's
// pack/unpack pair, the corpus-based check called for alongside the
// bit-field codec: for every supported version, build records the
// tables say are representable and confirm a packed word survives an
// unpack/re-pack cycle unchanged.
package fuzz

import (
	"math/rand"

	"github.com/v3dqpu/qpuasm/codec"
	"github.com/v3dqpu/qpuasm/isa"
)

// flagsShapes enumerates one representative Flags value per cond-field
// shape PackFlags supports (see isa/flags.go); a generator picking
// only from this set never hits the unrepresentable-flags case.
var flagsShapes = []isa.Flags{
	{},
	{AddPush: isa.PushZ},
	{AddPush: isa.PushN},
	{AddPush: isa.PushC},
	{MulPush: isa.PushZ},
	{MulPush: isa.PushN},
	{AddUpdate: isa.UpdateAndZ},
	{AddUpdate: isa.UpdateNorNC},
	{MulUpdate: isa.UpdateAndN},
	{MulUpdate: isa.UpdateNorZ},
	{AddCond: isa.CondIfA, MulPush: isa.PushZ},
	{AddCond: isa.CondIfNB, MulPush: isa.PushC},
	{MulCond: isa.CondIfB, AddPush: isa.PushC},
	{MulCond: isa.CondIfNA, AddPush: isa.PushZ},
	{AddCond: isa.CondIfNA, MulCond: isa.CondIfB},
	{AddCond: isa.CondIfA, MulCond: isa.CondIfNB},
}

// outputPacks and float32Unpacks are the closed sets packSubCode
// accepts; a generator picking only from these never hits
// ErrInvalidUnpack.
var outputPacks = []isa.OutputPack{isa.PackNone, isa.PackL, isa.PackH}
var float32Unpacks = []isa.InputUnpack{isa.UnpackAbs, isa.UnpackNone, isa.UnpackL, isa.UnpackH}

// Generator produces random but always-representable isa.Instruction
// records for dev, drawn from dev's applicable opcode-table rows.
type Generator struct {
	dev  isa.Device
	rng  *rand.Rand
	adds []isa.AddEntry
	muls []isa.MulEntry
	sigs []isa.Signals
}

// NewGenerator builds a Generator for dev seeded with seed, so a given
// seed always reproduces the same corpus.
func NewGenerator(dev isa.Device, seed int64) *Generator {
	g := &Generator{dev: dev, rng: rand.New(rand.NewSource(seed))}
	for _, e := range isa.AddTable {
		if inRangeVer(dev.Ver, e.FirstVer, e.LastVer) {
			g.adds = append(g.adds, e)
		}
	}
	for _, e := range isa.MulTable {
		if !inRangeVer(dev.Ver, e.FirstVer, e.LastVer) {
			continue
		}
		g.muls = append(g.muls, e)
	}
	for _, e := range isa.SignalMap(dev) {
		if !e.Reserved {
			g.sigs = append(g.sigs, e.Signals)
		}
	}
	return g
}

// inRangeVer duplicates isa's unexported inRange: FirstVer/LastVer are
// exported table fields but the range test that interprets them isn't.
func inRangeVer(ver, first, last isa.Version) bool {
	if first != 0 && ver < first {
		return false
	}
	if last != 0 && ver > last {
		return false
	}
	return true
}

func (g *Generator) pick(n int) int { return g.rng.Intn(n) }

// operand builds one ALU source. On v4.x it selects an accumulator or
// one of the two register-file ports; operands sharing a port within
// the same instruction must share its raddr, which the caller
// supplies via raddrA/raddrB. On v7.1 every operand carries its own
// raddr and small_imm is left false: the codec only ever derives it
// from the sig field's dedicated small-imm selectors, which this
// generator does not exercise (see DESIGN.md).
func (g *Generator) operand(raddrA, raddrB uint8, unpack isa.InputUnpack) isa.Operand {
	if g.dev.Is71() {
		return isa.Operand{Raddr: uint8(g.pick(64)), Unpack: unpack}
	}
	switch isa.Mux(g.pick(8)) {
	case isa.MuxA:
		return isa.Operand{Mux: isa.MuxA, Raddr: raddrA, Unpack: unpack}
	case isa.MuxB:
		return isa.Operand{Mux: isa.MuxB, Raddr: raddrB, Unpack: unpack}
	default:
		return isa.Operand{Mux: isa.Mux(g.pick(6)), Unpack: unpack}
	}
}

func (g *Generator) unpackFor(floatUnpack bool) isa.InputUnpack {
	if floatUnpack {
		return float32Unpacks[g.pick(len(float32Unpacks))]
	}
	return isa.UnpackNone
}

// aluHalf builds one ADD or MUL half from a table entry's shape: how
// many sources it reads, whether it carries a float-unpack or an
// output-pack sub-code, and whether it writes a destination at all.
func (g *Generator) aluHalf(op isa.Op, numSrc int, floatUnpack, hasDst, multiWidth bool, raddrA, raddrB uint8) isa.ALUHalf {
	h := isa.ALUHalf{Op: op}
	if numSrc >= 1 {
		h.A = g.operand(raddrA, raddrB, g.unpackFor(floatUnpack))
	}
	if numSrc >= 2 {
		h.B = g.operand(raddrA, raddrB, g.unpackFor(floatUnpack))
	}
	// waddr/magic occupy fixed word positions regardless of whether op
	// has a destination, so the wire format carries them either way.
	h.Waddr = uint8(g.pick(64))
	h.MagicWrite = g.pick(2) == 0
	if hasDst && multiWidth && !floatUnpack {
		h.OutputPack = outputPacks[g.pick(len(outputPacks))]
	}
	return h
}

// ALU generates one random ALU instruction representable on dev.
func (g *Generator) ALU() isa.Instruction {
	addEntry := g.adds[g.pick(len(g.adds))]
	mulEntry := g.muls[g.pick(len(g.muls))]

	raddrA := uint8(g.pick(32))
	raddrB := uint8(g.pick(32))

	addMultiWidth := addEntry.OpLast > addEntry.OpFirst
	mulMultiWidth := mulEntry.OpLast > mulEntry.OpFirst

	inst := isa.Instruction{Kind: isa.KindALU}
	inst.Add = g.aluHalf(addEntry.Op, addEntry.Op.NumSrc(), addEntry.FloatUnpack, addEntry.Op.HasDst(), addMultiWidth, raddrA, raddrB)
	if addEntry.HasMagicDiscrim {
		// The MA bit is consumed to pick the _IN/_OUT variant for
		// these ops; a true magic destination can't coexist with that,
		// so the generator never asks pack to represent one.
		inst.Add.MagicWrite = false
	}
	inst.Mul = g.aluHalf(mulEntry.Op, mulEntry.Op.NumSrc(), mulEntry.FloatUnpack, mulEntry.Op.HasDst(), mulMultiWidth, raddrA, raddrB)

	inst.Signal = g.sigs[g.pick(len(g.sigs))]
	if inst.Signal.WritesAddress() && g.dev.AtLeast(isa.Ver41) {
		inst.SignalAddress = uint8(g.pick(64))
		inst.SignalMagic = g.pick(2) == 0
	} else {
		inst.Flags = flagsShapes[g.pick(len(flagsShapes))]
	}
	return inst
}

// branchConds/branchDests mirror the closed ranges packBranch accepts.
var branchConds = []isa.BranchCond{
	isa.BranchAlways, isa.BranchA0, isa.BranchNA0, isa.BranchAllA,
	isa.BranchAnyNA, isa.BranchAnyA, isa.BranchAllNA,
}
var branchDests = []isa.BranchDest{isa.DestAbs, isa.DestRel, isa.DestLinkReg, isa.DestRegfile}
var branchMsfIgnores = []isa.MsfIgnore{isa.MsfIgnoreNone, isa.MsfIgnoreP, isa.MsfIgnoreQ}

// Branch generates one random branch instruction.
func (g *Generator) Branch() isa.Instruction {
	const offMin, offMax = -(1 << 28), (1 << 28) - 1
	b := isa.Branch{
		Cond:              branchConds[g.pick(len(branchConds))],
		MsfIgnore:         branchMsfIgnores[g.pick(len(branchMsfIgnores))],
		IPDest:            branchDests[g.pick(len(branchDests))],
		UniformDest:       branchDests[g.pick(len(branchDests))],
		UpdateUniformBase: g.pick(2) == 0,
		Raddr:             uint8(g.pick(64)),
		Offset:            int32(g.rng.Int63n(offMax-offMin+1)) + offMin,
	}
	return isa.Instruction{Kind: isa.KindBranch, Branch: b}
}

// Next returns one random instruction, ALU or branch.
func (g *Generator) Next() isa.Instruction {
	if g.pick(5) == 0 {
		return g.Branch()
	}
	return g.ALU()
}

// RoundTrip packs inst, unpacks the result, and packs that back down,
// returning both packed words so the caller can assert they match.
// Comparing packed words rather than structured records sidesteps
// representation choices unpack makes that pack never reads back (for
// example, which operand lands in the commutative pair's canonical
// vs. alternate op): those differences are invisible on the wire.
func RoundTrip(dev isa.Device, inst isa.Instruction) (first, second uint64, err error) {
	first, err = codec.Pack(dev, inst)
	if err != nil {
		return 0, 0, err
	}
	decoded, err := codec.Unpack(dev, first)
	if err != nil {
		return first, 0, err
	}
	second, err = codec.Pack(dev, decoded)
	if err != nil {
		return first, 0, err
	}
	return first, second, nil
}
