// Package disasm renders a structured isa.Instruction as column-aligned
// assembly text, the inverse of package asm.
package disasm

import (
	"fmt"
	"strings"

	"github.com/v3dqpu/qpuasm/isa"
)

// Options controls column placement, mirroring the teacher's
// formatter options for assembly source pretty-printing.
type Options struct {
	MulColumn    int
	SignalColumn int
}

// DefaultOptions matches the field-codec section's textual layout:
// the MUL half starts no earlier than column 30, the signal section
// no earlier than column 60.
func DefaultOptions() *Options {
	return &Options{MulColumn: 30, SignalColumn: 60}
}

// Disassembler renders instructions for a fixed Device.
type Disassembler struct {
	dev  isa.Device
	opts *Options
}

// New creates a Disassembler for dev using opts, or DefaultOptions if
// opts is nil.
func New(dev isa.Device, opts *Options) *Disassembler {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Disassembler{dev: dev, opts: opts}
}

// Line renders one instruction as a single line of text, with no
// trailing newline.
func (d *Disassembler) Line(inst isa.Instruction) string {
	if inst.Kind == isa.KindBranch {
		return d.branchLine(inst.Branch)
	}
	return d.aluLine(inst)
}

func (d *Disassembler) aluLine(inst isa.Instruction) string {
	var line strings.Builder

	line.WriteString(d.halfText(inst.Add, inst.Flags.AddCond, inst.Flags.AddPush, inst.Flags.AddUpdate, true))
	padTo(&line, d.opts.MulColumn)
	line.WriteString("; ")
	line.WriteString(d.halfText(inst.Mul, inst.Flags.MulCond, inst.Flags.MulPush, inst.Flags.MulUpdate, false))

	sig := d.signalText(inst)
	if sig != "" {
		padTo(&line, d.opts.SignalColumn)
		line.WriteString(sig)
	}
	return line.String()
}

func (d *Disassembler) halfText(half isa.ALUHalf, cond isa.Condition, push isa.PushFlag, update isa.UpdateFlag, isAdd bool) string {
	var b strings.Builder
	b.WriteString(half.Op.String())
	if cond != isa.CondNone {
		b.WriteString(".")
		b.WriteString(cond.String())
	}
	if push != isa.PushNone {
		b.WriteString(".")
		b.WriteString(push.String())
	}
	if update != isa.UpdateNone {
		b.WriteString(".")
		b.WriteString(update.String())
	}

	var fields []string
	if half.Op.HasDst() {
		fields = append(fields, d.destText(half))
	}
	if n := half.Op.NumSrc(); n >= 1 {
		fields = append(fields, d.operandText(half.A))
	}
	if n := half.Op.NumSrc(); n >= 2 {
		fields = append(fields, d.operandText(half.B))
	}
	if len(fields) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(fields, ", "))
	}
	return b.String()
}

func (d *Disassembler) destText(half isa.ALUHalf) string {
	name := d.waddrName(half.Waddr, half.MagicWrite)
	if half.OutputPack != isa.PackNone {
		return fmt.Sprintf("%s.%s", name, half.OutputPack.String())
	}
	return name
}

func (d *Disassembler) waddrName(waddr uint8, magic bool) string {
	if magic {
		if m, ok := isa.LookupMagicWaddrByValue(waddr); ok {
			return m.Name
		}
		return fmt.Sprintf("waddr_UNKNOWN_%d", waddr)
	}
	return fmt.Sprintf("rf%d", waddr)
}

func (d *Disassembler) operandText(op isa.Operand) string {
	base := d.operandBase(op)
	if op.Unpack != isa.UnpackNone {
		return fmt.Sprintf("%s.%s", base, op.Unpack.String())
	}
	return base
}

func (d *Disassembler) operandBase(op isa.Operand) string {
	if op.SmallImm {
		return smallImmText(op.Raddr)
	}
	if d.dev.Is71() {
		return fmt.Sprintf("rf%d", op.Raddr)
	}
	switch op.Mux {
	case isa.MuxA:
		return fmt.Sprintf("ra%d", op.Raddr)
	case isa.MuxB:
		return fmt.Sprintf("rb%d", op.Raddr)
	default:
		return fmt.Sprintf("r%d", int(op.Mux))
	}
}

func smallImmText(idx uint8) string {
	if isa.SmallImmIsFloat(idx) {
		return fmt.Sprintf("%g", isa.SmallImmFloat(idx))
	}
	return fmt.Sprintf("%d", isa.SmallImmInt(idx))
}

func (d *Disassembler) signalText(inst isa.Instruction) string {
	var parts []string
	if inst.Signal.WritesAddress() && d.dev.AtLeast(isa.Ver41) {
		parts = append(parts, fmt.Sprintf("sig=%s(addr=%#x,magic=%t)", signalName(inst.Signal), inst.SignalAddress, inst.SignalMagic))
		return "; " + strings.Join(parts, " ")
	}
	if !inst.Signal.Any() {
		return ""
	}
	return "; sig=" + signalName(inst.Signal)
}

func signalName(s isa.Signals) string {
	names := []string{}
	add := func(on bool, name string) {
		if on {
			names = append(names, name)
		}
	}
	add(s.ThreadSwitch, "thrsw")
	add(s.LoadUnif, "ldunif")
	add(s.LoadUnifRF, "ldunifrf")
	add(s.LoadUnifA, "ldunifa")
	add(s.LoadUnifARF, "ldunifarf")
	add(s.LoadTMU, "ldtmu")
	add(s.LoadVary, "ldvary")
	add(s.LoadVPM, "ldvpm")
	add(s.LoadTLB, "ldtlb")
	add(s.LoadTLBU, "ldtlbu")
	add(s.UCB, "ucb")
	add(s.Rotate, "rotate")
	add(s.WrTMUC, "wrtmuc")
	add(s.SmallImmA, "smimma")
	add(s.SmallImmB, "smimmb")
	add(s.SmallImmC, "smimmc")
	add(s.SmallImmD, "smimmd")
	return strings.Join(names, "+")
}

func (d *Disassembler) branchLine(b isa.Branch) string {
	var parts []string
	parts = append(parts, "b")
	mnemonic := parts[0]
	if b.Cond != isa.BranchAlways {
		mnemonic += "." + b.Cond.String()
	}

	var operands []string
	switch b.IPDest {
	case isa.DestLinkReg:
		operands = append(operands, "lr")
	case isa.DestRegfile:
		operands = append(operands, fmt.Sprintf("rf%d", b.Raddr))
	case isa.DestRel:
		operands = append(operands, fmt.Sprintf("pc+%d", b.Offset))
	default:
		operands = append(operands, fmt.Sprintf("%#x", uint32(b.Offset)))
	}
	if b.UpdateUniformBase {
		operands = append(operands, "ub")
	}
	switch b.MsfIgnore {
	case isa.MsfIgnoreP:
		operands = append(operands, "msfignp")
	case isa.MsfIgnoreQ:
		operands = append(operands, "msfignq")
	}

	return fmt.Sprintf("%s %s", mnemonic, strings.Join(operands, ", "))
}

func padTo(b *strings.Builder, column int) {
	if b.Len() >= column {
		b.WriteString(" ")
		return
	}
	b.WriteString(strings.Repeat(" ", column-b.Len()))
}

// Program renders a sequence of instructions, one per line, joined
// with newlines and terminated by a trailing newline, matching the
// teacher formatter's whole-program output convention.
func (d *Disassembler) Program(insts []isa.Instruction) string {
	var b strings.Builder
	for _, inst := range insts {
		b.WriteString(d.Line(inst))
		b.WriteString("\n")
	}
	return b.String()
}
