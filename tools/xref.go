package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/v3dqpu/qpuasm/asm"
	"github.com/v3dqpu/qpuasm/isa"
)

// OpUsage counts how many times one add/mul op appears across a program.
type OpUsage struct {
	Name  string
	Add   int
	Mul   int
	Total int
}

// SignalUsage counts how many times one signal bit is set across a program.
type SignalUsage struct {
	Name  string
	Count int
}

// XRefReport is the cross-reference of opcode and signal usage across
// an assembled program. Grounded on the teacher's symbol
// cross-reference generator, repurposed: this ISA has no labels or
// branches to a symbol table, so "cross-reference" here means which
// operations and signals a program actually exercises, and how often.
type XRefReport struct {
	Instructions int
	Branches     int
	Ops          []*OpUsage
	Signals      []*SignalUsage
}

// GenerateXRef parses input and builds a cross-reference report over
// its opcode and signal usage.
func GenerateXRef(dev isa.Device, input, filename string) (*XRefReport, error) {
	p := asm.New(dev, filename)
	insts, errs := p.ParseProgram(input)
	if errs != nil && errs.HasErrors() {
		return nil, fmt.Errorf("parse error: %s", errs.Error())
	}
	return BuildXRef(insts), nil
}

// BuildXRef builds a cross-reference report directly from an already
// assembled or decoded program.
func BuildXRef(insts []isa.Instruction) *XRefReport {
	ops := make(map[string]*OpUsage)
	sigs := make(map[string]*SignalUsage)
	r := &XRefReport{Instructions: len(insts)}

	touch := func(name string, add, mul bool) {
		u, ok := ops[name]
		if !ok {
			u = &OpUsage{Name: name}
			ops[name] = u
		}
		if add {
			u.Add++
		}
		if mul {
			u.Mul++
		}
		u.Total++
	}
	touchSignal := func(name string) {
		s, ok := sigs[name]
		if !ok {
			s = &SignalUsage{Name: name}
			sigs[name] = s
		}
		s.Count++
	}

	for _, inst := range insts {
		if inst.Kind == isa.KindBranch {
			r.Branches++
			continue
		}
		touch(inst.Add.Op.String(), true, false)
		touch(inst.Mul.Op.String(), false, true)

		for name, set := range map[string]bool{
			"thrsw":      inst.Signal.ThreadSwitch,
			"ldunif":     inst.Signal.LoadUnif,
			"ldunifrf":   inst.Signal.LoadUnifRF,
			"ldunifa":    inst.Signal.LoadUnifA,
			"ldunifarf":  inst.Signal.LoadUnifARF,
			"ldtmu":      inst.Signal.LoadTMU,
			"ldvary":     inst.Signal.LoadVary,
			"ldvpm":      inst.Signal.LoadVPM,
			"ldtlb":      inst.Signal.LoadTLB,
			"ldtlbu":     inst.Signal.LoadTLBU,
			"ucb":        inst.Signal.UCB,
			"rotate":     inst.Signal.Rotate,
			"wrtmuc":     inst.Signal.WrTMUC,
			"small_imm":  inst.Signal.SmallImmCount() > 0,
		} {
			if set {
				touchSignal(name)
			}
		}
	}

	for _, u := range ops {
		r.Ops = append(r.Ops, u)
	}
	sort.Slice(r.Ops, func(i, j int) bool { return r.Ops[i].Name < r.Ops[j].Name })

	for _, s := range sigs {
		r.Signals = append(r.Signals, s)
	}
	sort.Slice(r.Signals, func(i, j int) bool { return r.Signals[i].Name < r.Signals[j].Name })

	return r
}

// String renders the report as text.
func (r *XRefReport) String() string {
	var sb strings.Builder

	sb.WriteString("Opcode / Signal Cross-Reference\n")
	sb.WriteString("================================\n\n")
	fmt.Fprintf(&sb, "Instructions: %d (branches: %d)\n\n", r.Instructions, r.Branches)

	sb.WriteString("Opcodes\n-------\n")
	for _, u := range r.Ops {
		fmt.Fprintf(&sb, "%-20s add=%-4d mul=%-4d total=%d\n", u.Name, u.Add, u.Mul, u.Total)
	}

	sb.WriteString("\nSignals\n-------\n")
	if len(r.Signals) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, s := range r.Signals {
		fmt.Fprintf(&sb, "%-12s %d\n", s.Name, s.Count)
	}

	return sb.String()
}

// UnusedOps returns every op from the device's add/mul tables that
// this report never exercised, useful for spotting coverage gaps in a
// test corpus.
func UnusedOps(dev isa.Device, r *XRefReport) []string {
	seen := make(map[string]bool, len(r.Ops))
	for _, u := range r.Ops {
		seen[u.Name] = true
	}
	all := make(map[string]bool)
	for _, name := range isa.AddOpNames(dev) {
		all[name] = true
	}
	for _, name := range isa.MulOpNames(dev) {
		all[name] = true
	}
	var unused []string
	for name := range all {
		if !seen[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	return unused
}
