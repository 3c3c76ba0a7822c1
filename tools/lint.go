package tools

import (
	"fmt"
	"sort"

	"github.com/v3dqpu/qpuasm/asm"
	"github.com/v3dqpu/qpuasm/isa"
	"github.com/v3dqpu/qpuasm/validator"
)

// LintLevel represents the severity of a lint issue.
type LintLevel int

const (
	LintError   LintLevel = iota // validator-rejected programs
	LintWarning                  // likely mistakes that still assemble
	LintInfo                     // style suggestions
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue represents a single lint finding.
type LintIssue struct {
	Level   LintLevel
	Index   int // instruction index, 0-based
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("instruction %d: %s: %s [%s]", i.Index, i.Level, i.Message, i.Code)
}

// LintOptions controls linter behavior.
type LintOptions struct {
	Strict        bool // treat warnings as errors
	CheckDeadCode bool // flag no-op instructions carrying no signal
	CheckWaddr    bool // flag suspicious write-address reuse
}

// DefaultLintOptions returns default linter options.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{Strict: false, CheckDeadCode: true, CheckWaddr: true}
}

// Linter analyzes an assembled program for issues beyond the
// validator's hard pass/fail verdict. Grounded on the teacher's
// parse-then-analyze linter shape; adapted since this ISA has no
// labels, so the undefined/unused-label and unreachable-code passes
// have no analogue here and are replaced by QPU-specific style checks.
type Linter struct {
	options *LintOptions
	dev     isa.Device
	issues  []*LintIssue
}

// NewLinter creates a new linter targeting dev.
func NewLinter(dev isa.Device, options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{options: options, dev: dev}
}

// Lint analyzes the given assembly source code.
func (l *Linter) Lint(input, filename string) []*LintIssue {
	l.issues = nil

	p := asm.New(l.dev, filename)
	insts, errs := p.ParseProgram(input)
	if errs != nil && errs.HasErrors() {
		for _, e := range errs.Errors {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintError,
				Index:   e.Pos.Line - 1,
				Message: e.Message,
				Code:    "PARSE_ERROR",
			})
		}
	}

	l.checkValidator(insts)
	if l.options.CheckDeadCode {
		l.checkDeadCode(insts)
	}
	if l.options.CheckWaddr {
		l.checkWaddrReuse(insts)
	}

	sort.SliceStable(l.issues, func(i, j int) bool { return l.issues[i].Index < l.issues[j].Index })
	return l.issues
}

// checkValidator folds the static validator's verdict into the issue list.
func (l *Linter) checkValidator(insts []isa.Instruction) {
	if len(insts) == 0 {
		return
	}
	v := validator.NewValidator(l.dev)
	if ok, res := v.Validate(insts); !ok {
		l.issues = append(l.issues, &LintIssue{
			Level:   LintError,
			Index:   res.Index,
			Message: res.Message,
			Code:    res.Kind.String(),
		})
	}
}

// checkDeadCode flags ALU instructions that compute nothing (both
// halves are effectively nop) and raise no signal, a no-op slot that
// could be removed without changing behavior.
func (l *Linter) checkDeadCode(insts []isa.Instruction) {
	for i, inst := range insts {
		if inst.Kind != isa.KindALU {
			continue
		}
		if inst.Add.Op != isa.OpNop || inst.Mul.Op != isa.OpNop {
			continue
		}
		if inst.Signal.Any() {
			continue
		}
		l.issues = append(l.issues, &LintIssue{
			Level:   LintInfo,
			Index:   i,
			Message: "nop;nop with no signal does nothing",
			Code:    "DEAD_INSTRUCTION",
		})
	}
}

// checkWaddrReuse flags the add and mul halves writing the same
// register-file address in one cycle, which is legal but usually a
// typo since only one of the two results survives.
func (l *Linter) checkWaddrReuse(insts []isa.Instruction) {
	for i, inst := range insts {
		if inst.Kind != isa.KindALU {
			continue
		}
		if inst.Add.MagicWrite || inst.Mul.MagicWrite {
			continue
		}
		if inst.Add.Op == isa.OpNop || inst.Mul.Op == isa.OpNop {
			continue
		}
		if inst.Add.Waddr == inst.Mul.Waddr {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintWarning,
				Index:   i,
				Message: fmt.Sprintf("add and mul both write register-file address %d", inst.Add.Waddr),
				Code:    "DUPLICATE_WADDR",
			})
		}
	}
}

// GenerateLint is a convenience function to lint a string with default options.
func GenerateLint(dev isa.Device, input, filename string) []*LintIssue {
	return NewLinter(dev, DefaultLintOptions()).Lint(input, filename)
}
