package tools

import (
	"fmt"
	"strings"

	"github.com/v3dqpu/qpuasm/asm"
	"github.com/v3dqpu/qpuasm/disasm"
	"github.com/v3dqpu/qpuasm/isa"
)

// FormatStyle selects a column layout for re-rendered instruction text.
type FormatStyle int

const (
	FormatDefault  FormatStyle = iota // disasm's normal column layout
	FormatCompact                     // no alignment, minimal whitespace
	FormatExpanded                    // default columns plus an index prefix
)

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	Style       FormatStyle
	IndexColumn bool // prefix each line with its instruction index
}

// DefaultFormatOptions returns default formatter options.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatDefault, IndexColumn: false}
}

// CompactFormatOptions returns options for compact formatting.
func CompactFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatCompact}
}

// ExpandedFormatOptions returns options for expanded formatting with an
// index column, the style a listing or diagnostic dump wants.
func ExpandedFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatExpanded, IndexColumn: true}
}

// Formatter re-renders a parsed program through the disassembler's
// canonical textual layout, normalizing whatever spacing and casing
// the source used. Grounded on the teacher's parse-then-rewrite
// formatter shape, adapted since this ISA has no labels or directives
// to interleave: every line is one instruction.
type Formatter struct {
	options *FormatOptions
	dev     isa.Device
}

// NewFormatter creates a new formatter targeting dev.
func NewFormatter(dev isa.Device, options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options, dev: dev}
}

// Format parses input as a program and re-renders it through the
// disassembler, one output line per input instruction.
func (f *Formatter) Format(input, filename string) (string, error) {
	p := asm.New(f.dev, filename)
	insts, errs := p.ParseProgram(input)
	if errs != nil && errs.HasErrors() {
		return "", fmt.Errorf("parse error: %s", errs.Error())
	}

	d := disasm.New(f.dev, disasm.DefaultOptions())
	var out strings.Builder
	for i, inst := range insts {
		line := d.Line(inst)
		if f.options.Style == FormatCompact {
			line = strings.Join(strings.Fields(line), " ")
		}
		if f.options.IndexColumn {
			fmt.Fprintf(&out, "%4d: %s\n", i, line)
		} else {
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	return out.String(), nil
}

// FormatString is a convenience function to format a string with default options.
func FormatString(dev isa.Device, input, filename string) (string, error) {
	return NewFormatter(dev, DefaultFormatOptions()).Format(input, filename)
}

// FormatStringWithStyle formats a string with the specified style.
func FormatStringWithStyle(dev isa.Device, input, filename string, style FormatStyle) (string, error) {
	var options *FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	return NewFormatter(dev, options).Format(input, filename)
}
