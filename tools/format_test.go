package tools

import (
	"strings"
	"testing"

	"github.com/v3dqpu/qpuasm/isa"
)

func TestFormat_BasicInstruction(t *testing.T) {
	f := NewFormatter(isa.NewDevice(isa.Ver42), DefaultFormatOptions())
	result, err := f.Format("nop ; nop", "test.qasm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "nop") {
		t.Errorf("expected nop in output, got: %s", result)
	}
}

func TestFormat_MultipleInstructions(t *testing.T) {
	f := NewFormatter(isa.NewDevice(isa.Ver42), DefaultFormatOptions())
	src := "nop ; nop\nnop ; nop\nnop ; nop\n"
	result, err := f.Format(src, "test.qasm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d: %q", len(lines), result)
	}
}

func TestFormat_CompactStyle(t *testing.T) {
	f := NewFormatter(isa.NewDevice(isa.Ver42), CompactFormatOptions())
	result, err := f.Format("nop ; nop", "test.qasm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if strings.Contains(result, "  ") {
		t.Errorf("compact style should not contain doubled spaces: %q", result)
	}
}

func TestFormat_ExpandedStyleAddsIndex(t *testing.T) {
	f := NewFormatter(isa.NewDevice(isa.Ver42), ExpandedFormatOptions())
	result, err := f.Format("nop ; nop\nnop ; nop\n", "test.qasm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "0:") || !strings.Contains(result, "1:") {
		t.Errorf("expected index prefixes in expanded output, got: %q", result)
	}
}

func TestFormat_EmptyInput(t *testing.T) {
	f := NewFormatter(isa.NewDevice(isa.Ver42), DefaultFormatOptions())
	result, err := f.Format("", "test.qasm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if strings.TrimSpace(result) != "" {
		t.Errorf("expected empty output for empty input, got: %q", result)
	}
}

func TestFormat_ParseError(t *testing.T) {
	f := NewFormatter(isa.NewDevice(isa.Ver42), DefaultFormatOptions())
	if _, err := f.Format("frobnicate garbage", "test.qasm"); err == nil {
		t.Error("expected a parse error for an unrecognized mnemonic")
	}
}

func TestFormatString_Convenience(t *testing.T) {
	result, err := FormatString(isa.NewDevice(isa.Ver42), "nop ; nop", "test.qasm")
	if err != nil {
		t.Fatalf("FormatString error: %v", err)
	}
	if !strings.Contains(result, "nop") {
		t.Error("expected nop in formatted output")
	}
}

func TestFormatStringWithStyle_Compact(t *testing.T) {
	result, err := FormatStringWithStyle(isa.NewDevice(isa.Ver42), "nop ; nop", "test.qasm", FormatCompact)
	if err != nil {
		t.Fatalf("FormatStringWithStyle error: %v", err)
	}
	if !strings.Contains(result, "nop") {
		t.Error("expected nop in formatted output")
	}
}
