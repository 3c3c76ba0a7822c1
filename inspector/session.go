// Package inspector implements an interactive session over a program
// of QPU instructions: assemble or load source, step through the
// decoded/disassembled form instruction by instruction, and run the
// validator over the current program. It is driven either by the
// line-oriented CLI in interface.go or the tview-based TUI in tui.go.
package inspector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/v3dqpu/qpuasm/asm"
	"github.com/v3dqpu/qpuasm/codec"
	"github.com/v3dqpu/qpuasm/disasm"
	"github.com/v3dqpu/qpuasm/isa"
	"github.com/v3dqpu/qpuasm/validator"
)

// Session holds the program under inspection and the cursor position
// commands operate relative to.
type Session struct {
	Dev     isa.Device
	Program []isa.Instruction
	Source  []string // one entry per Program instruction, its source line if known

	Cursor int // index into Program the "list"/"word"/"fields" commands default to

	// Command history (most recent last) and the last executed
	// command, for empty-input repeat the way the teacher's debugger
	// does it.
	History     []string
	LastCommand string

	Output strings.Builder
}

// NewSession creates an inspection session targeting dev.
func NewSession(dev isa.Device) *Session {
	return &Session{Dev: dev}
}

// Printf writes formatted text to the output buffer.
func (s *Session) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&s.Output, format, args...)
}

// Println writes a line to the output buffer.
func (s *Session) Println(text string) {
	s.Output.WriteString(text)
	s.Output.WriteString("\n")
}

// GetOutput returns and clears the accumulated output.
func (s *Session) GetOutput() string {
	out := s.Output.String()
	s.Output.Reset()
	return out
}

// ExecuteCommand parses and runs a single command line, the way
// debugger.Debugger.ExecuteCommand does for the ARM debugger.
func (s *Session) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = s.LastCommand
	}
	if cmdLine != "" {
		s.History = append(s.History, cmdLine)
		s.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	return s.handleCommand(cmd, args)
}

func (s *Session) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "asm", "a":
		return s.cmdAsm(args)
	case "disasm", "dis":
		return s.cmdDisasm(args)
	case "list", "l":
		return s.cmdList(args)
	case "goto", "g":
		return s.cmdGoto(args)
	case "word", "w":
		return s.cmdWord(args)
	case "fields", "f":
		return s.cmdFields(args)
	case "validate", "v":
		return s.cmdValidate(args)
	case "version":
		return s.cmdVersion(args)
	case "clear":
		return s.cmdClear(args)
	case "help", "h", "?":
		return s.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// cmdAsm assembles the remainder of the line and appends it to the
// program.
func (s *Session) cmdAsm(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: asm <instruction text>")
	}
	line := strings.Join(args, " ")
	p := asm.New(s.Dev, "inspector")
	inst, err := p.ParseLine(line, len(s.Program)+1)
	if err != nil {
		return err
	}
	s.Program = append(s.Program, inst)
	s.Source = append(s.Source, line)
	s.Cursor = len(s.Program) - 1
	s.Printf("instruction %d assembled\n", s.Cursor)
	return nil
}

// cmdDisasm decodes a hex word, appends it to the program, and prints
// its disassembly.
func (s *Session) cmdDisasm(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disasm <hex word>")
	}
	word, err := parseHexWord(args[0])
	if err != nil {
		return err
	}
	inst, err := codec.Unpack(s.Dev, word)
	if err != nil {
		return fmt.Errorf("unpack failed: %w", err)
	}
	s.Program = append(s.Program, inst)
	s.Source = append(s.Source, "")
	s.Cursor = len(s.Program) - 1

	d := disasm.New(s.Dev, disasm.DefaultOptions())
	s.Printf("%d: %s\n", s.Cursor, d.Line(inst))
	return nil
}

// cmdList prints the disassembly of the whole program, marking the
// cursor position.
func (s *Session) cmdList(args []string) error {
	if len(s.Program) == 0 {
		s.Println("program is empty")
		return nil
	}
	d := disasm.New(s.Dev, disasm.DefaultOptions())
	for i, inst := range s.Program {
		marker := "  "
		if i == s.Cursor {
			marker = "->"
		}
		s.Printf("%s %3d: %s\n", marker, i, d.Line(inst))
	}
	return nil
}

// cmdGoto moves the cursor to the given instruction index.
func (s *Session) cmdGoto(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: goto <index>")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 0 || idx >= len(s.Program) {
		return fmt.Errorf("index %q out of range (program has %d instructions)", args[0], len(s.Program))
	}
	s.Cursor = idx
	return nil
}

// cmdWord prints the packed word for the instruction at the cursor
// (or a given index).
func (s *Session) cmdWord(args []string) error {
	idx := s.Cursor
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad index %q", args[0])
		}
		idx = v
	}
	if idx < 0 || idx >= len(s.Program) {
		return fmt.Errorf("index %d out of range", idx)
	}
	word, err := codec.Pack(s.Dev, s.Program[idx])
	if err != nil {
		return fmt.Errorf("pack failed: %w", err)
	}
	s.Printf("%d: 0x%016x\n", idx, word)
	return nil
}

// cmdFields prints the structured fields of the instruction at the
// cursor (or a given index).
func (s *Session) cmdFields(args []string) error {
	idx := s.Cursor
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad index %q", args[0])
		}
		idx = v
	}
	if idx < 0 || idx >= len(s.Program) {
		return fmt.Errorf("index %d out of range", idx)
	}
	inst := s.Program[idx]
	s.Printf("kind: %v\n", inst.Kind)
	if inst.Kind == isa.KindALU {
		s.Printf("add: %+v\n", inst.Add)
		s.Printf("mul: %+v\n", inst.Mul)
		s.Printf("flags: %+v\n", inst.Flags)
	} else {
		s.Printf("branch: %+v\n", inst.Branch)
	}
	s.Printf("signal: %+v\n", inst.Signal)
	return nil
}

// cmdValidate runs the validator over the whole program.
func (s *Session) cmdValidate(args []string) error {
	if len(s.Program) == 0 {
		s.Println("program is empty")
		return nil
	}
	v := validator.NewValidator(s.Dev)
	ok, res := v.Validate(s.Program)
	if ok {
		s.Println("program is valid")
		return nil
	}
	s.Printf("instruction %d: %s (%s)\n", res.Index, res.Message, res.Kind)
	return nil
}

// cmdVersion reports or switches the target ISA version. Switching
// versions does not re-validate the already-loaded program against
// the new version's tables; callers wanting that should clear and
// reassemble.
func (s *Session) cmdVersion(args []string) error {
	if len(args) == 0 {
		s.Printf("current version: %s\n", versionName(s.Dev.Ver))
		return nil
	}
	ver, ok := versionFromName(args[0])
	if !ok {
		return fmt.Errorf("unknown version %q (want one of 3.3, 4.0, 4.1, 4.2, 7.1)", args[0])
	}
	s.Dev = isa.NewDevice(ver)
	s.Printf("version set to %s\n", versionName(ver))
	return nil
}

// cmdClear discards the current program.
func (s *Session) cmdClear(args []string) error {
	s.Program = nil
	s.Source = nil
	s.Cursor = 0
	s.Println("program cleared")
	return nil
}

func (s *Session) cmdHelp(args []string) error {
	s.Println("commands:")
	s.Println("  asm <text>      assemble one instruction and append it")
	s.Println("  disasm <hex>    decode a packed word and append it")
	s.Println("  list            list the program, marking the cursor")
	s.Println("  goto <n>        move the cursor to instruction n")
	s.Println("  word [n]        print the packed word at the cursor or n")
	s.Println("  fields [n]      print the decoded fields at the cursor or n")
	s.Println("  validate        run the validator over the whole program")
	s.Println("  version [ver]   report or switch the target ISA version")
	s.Println("  clear           discard the current program")
	s.Println("  help            show this text")
	return nil
}

func parseHexWord(text string) (uint64, error) {
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	word, err := strconv.ParseUint(text, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad hex word %q: %w", text, err)
	}
	return word, nil
}

var versionNames = map[isa.Version]string{
	isa.Ver33: "3.3",
	isa.Ver40: "4.0",
	isa.Ver41: "4.1",
	isa.Ver42: "4.2",
	isa.Ver71: "7.1",
}

func versionName(v isa.Version) string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return "unknown"
}

func versionFromName(name string) (isa.Version, bool) {
	for v, n := range versionNames {
		if n == name {
			return v, true
		}
	}
	return 0, false
}
