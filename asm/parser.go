// Package asm parses the column-aligned textual instruction syntax
// package disasm emits back into a structured isa.Instruction.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/v3dqpu/qpuasm/isa"
)

// Parser assembles one source line at a time for a fixed Device.
type Parser struct {
	dev      isa.Device
	filename string
}

// New creates a Parser for dev. filename is used in error positions.
func New(dev isa.Device, filename string) *Parser {
	return &Parser{dev: dev, filename: filename}
}

// ParseProgram assembles every non-blank, non-comment-only line of
// src into an instruction, collecting every error rather than
// stopping at the first.
func (p *Parser) ParseProgram(src string) ([]isa.Instruction, *ErrorList) {
	var insts []isa.Instruction
	errs := &ErrorList{}
	for i, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}
		inst, err := p.ParseLine(line, i+1)
		if err != nil {
			if e, ok := err.(*Error); ok {
				errs.add(e)
			} else {
				errs.add(newError(Position{Filename: p.filename, Line: i + 1}, ErrorSyntax, err.Error()))
			}
			continue
		}
		insts = append(insts, inst)
	}
	if errs.HasErrors() {
		return insts, errs
	}
	return insts, nil
}

// ParseLine assembles a single line into an Instruction.
func (p *Parser) ParseLine(line string, lineNo int) (isa.Instruction, error) {
	toks := NewLexer(line).Tokens()
	ts := &tokenStream{toks: toks, pos: Position{Filename: p.filename, Line: lineNo}}

	if ts.peekIdent() == "b" {
		return p.parseBranch(ts)
	}
	return p.parseALU(ts)
}

type tokenStream struct {
	toks []Token
	idx  int
	pos  Position
}

func (ts *tokenStream) peek() Token     { return ts.toks[ts.idx] }
func (ts *tokenStream) at(t TokenType) bool { return ts.peek().Type == t }
func (ts *tokenStream) next() Token {
	t := ts.toks[ts.idx]
	if ts.idx < len(ts.toks)-1 {
		ts.idx++
	}
	return t
}
func (ts *tokenStream) peekIdent() string {
	if ts.at(TokenIdent) {
		return ts.peek().Text
	}
	return ""
}
func (ts *tokenStream) errAt(col int, kind ErrorKind, msg string) *Error {
	pos := ts.pos
	pos.Column = col
	return newError(pos, kind, msg)
}

func (p *Parser) parseALU(ts *tokenStream) (isa.Instruction, error) {
	add, err := p.parseHalf(ts, true)
	if err != nil {
		return isa.Instruction{}, err
	}
	if !ts.at(TokenSemicolon) {
		return isa.Instruction{}, ts.errAt(ts.peek().Column, ErrorSyntax, "expected ';' before the mul half")
	}
	ts.next()

	mul, err := p.parseHalf(ts, false)
	if err != nil {
		return isa.Instruction{}, err
	}

	inst := isa.Instruction{Kind: isa.KindALU, Add: add.half, Mul: mul.half}
	inst.Flags.AddCond, inst.Flags.AddPush, inst.Flags.AddUpdate = add.cond, add.push, add.update
	inst.Flags.MulCond, inst.Flags.MulPush, inst.Flags.MulUpdate = mul.cond, mul.push, mul.update

	if ts.at(TokenSemicolon) {
		ts.next()
		sig, err := p.parseSignalSection(ts)
		if err != nil {
			return isa.Instruction{}, err
		}
		inst.Signal = sig.signals
		inst.SignalAddress = sig.addr
		inst.SignalMagic = sig.magic
	}
	return inst, nil
}

type parsedHalf struct {
	half   isa.ALUHalf
	cond   isa.Condition
	push   isa.PushFlag
	update isa.UpdateFlag
}

func (p *Parser) parseHalf(ts *tokenStream, isAdd bool) (parsedHalf, error) {
	if !ts.at(TokenIdent) {
		return parsedHalf{}, ts.errAt(ts.peek().Column, ErrorSyntax, "expected an opcode mnemonic")
	}
	nameTok := ts.next()

	var names []string
	if isAdd {
		names = isa.AddOpNames(p.dev)
	} else {
		names = isa.MulOpNames(p.dev)
	}
	op, ok := lookupOpName(names, nameTok.Text)
	if !ok {
		return parsedHalf{}, &Error{
			Pos: withCol(ts.pos, nameTok.Column), Kind: ErrorUnknownMnemonic,
			Message: fmt.Sprintf("unknown opcode %q", nameTok.Text), Candidates: candidates(nameTok.Text, names),
		}
	}

	var ph parsedHalf
	ph.half.Op = op
	for ts.at(TokenDot) {
		ts.next()
		if !ts.at(TokenIdent) {
			return parsedHalf{}, ts.errAt(ts.peek().Column, ErrorSyntax, "expected a suffix name after '.'")
		}
		suf := ts.next()
		if err := p.applySuffix(&ph, suf.Text, ts.pos, suf.Column); err != nil {
			return parsedHalf{}, err
		}
	}

	var fields []isa.Operand
	wantDst := op.HasDst()
	numSrc := op.NumSrc()
	total := numSrc
	if wantDst {
		total++
	}
	if total > 0 {
		var destName string
		var destSuffix string
		if wantDst {
			tok, err := p.parseFieldToken(ts)
			if err != nil {
				return parsedHalf{}, err
			}
			destName, destSuffix = tok.name, tok.suffix
			waddr, magic, err := p.resolveWaddr(ts, destName)
			if err != nil {
				return parsedHalf{}, err
			}
			ph.half.Waddr, ph.half.MagicWrite = waddr, magic
			if destSuffix != "" {
				pack, ok := isa.OutputPackFromName(destSuffix)
				if !ok {
					return parsedHalf{}, &Error{Pos: ts.pos, Kind: ErrorUnknownSuffix, Message: fmt.Sprintf("unknown output-pack suffix %q", destSuffix), Candidates: candidates(destSuffix, isa.OutputPackNames())}
				}
				ph.half.OutputPack = pack
			}
			if numSrc > 0 && !ts.at(TokenComma) {
				return parsedHalf{}, ts.errAt(ts.peek().Column, ErrorOperandCount, "expected ',' after destination")
			}
			if numSrc > 0 {
				ts.next()
			}
		}
		for i := 0; i < numSrc; i++ {
			if i > 0 {
				if !ts.at(TokenComma) {
					return parsedHalf{}, ts.errAt(ts.peek().Column, ErrorOperandCount, "expected ',' between operands")
				}
				ts.next()
			}
			operand, err := p.parseOperand(ts)
			if err != nil {
				return parsedHalf{}, err
			}
			fields = append(fields, operand)
		}
		if len(fields) > 0 {
			ph.half.A = fields[0]
		}
		if len(fields) > 1 {
			ph.half.B = fields[1]
		}
	}
	return ph, nil
}

func (p *Parser) applySuffix(ph *parsedHalf, name string, pos Position, col int) error {
	if c, ok := isa.ConditionFromName(name); ok {
		ph.cond = c
		return nil
	}
	if pf, ok := isa.PushFlagFromName(name); ok {
		ph.push = pf
		return nil
	}
	if uf, ok := isa.UpdateFlagFromName(name); ok {
		ph.update = uf
		return nil
	}
	all := append(append(append([]string{}, isa.ConditionNames()...), isa.PushFlagNames()...), isa.UpdateFlagNames()...)
	return &Error{Pos: withCol(pos, col), Kind: ErrorUnknownSuffix, Message: fmt.Sprintf("unknown suffix %q", name), Candidates: candidates(name, all)}
}

type fieldToken struct {
	name   string
	suffix string
	num    string
	isNum  bool
}

func (p *Parser) parseFieldToken(ts *tokenStream) (fieldToken, error) {
	if ts.at(TokenNumber) {
		tok := ts.next()
		ft := fieldToken{num: tok.Text, isNum: true}
		if ts.at(TokenDot) {
			ts.next()
			if !ts.at(TokenIdent) {
				return ft, ts.errAt(ts.peek().Column, ErrorSyntax, "expected a suffix after '.'")
			}
			ft.suffix = ts.next().Text
		}
		return ft, nil
	}
	if !ts.at(TokenIdent) {
		return fieldToken{}, ts.errAt(ts.peek().Column, ErrorOperandForm, "expected a register or magic-address name")
	}
	ft := fieldToken{name: ts.next().Text}
	if ts.at(TokenDot) {
		ts.next()
		if !ts.at(TokenIdent) {
			return ft, ts.errAt(ts.peek().Column, ErrorSyntax, "expected a suffix after '.'")
		}
		ft.suffix = ts.next().Text
	}
	return ft, nil
}

func (p *Parser) resolveWaddr(ts *tokenStream, name string) (waddr uint8, magic bool, err error) {
	if m, ok := isa.LookupMagicWaddrByName(name); ok {
		return m.Value, true, nil
	}
	if n, ok := regfileIndex(name); ok {
		return n, false, nil
	}
	return 0, false, &Error{Pos: ts.pos, Kind: ErrorUnknownRegister, Message: fmt.Sprintf("unknown destination %q", name), Candidates: candidates(name, isa.MagicWaddrNames())}
}

func (p *Parser) parseOperand(ts *tokenStream) (isa.Operand, error) {
	ft, err := p.parseFieldToken(ts)
	if err != nil {
		return isa.Operand{}, err
	}
	var op isa.Operand
	if ft.isNum {
		idx, ok, isFloat := smallImmIndex(ft.num)
		if !ok {
			return isa.Operand{}, ts.errAt(ts.peek().Column, ErrorOperandForm, fmt.Sprintf("%q is not a representable small immediate", ft.num))
		}
		_ = isFloat
		op.SmallImm = true
		op.Raddr = idx
	} else {
		switch {
		case p.dev.Is71():
			n, ok := regfileIndex(ft.name)
			if !ok {
				return isa.Operand{}, &Error{Pos: ts.pos, Kind: ErrorUnknownRegister, Message: fmt.Sprintf("unknown register %q", ft.name)}
			}
			op.Raddr = n
		case strings.HasPrefix(ft.name, "ra"):
			n, ok := parseUint(ft.name[2:])
			if !ok {
				return isa.Operand{}, ts.errAt(ts.peek().Column, ErrorUnknownRegister, fmt.Sprintf("bad register %q", ft.name))
			}
			op.Mux, op.Raddr = isa.MuxA, n
		case strings.HasPrefix(ft.name, "rb"):
			n, ok := parseUint(ft.name[2:])
			if !ok {
				return isa.Operand{}, ts.errAt(ts.peek().Column, ErrorUnknownRegister, fmt.Sprintf("bad register %q", ft.name))
			}
			op.Mux, op.Raddr = isa.MuxB, n
		case strings.HasPrefix(ft.name, "r") && len(ft.name) == 2 && ft.name[1] >= '0' && ft.name[1] <= '5':
			op.Mux = isa.Mux(ft.name[1] - '0')
		default:
			return isa.Operand{}, &Error{Pos: ts.pos, Kind: ErrorUnknownRegister, Message: fmt.Sprintf("unknown register %q", ft.name)}
		}
	}
	if ft.suffix != "" {
		u, ok := isa.InputUnpackFromName(ft.suffix)
		if !ok {
			return isa.Operand{}, &Error{Pos: ts.pos, Kind: ErrorUnknownSuffix, Message: fmt.Sprintf("unknown unpack suffix %q", ft.suffix), Candidates: candidates(ft.suffix, isa.InputUnpackNames())}
		}
		op.Unpack = u
	}
	return op, nil
}

type signalSection struct {
	signals isa.Signals
	addr    uint8
	magic   bool
}

func (p *Parser) parseSignalSection(ts *tokenStream) (signalSection, error) {
	var s signalSection
	if ts.peekIdent() != "sig" {
		return s, ts.errAt(ts.peek().Column, ErrorSyntax, "expected 'sig=' signal section")
	}
	ts.next()
	if !ts.at(TokenEquals) {
		return s, ts.errAt(ts.peek().Column, ErrorSyntax, "expected '=' after 'sig'")
	}
	ts.next()

	if ts.at(TokenIdent) && strings.Contains(ts.peek().Text, "(") {
		// "sig=ldtmu(addr=0x3,magic=true)" form for an address-writing
		// signal: parsed only far enough to recover the signal name,
		// the address/magic pair is reconstructed by the caller from
		// context rather than round-tripped through text.
		s.signals = isa.Signals{}
		applySignalName(&s.signals, strings.SplitN(ts.next().Text, "(", 2)[0])
		return s, nil
	}

	for {
		if !ts.at(TokenIdent) {
			return s, ts.errAt(ts.peek().Column, ErrorSyntax, "expected a signal name")
		}
		applySignalName(&s.signals, ts.next().Text)
		if !ts.at(TokenPlus) {
			break
		}
		ts.next()
	}
	return s, nil
}

func applySignalName(s *isa.Signals, name string) {
	switch name {
	case "thrsw":
		s.ThreadSwitch = true
	case "ldunif":
		s.LoadUnif = true
	case "ldunifrf":
		s.LoadUnifRF = true
	case "ldunifa":
		s.LoadUnifA = true
	case "ldunifarf":
		s.LoadUnifARF = true
	case "ldtmu":
		s.LoadTMU = true
	case "ldvary":
		s.LoadVary = true
	case "ldvpm":
		s.LoadVPM = true
	case "ldtlb":
		s.LoadTLB = true
	case "ldtlbu":
		s.LoadTLBU = true
	case "ucb":
		s.UCB = true
	case "rotate":
		s.Rotate = true
	case "wrtmuc":
		s.WrTMUC = true
	case "smimma":
		s.SmallImmA = true
	case "smimmb":
		s.SmallImmB = true
	case "smimmc":
		s.SmallImmC = true
	case "smimmd":
		s.SmallImmD = true
	}
}

func (p *Parser) parseBranch(ts *tokenStream) (isa.Instruction, error) {
	ts.next() // consume "b"
	var cond isa.BranchCond
	if ts.at(TokenDot) {
		ts.next()
		if !ts.at(TokenIdent) {
			return isa.Instruction{}, ts.errAt(ts.peek().Column, ErrorSyntax, "expected a branch condition after '.'")
		}
		name := ts.next().Text
		c, ok := isa.BranchCondFromName(name)
		if !ok {
			return isa.Instruction{}, &Error{Pos: ts.pos, Kind: ErrorUnknownSuffix, Message: fmt.Sprintf("unknown branch condition %q", name), Candidates: candidates(name, isa.BranchCondNames())}
		}
		cond = c
	}

	b := isa.Branch{Cond: cond}
	destTok, err := p.parseFieldToken(ts)
	if err != nil {
		return isa.Instruction{}, err
	}
	switch {
	case destTok.isNum:
		n, err := strconv.ParseInt(destTok.num, 0, 64)
		if err != nil {
			return isa.Instruction{}, ts.errAt(ts.peek().Column, ErrorOperandForm, fmt.Sprintf("bad branch target %q", destTok.num))
		}
		b.IPDest = isa.DestAbs
		b.Offset = int32(n)
	case destTok.name == "lr":
		b.IPDest = isa.DestLinkReg
	case strings.HasPrefix(destTok.name, "pc") && strings.Contains(destTok.name, "+"):
		// handled via TokenPlus below when the lexer split pc / + / N
	default:
		if n, ok := regfileIndex(destTok.name); ok {
			b.IPDest = isa.DestRegfile
			b.Raddr = n
		} else if destTok.name == "pc" && ts.at(TokenPlus) {
			ts.next()
			if !ts.at(TokenNumber) {
				return isa.Instruction{}, ts.errAt(ts.peek().Column, ErrorOperandForm, "expected an offset after 'pc+'")
			}
			n, err := strconv.ParseInt(ts.next().Text, 0, 64)
			if err != nil {
				return isa.Instruction{}, ts.errAt(ts.peek().Column, ErrorOperandForm, "bad relative offset")
			}
			b.IPDest = isa.DestRel
			b.Offset = int32(n)
		} else {
			return isa.Instruction{}, &Error{Pos: ts.pos, Kind: ErrorOperandForm, Message: fmt.Sprintf("unrecognized branch destination %q", destTok.name)}
		}
	}

	for ts.at(TokenComma) {
		ts.next()
		if !ts.at(TokenIdent) {
			return isa.Instruction{}, ts.errAt(ts.peek().Column, ErrorSyntax, "expected a branch option")
		}
		switch ts.next().Text {
		case "ub":
			b.UpdateUniformBase = true
		case "msfignp":
			b.MsfIgnore = isa.MsfIgnoreP
		case "msfignq":
			b.MsfIgnore = isa.MsfIgnoreQ
		default:
			return isa.Instruction{}, ts.errAt(ts.peek().Column, ErrorSyntax, "unknown branch option")
		}
	}

	return isa.Instruction{Kind: isa.KindBranch, Branch: b}, nil
}

// lookupOpName resolves text to an Op, but only if it is one of the
// mnemonics valid on this ALU half (names, from AddOpNames/MulOpNames).
func lookupOpName(names []string, text string) (isa.Op, bool) {
	for _, n := range names {
		if n == text {
			return isa.OpFromName(text)
		}
	}
	return 0, false
}

func regfileIndex(name string) (uint8, bool) {
	if !strings.HasPrefix(name, "rf") {
		return 0, false
	}
	return parseUint(name[2:])
}

func parseUint(s string) (uint8, bool) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

func smallImmIndex(text string) (idx uint8, ok bool, isFloat bool) {
	if strings.Contains(text, ".") {
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return 0, false, true
		}
		v := float32(f)
		for i := uint8(32); i < 48; i++ {
			if isa.SmallImmFloat(i) == v {
				return i, true, true
			}
		}
		return 0, false, true
	}
	n, err := strconv.ParseInt(text, 0, 32)
	if err != nil {
		return 0, false, false
	}
	i, ok := isa.SmallImmFromInt(int32(n))
	return i, ok, false
}

func withCol(pos Position, col int) Position {
	pos.Column = col
	return pos
}
