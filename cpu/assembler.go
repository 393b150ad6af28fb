// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for CHIP-8.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}
	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	if invert {
		value = ^value
	}

	return
}

// register parses a register name, v0 through vf.
func register(word string) (reg uint8, ok bool) {
	word = strings.ToLower(word)
	if len(word) != 2 || word[0] != 'v' {
		return
	}
	v, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		return
	}
	return uint8(v), true
}

// getRegister parses a register operand.
func (asm *Assembler) getRegister(word string) (reg uint8, err error) {
	reg, ok := register(word)
	if !ok {
		err = ErrParseRegister(word)
	}
	return
}

// getValue parses a numeric operand in the range [-(limit+1)/2, limit].
func (asm *Assembler) getValue(word string, limit int) (value uint16, err error) {
	v, err := asm.valueOf(word)
	if err != nil {
		return
	}
	if v > limit || v < -(limit+1)/2 {
		err = ErrValueRange
		return
	}
	value = uint16(v) & uint16(limit)
	return
}

// getAddr parses an address operand, which may be a label to link later.
func (asm *Assembler) getAddr(word string) (addr uint16, label string, err error) {
	addr, err = asm.getValue(word, 0xfff)
	if err == nil {
		return
	}
	if _, ok := register(word); !ok && reLabel.MatchString(word) {
		err = nil
		label = word
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// splitWords splits a line on spaces, tabs, and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique per invocation.
		local := fmt.Sprintf("%v_%v_", name, lineno)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, macro.LineNo+n)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddr gets the address of the next opcode.
func (asm *Assembler) currentAddr() int {
	if len(asm.Opcode) == 0 {
		return PROGRAM_START
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + last.Size()
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of address labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		switch {
		case len(op.Codes) == 1:
			op.Codes[0].NNN = uint16(addr) & 0xfff
		case len(op.Data) == 2:
			op.Data[0] = byte(addr >> 8)
			op.Data[1] = byte(addr)
		default:
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// aluMap maps the two register ALU mnemonics.
var aluMap = map[string]Op{
	"or":   OP_OR,
	"and":  OP_AND,
	"xor":  OP_XOR,
	"sub":  OP_SUB,
	"subn": OP_SUBN,
	"shr":  OP_SHR,
	"shl":  OP_SHL,
}

// ldMap maps the special first operands of ld.
var ldMap = map[string]Op{
	"dt":  OP_LD_DT_VX,
	"st":  OP_LD_ST_VX,
	"f":   OP_LD_F_VX,
	"b":   OP_LD_B_VX,
	"[i]": OP_LD_I_VX,
}

// ldSrcMap maps the special second operands of ld vx.
var ldSrcMap = map[string]Op{
	"dt":  OP_LD_VX_DT,
	"k":   OP_LD_VX_K,
	"[i]": OP_LD_VX_I,
}

// argCount checks the operand count.
func argCount(args []string, min, max int) (err error) {
	switch {
	case len(args) < min:
		err = ErrOpcodeMissing
	case len(args) > max:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseXYorKK parses 'vx, vy' or 'vx, byte' operands.
func (asm *Assembler) parseXYorKK(args []string, xy Op, xkk Op) (code Code, err error) {
	err = argCount(args, 2, 2)
	if err != nil {
		return
	}
	x, err := asm.getRegister(args[0])
	if err != nil {
		return
	}
	if y, ok := register(args[1]); ok {
		code = MakeCodeXY(xy, x, y)
		return
	}
	kk, err := asm.getValue(args[1], 0xff)
	if err != nil {
		return
	}
	code = MakeCodeXKK(xkk, x, uint8(kk))
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var data []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || (len(codes) == 0 && len(data) == 0) {
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Codes: codes, Data: data, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]
	for n, arg := range args {
		if _, ok := register(arg); ok {
			args[n] = strings.ToLower(arg)
		}
		switch lower := strings.ToLower(arg); lower {
		case "i", "[i]", "dt", "st", "k", "f", "b":
			args[n] = lower
		}
	}

	var code Code

	switch mnemonic {
	case "cls", "ret":
		err = argCount(args, 0, 0)
		if err != nil {
			return
		}
		code = MakeCode(OP_CLS)
		if mnemonic == "ret" {
			code = MakeCode(OP_RET)
		}
	case "sys", "call", "jp":
		err = argCount(args, 1, 2)
		if err != nil {
			return
		}
		op := map[string]Op{"sys": OP_SYS, "call": OP_CALL, "jp": OP_JP}[mnemonic]
		if len(args) == 2 {
			if mnemonic != "jp" || args[0] != "v0" {
				err = ErrOpcodeInvalid
				return
			}
			op = OP_JP_V0
			args = args[1:]
		}
		var addr uint16
		addr, label, err = asm.getAddr(args[0])
		if err != nil {
			return
		}
		code = MakeCodeAddr(op, addr)
	case "se":
		code, err = asm.parseXYorKK(args, OP_SE_VX_VY, OP_SE_VX_KK)
	case "sne":
		code, err = asm.parseXYorKK(args, OP_SNE_VX_VY, OP_SNE_VX_KK)
	case "add":
		if len(args) > 0 && args[0] == "i" {
			err = argCount(args, 2, 2)
			if err != nil {
				return
			}
			var x uint8
			x, err = asm.getRegister(args[1])
			code = MakeCodeX(OP_ADD_I_VX, x)
			break
		}
		code, err = asm.parseXYorKK(args, OP_ADD_VX_VY, OP_ADD_VX_KK)
	case "or", "and", "xor", "sub", "subn", "shr", "shl":
		op := aluMap[mnemonic]
		if op == OP_SHR || op == OP_SHL {
			err = argCount(args, 1, 2)
			if len(args) == 1 {
				args = append(args, args[0])
			}
		} else {
			err = argCount(args, 2, 2)
		}
		if err != nil {
			return
		}
		var x, y uint8
		x, err = asm.getRegister(args[0])
		if err != nil {
			return
		}
		y, err = asm.getRegister(args[1])
		code = MakeCodeXY(op, x, y)
	case "rnd":
		err = argCount(args, 2, 2)
		if err != nil {
			return
		}
		var x uint8
		var kk uint16
		x, err = asm.getRegister(args[0])
		if err != nil {
			return
		}
		kk, err = asm.getValue(args[1], 0xff)
		code = MakeCodeXKK(OP_RND, x, uint8(kk))
	case "drw":
		err = argCount(args, 3, 3)
		if err != nil {
			return
		}
		var x, y uint8
		var n uint16
		x, err = asm.getRegister(args[0])
		if err != nil {
			return
		}
		y, err = asm.getRegister(args[1])
		if err != nil {
			return
		}
		n, err = asm.getValue(args[2], 0xf)
		code = MakeCodeDraw(x, y, uint8(n))
	case "skp", "sknp":
		err = argCount(args, 1, 1)
		if err != nil {
			return
		}
		var x uint8
		x, err = asm.getRegister(args[0])
		code = MakeCodeX(OP_SKP, x)
		if mnemonic == "sknp" {
			code.Op = OP_SKNP
		}
	case "ld":
		code, label, err = asm.parseLoad(args)
	case ".byte":
		err = argCount(args, 1, len(args))
		for _, arg := range args {
			if err != nil {
				return
			}
			var v uint16
			v, err = asm.getValue(arg, 0xff)
			data = append(data, byte(v))
		}
		return
	case ".word":
		err = argCount(args, 1, len(args))
		for _, arg := range args {
			if err != nil {
				return
			}
			var v uint16
			v, err = asm.getValue(arg, 0xffff)
			if err != nil && len(args) == 1 && reLabel.MatchString(arg) {
				v, label, err = 0, arg, nil
			}
			data = append(data, byte(v>>8), byte(v))
		}
		return
	default:
		err = ErrInstructionInvalid
		return
	}

	if err != nil {
		return
	}

	codes = append(codes, code)

	return
}

// parseLoad parses the operands of the many forms of ld.
func (asm *Assembler) parseLoad(args []string) (code Code, label string, err error) {
	err = argCount(args, 2, 2)
	if err != nil {
		return
	}

	if args[0] == "i" {
		var addr uint16
		addr, label, err = asm.getAddr(args[1])
		code = MakeCodeAddr(OP_LD_I, addr)
		return
	}

	if op, ok := ldMap[args[0]]; ok {
		var x uint8
		x, err = asm.getRegister(args[1])
		code = MakeCodeX(op, x)
		return
	}

	if op, ok := ldSrcMap[args[1]]; ok {
		var x uint8
		x, err = asm.getRegister(args[0])
		code = MakeCodeX(op, x)
		return
	}

	code, err = asm.parseXYorKK(args, OP_LD_VX_VY, OP_LD_VX_KK)
	return
}
