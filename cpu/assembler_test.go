package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, asm *Assembler, lines ...string) (prog *Program) {
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SCREEN_WIDTH", "64")

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Empty(prog.Binary())

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("64", asm.Equate["SCREEN_WIDTH"])

	prog = assemble(t, asm, "ld v0, $(SCREEN_WIDTH - 1)")
	assert.Equal([]byte{0x60, 0x3f}, prog.Binary())
}

func TestAssembler_Instructions(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		word uint16
	}){
		{"sys 0x123", 0x0123},
		{"cls", 0x00e0},
		{"ret", 0x00ee},
		{"jp 0x345", 0x1345},
		{"call 0x345", 0x2345},
		{"se v3, 0x12", 0x3312},
		{"sne v3, 18", 0x4312},
		{"se v3, v4", 0x5340},
		{"ld v3, 0b1010", 0x630a},
		{"add v3, 1", 0x7301},
		{"add v1, -1", 0x71ff},
		{"ld v3, v4", 0x8340},
		{"or v3, v4", 0x8341},
		{"and v3, v4", 0x8342},
		{"xor v3, v4", 0x8343},
		{"add v3, v4", 0x8344},
		{"sub v3, v4", 0x8345},
		{"shr v3, v4", 0x8346},
		{"shr v3", 0x8336},
		{"subn v3, v4", 0x8347},
		{"shl v3, v4", 0x834e},
		{"shl v3", 0x833e},
		{"sne v3, v4", 0x9340},
		{"ld i, 0x400", 0xa400},
		{"jp v0, 0x300", 0xb300},
		{"rnd v3, 0x0f", 0xc30f},
		{"drw v3, v4, 15", 0xd34f},
		{"skp v3", 0xe39e},
		{"sknp v3", 0xe3a1},
		{"ld v3, dt", 0xf307},
		{"ld v3, k", 0xf30a},
		{"ld dt, v3", 0xf315},
		{"ld st, v3", 0xf318},
		{"add i, v3", 0xf31e},
		{"ld f, v3", 0xf329},
		{"ld b, v3", 0xf333},
		{"ld [i], v3", 0xf355},
		{"ld v3, [i]", 0xf365},
		{"LD VA, 0x12", 0x6a12},
		{"Ld I, 0x400", 0xa400},
		{"ld\tv0,'A'", 0x6041},
		{"ld v0 ~0", 0x60ff},
	}

	asm := &Assembler{}
	for _, entry := range table {
		prog, err := asm.Parse(strings.NewReader(entry.line))
		if !assert.NoError(err, entry.line) {
			continue
		}
		assert.Equal([]byte{byte(entry.word >> 8), byte(entry.word)}, prog.Binary(), entry.line)
	}
}

func TestAssembler_Label(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		"start:",
		"	ld i, sprite",
		"	call subr",
		"loop: jp loop",
		"subr: ret",
		"	.word subr",
		"sprite:",
		"	.byte 0xff, 0x81 ; two rows",
		"	jp start",
	)

	assert.Equal(map[string]int{
		"start":  0x200,
		"loop":   0x204,
		"subr":   0x206,
		"sprite": 0x20a,
	}, asm.Label)

	assert.Equal([]byte{
		0xa2, 0x0a,
		0x22, 0x06,
		0x12, 0x04,
		0x00, 0xee,
		0x02, 0x06,
		0xff, 0x81,
		0x12, 0x00,
	}, prog.Binary())

	dbg := prog.Debug(0x20b)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(8, dbg.LineNo)
	}
}

func TestAssembler_Equ(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		".equ SPRITE 0x300",
		".equ COUNTER v3",
		"ld i, SPRITE",
		"ld COUNTER, 5",
		"add COUNTER, $(SPRITE >> 8)",
		"ld v0, LINENO",
	)

	assert.Equal([]byte{
		0xa3, 0x00,
		0x63, 0x05,
		0x73, 0x03,
		0x60, 0x06,
	}, prog.Binary())
}

func TestAssembler_Macro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		".macro inc reg",
		"add reg, 1",
		".endm",
		".macro spin",
		"@wait: jp @wait",
		".endm",
		"inc v2",
		"spin",
		"spin",
	)

	assert.Equal([]byte{
		0x72, 0x01,
		0x12, 0x02,
		0x12, 0x04,
	}, prog.Binary())

	assert.Equal(0x202, asm.Label["spin_8_wait"])
	assert.Equal(0x204, asm.Label["spin_9_wait"])
	assert.Equal(2, prog.Opcodes[0].LineNo)

	_, ok := asm.Equate["reg"]
	assert.False(ok)
}

func TestAssembler_Data(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		".byte $(1 + 2), '0', '\\n'",
		".word 0x1234, 0xffff",
		"cls",
	)

	assert.Equal([]byte{3, 48, 10, 0x12, 0x34, 0xff, 0xff, 0x00, 0xe0}, prog.Binary())

	// Instructions after odd sized data are not aligned.
	var addrs []uint16
	for addr := range prog.Codes() {
		addrs = append(addrs, addr)
	}
	assert.Equal([]uint16{0x207}, addrs)
}

func TestAssembler_Disassembly(t *testing.T) {
	assert := assert.New(t)

	var rom []byte
	for op := range Op(OP_COUNT) {
		code := Code{Op: op, X: 0x3, Y: 0xc, N: 0x7, KK: 0x5a, NNN: 0x6b4}
		code, err := Decode(code.Word())
		if !assert.NoError(err, op.String()) {
			continue
		}
		word := code.Word()
		rom = append(rom, byte(word>>8), byte(word))
	}
	rom = append(rom, 0xe0, 0x12, 0x7f)

	var lines []string
	for _, text := range Disassemble(rom) {
		lines = append(lines, text)
	}

	asm := &Assembler{}
	prog := assemble(t, asm, lines...)
	assert.Equal(rom, prog.Binary())
}

func TestAssembler_ErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	table := [](struct {
		prog   string
		line   int
		target error
	}){
		{"loop:\nloop:\n", 2, ErrLabelDuplicate},
		{"ld v0", 1, ErrOpcodeMissing},
		{"ld v0, 1, 2", 1, ErrOpcodeExtraArgs},
		{"cls v0", 1, ErrOpcodeExtraArgs},
		{"ld vg, 1", 1, ErrParseRegister("vg")},
		{"ld v0, 0x100", 1, ErrValueRange},
		{"drw v0, v1, 16", 1, ErrValueRange},
		{".byte 256", 1, ErrValueRange},
		{".byte 1, x", 1, ErrParseNumber("x")},
		{"cls\njp nowhere", 2, ErrLabelMissing("nowhere")},
		{"jp v1, 0x200", 1, ErrOpcodeInvalid},
		{"jp v1", 1, ErrParseNumber("v1")},
		{"frob v0", 1, ErrInstructionInvalid},
		{".equ A", 1, ErrEquateSyntax},
		{".equ A 1\n.equ A 2\n", 2, ErrEquateDuplicate},
		{".macro A\n.macro B\n", 2, ErrMacroNesting},
		{".macro\n", 1, ErrMacroSyntax},
		{".macro A\n.endm\n.macro A\n.endm\n", 3, ErrMacroDuplicate},
		{".endm", 1, ErrMacroLonelyEndm},
		{".macro A\ncls\n", 2, ErrMacroLonely},
		{".macro A x\n.endm\nA\n", 3, ErrMacroSyntax},
		{".macro A x\nld x, 1\n.endm\nA 5\n", 4, ErrParseRegister("5")},
		{"ld v0, $(\"a\")", 1, ErrParseExpression("\"a\"")},
		{"ld v0, $(1 +)", 1, nil},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		if !assert.Error(err, entry.prog) {
			continue
		}
		if assert.True(errors.As(err, &se), entry.prog) {
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
		if entry.target != nil {
			assert.ErrorIs(err, entry.target, entry.prog)
		}
	}
}
