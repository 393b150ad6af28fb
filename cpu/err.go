package cpu

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStackEmpty = errors.New(f("stack empty"))
	ErrStackFull  = errors.New(f("stack full"))
	ErrKeyInvalid = errors.New(f("key invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("operand missing"))
	ErrOpcodeInvalid      = errors.New(f("operand invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
)

// ErrStackOverflow is a call made with the return stack at capacity.
var ErrStackOverflow = ErrStackFull

// ErrStackUnderflow is a return made with an empty return stack.
var ErrStackUnderflow = ErrStackEmpty

// ErrDecode is an instruction word outside of the instruction set.
type ErrDecode struct {
	Word   uint16
	Reason string
}

func (err ErrDecode) Error() string {
	return f("decode 0x%04x: %v", err.Word, err.Reason)
}

// Is matches any ErrDecode.
func (err ErrDecode) Is(target error) (ok bool) {
	_, ok = target.(ErrDecode)
	return
}

// ErrMemoryAccess is an access of Size bytes at Addr that would leave memory.
type ErrMemoryAccess struct {
	Addr int
	Size int
}

func (err ErrMemoryAccess) Error() string {
	return f("memory access of %d bytes at 0x%03x out of bounds", err.Size, err.Addr)
}

// Is matches any ErrMemoryAccess.
func (err ErrMemoryAccess) Is(target error) (ok bool) {
	_, ok = target.(ErrMemoryAccess)
	return
}

// ErrProgramTooLarge is a program that does not fit the program window.
type ErrProgramTooLarge struct {
	Size  int
	Limit int
}

func (err ErrProgramTooLarge) Error() string {
	return f("program of %d bytes exceeds the %d byte limit", err.Size, err.Limit)
}

// Is matches any ErrProgramTooLarge.
func (err ErrProgramTooLarge) Is(target error) (ok bool) {
	_, ok = target.(ErrProgramTooLarge)
	return
}

// ErrOpcode identifies the instruction that failed to execute.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x %v", Code(eo).Word(), Code(eo).String())
}

// Is matches any ErrOpcode.
func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
