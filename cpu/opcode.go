package cpu

import (
	"fmt"
)

// Op is an instruction kind, named by its encoding pattern.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_SYS       = Op(0)  // 0NNN
	OP_CLS       = Op(1)  // 00E0
	OP_RET       = Op(2)  // 00EE
	OP_JP        = Op(3)  // 1NNN
	OP_CALL      = Op(4)  // 2NNN
	OP_SE_VX_KK  = Op(5)  // 3XKK
	OP_SNE_VX_KK = Op(6)  // 4XKK
	OP_SE_VX_VY  = Op(7)  // 5XY0
	OP_LD_VX_KK  = Op(8)  // 6XKK
	OP_ADD_VX_KK = Op(9)  // 7XKK
	OP_LD_VX_VY  = Op(10) // 8XY0
	OP_OR        = Op(11) // 8XY1
	OP_AND       = Op(12) // 8XY2
	OP_XOR       = Op(13) // 8XY3
	OP_ADD_VX_VY = Op(14) // 8XY4
	OP_SUB       = Op(15) // 8XY5
	OP_SHR       = Op(16) // 8XY6
	OP_SUBN      = Op(17) // 8XY7
	OP_SHL       = Op(18) // 8XYE
	OP_SNE_VX_VY = Op(19) // 9XY0
	OP_LD_I      = Op(20) // ANNN
	OP_JP_V0     = Op(21) // BNNN
	OP_RND       = Op(22) // CXKK
	OP_DRW       = Op(23) // DXYN
	OP_SKP       = Op(24) // EX9E
	OP_SKNP      = Op(25) // EXA1
	OP_LD_VX_DT  = Op(26) // FX07
	OP_LD_VX_K   = Op(27) // FX0A
	OP_LD_DT_VX  = Op(28) // FX15
	OP_LD_ST_VX  = Op(29) // FX18
	OP_ADD_I_VX  = Op(30) // FX1E
	OP_LD_F_VX   = Op(31) // FX29
	OP_LD_B_VX   = Op(32) // FX33
	OP_LD_I_VX   = Op(33) // FX55
	OP_LD_VX_I   = Op(34) // FX65
)

// OP_COUNT is the number of instruction kinds.
const OP_COUNT = 35

// Code is a decoded instruction word. Only the operand fields relevant to
// the Op are meaningful; the others are zero.
type Code struct {
	Op  Op
	X   uint8  // Register index Vx.
	Y   uint8  // Register index Vy.
	N   uint8  // 4-bit nibble (sprite height).
	KK  uint8  // 8-bit immediate.
	NNN uint16 // 12-bit address.
}

// MakeCode creates an instruction that takes no operands.
func MakeCode(op Op) Code {
	return Code{Op: op}
}

// MakeCodeAddr creates an instruction with a 12-bit address operand.
func MakeCodeAddr(op Op, nnn uint16) Code {
	return Code{Op: op, NNN: nnn & 0xfff}
}

// MakeCodeX creates an instruction with a single register operand.
func MakeCodeX(op Op, x uint8) Code {
	return Code{Op: op, X: x & 0xf}
}

// MakeCodeXY creates an instruction with two register operands.
func MakeCodeXY(op Op, x, y uint8) Code {
	return Code{Op: op, X: x & 0xf, Y: y & 0xf}
}

// MakeCodeXKK creates an instruction with a register and an 8-bit immediate.
func MakeCodeXKK(op Op, x, kk uint8) Code {
	return Code{Op: op, X: x & 0xf, KK: kk}
}

// MakeCodeDraw creates a sprite draw instruction.
func MakeCodeDraw(x, y, n uint8) Code {
	return Code{Op: OP_DRW, X: x & 0xf, Y: y & 0xf, N: n & 0xf}
}

// Word encodes the instruction back into its 16-bit form.
func (code Code) Word() (word uint16) {
	x := uint16(code.X&0xf) << 8
	y := uint16(code.Y&0xf) << 4
	xy := x | y
	nnn := code.NNN & 0xfff
	kk := uint16(code.KK)

	switch code.Op {
	case OP_SYS:
		word = 0x0000 | nnn
	case OP_CLS:
		word = 0x00e0
	case OP_RET:
		word = 0x00ee
	case OP_JP:
		word = 0x1000 | nnn
	case OP_CALL:
		word = 0x2000 | nnn
	case OP_SE_VX_KK:
		word = 0x3000 | x | kk
	case OP_SNE_VX_KK:
		word = 0x4000 | x | kk
	case OP_SE_VX_VY:
		word = 0x5000 | xy
	case OP_LD_VX_KK:
		word = 0x6000 | x | kk
	case OP_ADD_VX_KK:
		word = 0x7000 | x | kk
	case OP_LD_VX_VY:
		word = 0x8000 | xy
	case OP_OR:
		word = 0x8001 | xy
	case OP_AND:
		word = 0x8002 | xy
	case OP_XOR:
		word = 0x8003 | xy
	case OP_ADD_VX_VY:
		word = 0x8004 | xy
	case OP_SUB:
		word = 0x8005 | xy
	case OP_SHR:
		word = 0x8006 | xy
	case OP_SUBN:
		word = 0x8007 | xy
	case OP_SHL:
		word = 0x800e | xy
	case OP_SNE_VX_VY:
		word = 0x9000 | xy
	case OP_LD_I:
		word = 0xa000 | nnn
	case OP_JP_V0:
		word = 0xb000 | nnn
	case OP_RND:
		word = 0xc000 | x | kk
	case OP_DRW:
		word = 0xd000 | xy | uint16(code.N&0xf)
	case OP_SKP:
		word = 0xe09e | x
	case OP_SKNP:
		word = 0xe0a1 | x
	case OP_LD_VX_DT:
		word = 0xf007 | x
	case OP_LD_VX_K:
		word = 0xf00a | x
	case OP_LD_DT_VX:
		word = 0xf015 | x
	case OP_LD_ST_VX:
		word = 0xf018 | x
	case OP_ADD_I_VX:
		word = 0xf01e | x
	case OP_LD_F_VX:
		word = 0xf029 | x
	case OP_LD_B_VX:
		word = 0xf033 | x
	case OP_LD_I_VX:
		word = 0xf055 | x
	case OP_LD_VX_I:
		word = 0xf065 | x
	default:
		panic(fmt.Sprintf("cpu: unknown op %d", int(code.Op)))
	}

	return
}

// Decode translates a 16-bit instruction word into a Code.
func Decode(word uint16) (code Code, err error) {
	x := uint8((word >> 8) & 0xf)
	y := uint8((word >> 4) & 0xf)
	n := uint8(word & 0xf)
	kk := uint8(word & 0xff)
	nnn := word & 0xfff

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00e0:
			code = MakeCode(OP_CLS)
		case 0x00ee:
			code = MakeCode(OP_RET)
		default:
			code = MakeCodeAddr(OP_SYS, nnn)
		}
	case 0x1:
		code = MakeCodeAddr(OP_JP, nnn)
	case 0x2:
		code = MakeCodeAddr(OP_CALL, nnn)
	case 0x3:
		code = MakeCodeXKK(OP_SE_VX_KK, x, kk)
	case 0x4:
		code = MakeCodeXKK(OP_SNE_VX_KK, x, kk)
	case 0x5:
		if n != 0 {
			err = ErrDecode{Word: word, Reason: f("5XY0 family requires a zero low nibble")}
			return
		}
		code = MakeCodeXY(OP_SE_VX_VY, x, y)
	case 0x6:
		code = MakeCodeXKK(OP_LD_VX_KK, x, kk)
	case 0x7:
		code = MakeCodeXKK(OP_ADD_VX_KK, x, kk)
	case 0x8:
		op, ok := aluOps[n]
		if !ok {
			err = ErrDecode{Word: word, Reason: f("unknown 8XY%X arithmetic operation", n)}
			return
		}
		code = MakeCodeXY(op, x, y)
	case 0x9:
		if n != 0 {
			err = ErrDecode{Word: word, Reason: f("9XY0 family requires a zero low nibble")}
			return
		}
		code = MakeCodeXY(OP_SNE_VX_VY, x, y)
	case 0xa:
		code = MakeCodeAddr(OP_LD_I, nnn)
	case 0xb:
		code = MakeCodeAddr(OP_JP_V0, nnn)
	case 0xc:
		code = MakeCodeXKK(OP_RND, x, kk)
	case 0xd:
		code = MakeCodeDraw(x, y, n)
	case 0xe:
		switch kk {
		case 0x9e:
			code = MakeCodeX(OP_SKP, x)
		case 0xa1:
			code = MakeCodeX(OP_SKNP, x)
		default:
			err = ErrDecode{Word: word, Reason: f("unknown EX%02X key operation", kk)}
			return
		}
	case 0xf:
		op, ok := miscOps[kk]
		if !ok {
			err = ErrDecode{Word: word, Reason: f("unknown FX%02X operation", kk)}
			return
		}
		code = MakeCodeX(op, x)
	}

	return
}

// aluOps maps the low nibble of the 8XYN family.
var aluOps = map[uint8]Op{
	0x0: OP_LD_VX_VY,
	0x1: OP_OR,
	0x2: OP_AND,
	0x3: OP_XOR,
	0x4: OP_ADD_VX_VY,
	0x5: OP_SUB,
	0x6: OP_SHR,
	0x7: OP_SUBN,
	0xe: OP_SHL,
}

// miscOps maps the low byte of the FXKK family.
var miscOps = map[uint8]Op{
	0x07: OP_LD_VX_DT,
	0x0a: OP_LD_VX_K,
	0x15: OP_LD_DT_VX,
	0x18: OP_LD_ST_VX,
	0x1e: OP_ADD_I_VX,
	0x29: OP_LD_F_VX,
	0x33: OP_LD_B_VX,
	0x55: OP_LD_I_VX,
	0x65: OP_LD_VX_I,
}

// Mnemonic returns the assembly mnemonic of the instruction kind.
func (op Op) Mnemonic() string {
	switch op {
	case OP_SYS:
		return "sys"
	case OP_CLS:
		return "cls"
	case OP_RET:
		return "ret"
	case OP_JP, OP_JP_V0:
		return "jp"
	case OP_CALL:
		return "call"
	case OP_SE_VX_KK, OP_SE_VX_VY:
		return "se"
	case OP_SNE_VX_KK, OP_SNE_VX_VY:
		return "sne"
	case OP_ADD_VX_KK, OP_ADD_VX_VY, OP_ADD_I_VX:
		return "add"
	case OP_OR:
		return "or"
	case OP_AND:
		return "and"
	case OP_XOR:
		return "xor"
	case OP_SUB:
		return "sub"
	case OP_SHR:
		return "shr"
	case OP_SUBN:
		return "subn"
	case OP_SHL:
		return "shl"
	case OP_RND:
		return "rnd"
	case OP_DRW:
		return "drw"
	case OP_SKP:
		return "skp"
	case OP_SKNP:
		return "sknp"
	}

	return "ld"
}

// IsSkip returns true for the conditional skip instructions.
func (op Op) IsSkip() bool {
	switch op {
	case OP_SE_VX_KK, OP_SNE_VX_KK, OP_SE_VX_VY, OP_SNE_VX_VY, OP_SKP, OP_SKNP:
		return true
	}
	return false
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	m := code.Op.Mnemonic()

	switch code.Op {
	case OP_CLS, OP_RET:
		return m
	case OP_SYS, OP_JP, OP_CALL:
		return fmt.Sprintf("%v 0x%03x", m, code.NNN)
	case OP_LD_I:
		return fmt.Sprintf("%v i, 0x%03x", m, code.NNN)
	case OP_JP_V0:
		return fmt.Sprintf("%v v0, 0x%03x", m, code.NNN)
	case OP_SE_VX_KK, OP_SNE_VX_KK, OP_LD_VX_KK, OP_ADD_VX_KK, OP_RND:
		return fmt.Sprintf("%v v%x, 0x%02x", m, code.X, code.KK)
	case OP_SE_VX_VY, OP_SNE_VX_VY, OP_LD_VX_VY, OP_OR, OP_AND, OP_XOR,
		OP_ADD_VX_VY, OP_SUB, OP_SHR, OP_SUBN, OP_SHL:
		return fmt.Sprintf("%v v%x, v%x", m, code.X, code.Y)
	case OP_DRW:
		return fmt.Sprintf("%v v%x, v%x, %d", m, code.X, code.Y, code.N)
	case OP_SKP, OP_SKNP:
		return fmt.Sprintf("%v v%x", m, code.X)
	case OP_LD_VX_DT:
		return fmt.Sprintf("%v v%x, dt", m, code.X)
	case OP_LD_VX_K:
		return fmt.Sprintf("%v v%x, k", m, code.X)
	case OP_LD_DT_VX:
		return fmt.Sprintf("%v dt, v%x", m, code.X)
	case OP_LD_ST_VX:
		return fmt.Sprintf("%v st, v%x", m, code.X)
	case OP_ADD_I_VX:
		return fmt.Sprintf("%v i, v%x", m, code.X)
	case OP_LD_F_VX:
		return fmt.Sprintf("%v f, v%x", m, code.X)
	case OP_LD_B_VX:
		return fmt.Sprintf("%v b, v%x", m, code.X)
	case OP_LD_I_VX:
		return fmt.Sprintf("%v [i], v%x", m, code.X)
	case OP_LD_VX_I:
		return fmt.Sprintf("%v v%x, [i]", m, code.X)
	}

	return fmt.Sprintf("%v(%#v)", code.Op, code)
}
