package cpu

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"math/rand"
	"time"
)

const (
	REG_COUNT = 16  // General purpose registers V0-VF.
	REG_FLAG  = 0xf // VF, the carry, borrow, and collision flag.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":   fmt.Sprintf("%#x", MEMORY_SIZE),
	"PROGRAM_START": fmt.Sprintf("%#x", PROGRAM_START),
	"FONT_ADDR":     fmt.Sprintf("%#x", FONT_ADDR),
	"FONT_HEIGHT":   fmt.Sprintf("%d", FONT_HEIGHT),
	"SCREEN_WIDTH":  fmt.Sprintf("%d", SCREEN_WIDTH),
	"SCREEN_HEIGHT": fmt.Sprintf("%d", SCREEN_HEIGHT),
}

// State is the execution state of the Cpu.
type State int

const (
	STATE_RUNNING      = State(0) // Fetching and executing instructions.
	STATE_AWAITING_KEY = State(1) // Suspended by FX0A until a key is pressed.
)

func (s State) String() string {
	switch s {
	case STATE_RUNNING:
		return "running"
	case STATE_AWAITING_KEY:
		return "awaiting-key"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Random is the source of the RND instruction's bytes.
type Random interface {
	Uint32() uint32
}

// Quirks select between the behaviours of CHIP-8 derivatives.
type Quirks struct {
	ShiftVy       bool // SHR/SHL shift Vy into Vx, instead of shifting Vx in place.
	IndexOverflow bool // ADD I, Vx sets VF to 1 if I passes 0xFFF, else 0.
}

// Config is the construction time configuration of a Cpu.
type Config struct {
	Random     Random                           // RND source. Seeded from the clock if nil.
	Quirks     Quirks                           // Compatibility behaviours.
	Diagnostic func(format string, args ...any) // Optional diagnostic sink.
	Verbose    bool                             // Trace every instruction to Diagnostic.
}

// Cpu is the complete CHIP-8 machine state.
type Cpu struct {
	Verbose bool // Set to trace every instruction to Diagnostic.

	Memory   Memory           // Code and data.
	Register [REG_COUNT]uint8 // V0-VF.
	Index    uint16           // I register.
	Pc       uint16           // Program counter.
	Stack    Stack            // Return addresses.
	Delay    Timer            // Delay timer.
	Sound    Timer            // Sound timer, buzzer is on while non-zero.
	Display  Display          // Framebuffer.
	Keypad   Keypad           // Key pressed state.
	Quirks   Quirks           // Compatibility behaviours.
	Random   Random           // RND source.
	Ticks    int              // Executed instruction counter.
	Loaded   int              // Size of the loaded program.

	// Diagnostic receives observability notes. May be nil.
	Diagnostic func(format string, args ...any)

	state   State
	waitReg uint8 // Target register of FX0A.
}

// NewCpu creates a new Cpu, with the font installed and the program
// counter at PROGRAM_START.
func NewCpu(config Config) (cpu *Cpu) {
	cpu = &Cpu{
		Verbose:    config.Verbose,
		Quirks:     config.Quirks,
		Random:     config.Random,
		Diagnostic: config.Diagnostic,
	}

	if cpu.Random == nil {
		cpu.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	cpu.Memory.Reset()
	cpu.Pc = PROGRAM_START

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Load copies the program into memory at PROGRAM_START.
func (cpu *Cpu) Load(program []byte) (err error) {
	if len(program) > PROGRAM_LIMIT {
		err = ErrProgramTooLarge{Size: len(program), Limit: PROGRAM_LIMIT}
		return
	}

	err = cpu.Memory.Write(PROGRAM_START, program)
	if err != nil {
		return
	}

	cpu.Loaded = len(program)
	cpu.diag("cpu: loaded %d bytes at 0x%03x", len(program), PROGRAM_START)

	return
}

// State returns the execution state.
func (cpu *Cpu) State() State {
	return cpu.state
}

// Buzzer returns true while the sound timer is running.
func (cpu *Cpu) Buzzer() bool {
	return cpu.Sound.Active()
}

// TakeRedraw returns true if the display needs redrawing, and clears the flag.
func (cpu *Cpu) TakeRedraw() bool {
	return cpu.Display.Redraw()
}

// TickTimers decrements the delay and sound timers.
func (cpu *Cpu) TickTimers() {
	cpu.Delay.Tick()
	cpu.Sound.Tick()
}

// SetKey updates the keypad. A key press while awaiting a key stores the
// key in the waiting register and resumes execution.
func (cpu *Cpu) SetKey(key int, pressed bool) (err error) {
	if key < 0 || key >= KEY_COUNT {
		err = ErrKeyInvalid
		return
	}

	down := cpu.Keypad.Set(key, pressed)
	if down && cpu.state == STATE_AWAITING_KEY {
		cpu.writeReg(cpu.waitReg, uint8(key))
		cpu.state = STATE_RUNNING
		cpu.diag("cpu: key %X resumes execution", key)
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("%5s: 0x%03X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("%5s: 0x%03X\n", "i", cpu.Index)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("%5s: 0x%02X\n", fmt.Sprintf("v%X", n), val)
	}
	var strval string
	if val, ok := cpu.Stack.Peek(); ok {
		strval = fmt.Sprintf("0x%03X (%d)", val, cpu.Stack.Depth())
	} else {
		strval = "-----"
	}
	text += fmt.Sprintf("%5s: %v\n", "stack", strval)
	text += fmt.Sprintf("%5s: %d\n", "dt", cpu.Delay)
	text += fmt.Sprintf("%5s: %d\n", "st", cpu.Sound)
	text += fmt.Sprintf("%5s: %v\n", "state", cpu.state)

	return
}

func (cpu *Cpu) diag(format string, args ...any) {
	if cpu.Diagnostic != nil {
		cpu.Diagnostic(format, args...)
	}
}

// writeReg sets a register, noting general purpose use of VF.
func (cpu *Cpu) writeReg(reg uint8, value uint8) {
	if reg == REG_FLAG {
		cpu.diag("cpu: 0x%03x: vF written as a general purpose register", cpu.Pc)
	}
	cpu.Register[reg] = value
}

// Fetch reads the instruction word at the program counter.
func (cpu *Cpu) Fetch() (word uint16, err error) {
	return cpu.Memory.Word(int(cpu.Pc))
}

// Step fetches, decodes, and executes a single instruction. While
// awaiting a key press, Step does nothing.
//
// On error, the machine state is unchanged.
func (cpu *Cpu) Step() (err error) {
	if cpu.state == STATE_AWAITING_KEY {
		return
	}

	word, err := cpu.Fetch()
	if err != nil {
		return
	}

	code, err := Decode(word)
	if err != nil {
		return
	}

	return cpu.Execute(code)
}

// Execute executes a single decoded instruction at the program counter.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if cpu.Verbose {
		cpu.diag("%03x: %v", cpu.Pc, code)
	}

	next_pc := cpu.Pc + 2
	skip := func(cond bool) {
		if cond {
			next_pc += 2
		}
	}

	vx := cpu.Register[code.X]
	vy := cpu.Register[code.Y]

	switch code.Op {
	case OP_SYS:
		cpu.diag("cpu: 0x%03x: machine code call to 0x%03x ignored", cpu.Pc, code.NNN)
	case OP_CLS:
		cpu.Display.Clear()
	case OP_RET:
		var ok bool
		next_pc, ok = cpu.Stack.Pop()
		if !ok {
			err = ErrStackUnderflow
			return
		}
	case OP_JP:
		next_pc = code.NNN
	case OP_CALL:
		if !cpu.Stack.Push(next_pc) {
			err = ErrStackOverflow
			return
		}
		next_pc = code.NNN
	case OP_SE_VX_KK:
		skip(vx == code.KK)
	case OP_SNE_VX_KK:
		skip(vx != code.KK)
	case OP_SE_VX_VY:
		skip(vx == vy)
	case OP_SNE_VX_VY:
		skip(vx != vy)
	case OP_LD_VX_KK:
		cpu.writeReg(code.X, code.KK)
	case OP_ADD_VX_KK:
		cpu.writeReg(code.X, vx+code.KK)
	case OP_LD_VX_VY:
		cpu.writeReg(code.X, vy)
	case OP_OR:
		cpu.writeReg(code.X, vx|vy)
	case OP_AND:
		cpu.writeReg(code.X, vx&vy)
	case OP_XOR:
		cpu.writeReg(code.X, vx^vy)
	case OP_ADD_VX_VY, OP_SUB, OP_SUBN, OP_SHR, OP_SHL:
		result, flag := cpu.doAlu(code.Op, vx, vy)
		cpu.Register[code.X] = result
		cpu.Register[REG_FLAG] = flag
	case OP_LD_I:
		cpu.Index = code.NNN
	case OP_JP_V0:
		next_pc = code.NNN + uint16(cpu.Register[0])
	case OP_RND:
		cpu.writeReg(code.X, uint8(cpu.Random.Uint32())&code.KK)
	case OP_DRW:
		var rows []byte
		rows, err = cpu.Memory.Read(int(cpu.Index), int(code.N))
		if err != nil {
			return
		}
		var flag uint8
		if cpu.Display.Draw(int(vx), int(vy), rows) {
			flag = 1
		}
		cpu.Register[REG_FLAG] = flag
	case OP_SKP:
		skip(cpu.Keypad.Pressed(vx))
	case OP_SKNP:
		skip(!cpu.Keypad.Pressed(vx))
	case OP_LD_VX_DT:
		cpu.writeReg(code.X, uint8(cpu.Delay))
	case OP_LD_VX_K:
		cpu.state = STATE_AWAITING_KEY
		cpu.waitReg = code.X
		cpu.diag("cpu: 0x%03x: awaiting key for v%X", cpu.Pc, code.X)
	case OP_LD_DT_VX:
		cpu.Delay = Timer(vx)
	case OP_LD_ST_VX:
		cpu.Sound = Timer(vx)
	case OP_ADD_I_VX:
		sum := uint32(cpu.Index) + uint32(vx)
		cpu.Index = uint16(sum)
		if cpu.Quirks.IndexOverflow {
			var flag uint8
			if sum > 0xfff {
				flag = 1
			}
			cpu.Register[REG_FLAG] = flag
		}
	case OP_LD_F_VX:
		cpu.Index = FontAddr(vx)
	case OP_LD_B_VX:
		err = cpu.Memory.Write(int(cpu.Index), []byte{vx / 100, (vx / 10) % 10, vx % 10})
		if err != nil {
			return
		}
	case OP_LD_I_VX:
		err = cpu.Memory.Write(int(cpu.Index), cpu.Register[:code.X+1])
		if err != nil {
			return
		}
	case OP_LD_VX_I:
		var data []byte
		data, err = cpu.Memory.Read(int(cpu.Index), int(code.X)+1)
		if err != nil {
			return
		}
		if code.X == REG_FLAG {
			cpu.diag("cpu: 0x%03x: vF loaded as a general purpose register", cpu.Pc)
		}
		copy(cpu.Register[:], data)
	default:
		err = ErrDecode{Word: code.Word(), Reason: f("unknown op %v", code.Op)}
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}

// doAlu performs the flag setting arithmetic, and returns the result and the
// new VF value.
func (cpu *Cpu) doAlu(op Op, vx, vy uint8) (result uint8, flag uint8) {
	switch op {
	case OP_ADD_VX_VY:
		sum := uint16(vx) + uint16(vy)
		result = uint8(sum)
		if sum > 0xff {
			flag = 1
		}
	case OP_SUB:
		result = vx - vy
		if vx >= vy {
			flag = 1
		}
	case OP_SUBN:
		result = vy - vx
		if vy >= vx {
			flag = 1
		}
	case OP_SHR:
		src := vx
		if cpu.Quirks.ShiftVy {
			src = vy
		}
		result = src >> 1
		flag = src & 1
	case OP_SHL:
		src := vx
		if cpu.Quirks.ShiftVy {
			src = vy
		}
		result = src << 1
		flag = src >> 7
	}

	return
}
