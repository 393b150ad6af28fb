// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand"
	"time"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
)

const (
	TIMER_HZ               = 60 // Timer tick rate.
	INSTRUCTIONS_PER_FRAME = 10 // Default instructions executed per timer tick.
)

var _emulator_defines = map[string]string{
	"TIMER_HZ": fmt.Sprintf("%v", TIMER_HZ),
}

// Emulator state. CPU + program listing + frame cadence.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Rom      []byte       // Program image, used instead of Program when set.

	Quirks               cpu.Quirks // Compatibility behaviours of the next Reset.
	Seed                 int64      // RND seed of the next Reset. Zero seeds from the clock.
	InstructionsPerFrame int        // Instructions executed per timer tick.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program:              &cpu.Program{},
		InstructionsPerFrame: INSTRUCTIONS_PER_FRAME,
	}

	emu.Cpu = emu.newCpu()

	return
}

func (emu *Emulator) newCpu() *cpu.Cpu {
	seed := emu.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	config := cpu.Config{
		Random:  rand.New(rand.NewSource(seed)),
		Quirks:  emu.Quirks,
		Verbose: emu.Verbose,
	}
	if emu.Verbose {
		config.Diagnostic = log.Printf
	}

	return cpu.NewCpu(config)
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Image returns the program image that Reset loads.
func (emu *Emulator) Image() []byte {
	if emu.Rom != nil {
		return emu.Rom
	}
	return emu.Program.Binary()
}

// Reset replaces the CPU with a fresh one, and loads the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu = emu.newCpu()

	if emu.Verbose {
		log.Printf("emulator: reset")
	}

	return emu.Cpu.Load(emu.Image())
}

// LineNo returns the source line number for the executing opcode, or zero
// if the program has no listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick executes a single instruction.
func (emu *Emulator) Tick() (err error) {
	pc := emu.Cpu.Pc
	lineno := emu.LineNo()

	err = emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{Addr: pc, LineNo: lineno, Err: err}
	}

	return
}

// Frame executes one timer period: InstructionsPerFrame instructions
// followed by a timer tick.
func (emu *Emulator) Frame() (err error) {
	for range emu.InstructionsPerFrame {
		err = emu.Tick()
		if err != nil {
			return
		}
		if emu.Cpu.State() == cpu.STATE_AWAITING_KEY {
			break
		}
	}

	emu.Cpu.TickTimers()

	return
}
