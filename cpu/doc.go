// Package cpu implements the CHIP-8 virtual machine core, its assembler, and
// its disassembler.
//
// The machine has 4096 bytes of memory, sixteen 8-bit registers (V0-VF, with
// VF doubling as the carry, borrow and collision flag), a 16-bit index
// register I, a 16 entry return stack, delay and sound timers, a 64x32
// monochrome display, and a 16 key hex keypad.
//
// Programs are loaded at 0x200 and executed one instruction per call to
// Cpu.Step. Timers are decremented by Cpu.TickTimers, which the host calls
// at 60Hz independently of the instruction rate.
//
// The assembler provides a Cowgod-style assembly language with labels,
// macros, equates, and compile-time expression evaluation.
package cpu
