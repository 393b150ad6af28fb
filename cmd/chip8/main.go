// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
)

func main() {
	var compile string
	var rom string
	var save bool
	var output string
	var list bool
	var verbose bool
	var ipf int
	var seed int64
	var shiftVy bool
	var indexOverflow bool

	flag.StringVar(&compile, "c", "", ".c8s file to assemble")
	flag.StringVar(&rom, "r", "", ".ch8 ROM file to run")
	flag.BoolVar(&save, "s", false, "Save assembled ROM, do not execute")
	flag.StringVar(&output, "o", "-", "Saved ROM output")
	flag.BoolVar(&list, "l", false, "List the disassembled ROM, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&ipf, "ipf", emulator.INSTRUCTIONS_PER_FRAME, "Instructions per 60Hz frame")
	flag.Int64Var(&seed, "seed", 0, "RND seed (0 seeds from the clock)")
	flag.BoolVar(&shiftVy, "shift-vy", false, "SHR/SHL shift Vy into Vx")
	flag.BoolVar(&indexOverflow, "index-overflow", false, "ADD I, Vx sets VF on overflow past 0xFFF")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Seed = seed
	emu.InstructionsPerFrame = ipf
	emu.Quirks = cpu.Quirks{ShiftVy: shiftVy, IndexOverflow: indexOverflow}

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(rom) != 0:
		data, err := os.ReadFile(rom)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
		emu.Rom = data
	default:
		log.Fatalf("%v: one of -c or -r is required", os.Args[0])
	}

	if save {
		image := emu.Image()
		var err error
		if output == "-" {
			_, err = os.Stdout.Write(image)
		} else {
			err = os.WriteFile(output, image, 0o644)
		}
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	if list {
		for addr, text := range cpu.Disassemble(emu.Image()) {
			fmt.Printf("%03X: %v\n", addr, text)
		}
		return
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = run(emu)
	if err != nil {
		log.Fatal(err)
	}
}
