package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/cpu"
	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/emulator"
)

func main() {
	var compile string
	var output string
	var image string
	var codewait int
	var datawait int
	var ticklimit int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".bsm file to assemble")
	flag.StringVar(&output, "o", "", "Write the assembled memory image to this file")
	flag.StringVar(&image, "i", "", "Raw memory image to execute")
	flag.IntVar(&codewait, "cw", 0, "Busy cycles per instruction fetch")
	flag.IntVar(&datawait, "dw", 0, "Busy cycles per data access")
	flag.IntVar(&ticklimit, "t", 0, "Abort if no halt within this many cycles (0: no limit)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 && len(image) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.TickLimit = ticklimit
	emu.Memory.CodeWait = codewait
	emu.Memory.DataWait = datawait

	// Assemble a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for attr, val := range emu.Defines() {
			asm.Predefine(attr, val)
		}

		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(output) != 0 {
		err := os.WriteFile(output, emu.Program.Binary(), 0o644)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	if len(image) != 0 {
		raw, err := os.ReadFile(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		emu.Program = nil
		err = emu.LoadImage(raw)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(emu.Cpu.String())
}
