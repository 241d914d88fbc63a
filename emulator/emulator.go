package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/cpu"
	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/internal"
	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/memory"
)

const (
	DATA_WORDS = 65536 // Size of the data store, in 32-bit words.
)

var _emulator_defines = map[string]string{
	"DATA_WORDS": fmt.Sprintf("%v", DATA_WORDS),
}

// Emulator state. CPU + memory, plus the program listing for
// source-level diagnostics.
type Emulator struct {
	Verbose  bool           // If set, enables verbose logging.
	*cpu.Cpu                // Reference to the CPU simulation.
	Memory   *memory.Memory // Memory behind both bus ports.
	Program  *cpu.Program   // Currently loaded program listing, if any.

	TickLimit int // Watchdog: abort if no halt within this many cycles. 0 disables.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	mem := memory.NewMemory(DATA_WORDS)
	emu = &Emulator{
		Cpu:     cpu.NewCpu(mem, mem),
		Memory:  mem,
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Memory.Defines(),
	)
}

// LoadImage loads a raw memory image into the instruction store.
func (emu *Emulator) LoadImage(image []byte) (err error) {
	return emu.Memory.LoadImage(image)
}

// Reset loads the current program (if any) and resets the machine.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Memory.Verbose = emu.Verbose

	if emu.Program != nil && len(emu.Program.Statements) > 0 {
		err = emu.Memory.LoadImage(emu.Program.Binary())
		if err != nil {
			return
		}
	}

	emu.Memory.Reset()
	emu.Cpu.Reset()

	return
}

// LineNo returns the source line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Ip())
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single clock cycle of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	if emu.Cpu.Halted() {
		done = true
		return
	}

	if emu.TickLimit > 0 && emu.Cpu.Ticks >= emu.TickLimit {
		err = ErrTickLimit(emu.TickLimit)
	}

	return
}

// Run ticks the machine until it halts, faults, or hits the tick limit.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
