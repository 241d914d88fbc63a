package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/bus"
)

// State is the sequencer state. The machine is strictly sequential: one
// transition per rising clock edge, at most one instruction in flight.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_FETCH1 = State(0) // fetch1
	STATE_FETCH2 = State(1) // fetch2
	STATE_DECODE = State(2) // decode
	STATE_LOAD1  = State(3) // load1
	STATE_LOAD2  = State(4) // load2
	STATE_STORE1 = State(5) // store1
	STATE_STORE2 = State(6) // store2
	STATE_HALTED = State(7) // halted
)

// Registers is the flat register file: 256 general-purpose 32-bit words
// indexed by the full 8-bit range. The two highest slots carry reserved
// roles (REG_STACK_POINTER, REG_INSTRUCTION_POINTER) but remain ordinary
// storage.
type Registers [NUM_REGISTERS]uint32

var _cpu_defines = map[string]string{
	"NUM_REGISTERS": fmt.Sprintf("%v", NUM_REGISTERS),
	"REG_SP":        fmt.Sprintf("%v", uint32(REG_STACK_POINTER)),
	"REG_IP":        fmt.Sprintf("%v", uint32(REG_INSTRUCTION_POINTER)),
}

// Cpu is the processor core: register file, flags, and the fetch/execute
// sequencer driving the two bus ports.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	IBus bus.InstrSlave // Instruction-fetch port (read-only, 64-bit data).
	DBus bus.DataSlave  // Data port (read/write, 32-bit data).

	Registers Registers
	Carry     bool
	Zero      bool

	State State
	Instr Instruction // Current instruction latch, valid from the end of fetch2.
	Fault error       // Diagnostic decode error latched alongside the halt.

	Ticks int // Clock cycles since reset.

	ireq  bus.InstrRequest // Held instruction-port lines.
	dreq  bus.DataRequest  // Held data-port lines.
	maddr uint32           // In-flight load/store address.
	mreg  Reg              // In-flight load/store register.
}

// NewCpu creates a CPU attached to the given bus slaves, in the reset
// state.
func NewCpu(ibus bus.InstrSlave, dbus bus.DataSlave) (cpu *Cpu) {
	cpu = &Cpu{
		IBus: ibus,
		DBus: dbus,
	}
	cpu.Reset()

	return
}

// Defines for the cpu.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset asynchronously forces the initial state: fetch1 with the
// instruction pointer at slot 0, both request lines deasserted, and any
// in-flight bus transaction discarded. It is the only way out of the
// halted state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Registers[:])
	cpu.Carry = false
	cpu.Zero = false
	cpu.State = STATE_FETCH1
	cpu.Instr = 0
	cpu.Fault = nil
	cpu.Ticks = 0
	cpu.ireq = bus.InstrRequest{}
	cpu.dreq = bus.DataRequest{}
	cpu.maddr = 0
	cpu.mreg = 0
}

// Halted reports whether the sequencer is in the terminal halted state,
// the sole observable termination signal.
func (cpu *Cpu) Halted() bool {
	return cpu.State == STATE_HALTED
}

// Ip returns the current instruction pointer (register 255).
func (cpu *Cpu) Ip() uint32 {
	return cpu.Registers[REG_INSTRUCTION_POINTER]
}

// String returns the current architectural state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("state: %v  carry: %v  zero: %v\n", cpu.State, cpu.Carry, cpu.Zero)
	text += fmt.Sprintf("   ip: 0x%08x\n", cpu.Registers[REG_INSTRUCTION_POINTER])
	text += fmt.Sprintf("   sp: 0x%08x\n", cpu.Registers[REG_STACK_POINTER])
	for n, value := range cpu.Registers[:REG_STACK_POINTER] {
		if value != 0 {
			text += fmt.Sprintf(" r%03d: 0x%08x\n", n, value)
		}
	}

	return
}

// Step advances the sequencer by one rising clock edge. Bus waits are pure
// re-polls: while a slave asserts busy the held request lines are
// re-presented and the state does not change, so a slave that never
// deasserts busy stalls the core indefinitely (there is no internal
// watchdog).
//
// The returned error is non-nil exactly once, on the edge an unrecognized
// opcode is decoded; the machine halts permanently and the diagnostic
// stays latched in Fault until reset.
func (cpu *Cpu) Step() (err error) {
	cpu.Ticks++

	switch cpu.State {
	case STATE_FETCH1:
		cpu.ireq = bus.InstrRequest{
			Addr: cpu.Registers[REG_INSTRUCTION_POINTER],
			Read: true,
		}
		cpu.State = STATE_FETCH2
	case STATE_FETCH2:
		resp := cpu.IBus.InstrCycle(cpu.ireq)
		if resp.Busy {
			break // hold the lines, re-sample next edge
		}
		cpu.Instr = Instruction(resp.Data)
		cpu.ireq = bus.InstrRequest{}
		cpu.State = STATE_DECODE
		// Decode is combinational: it completes on the same edge as
		// the instruction latch.
		err = cpu.decode()
	case STATE_DECODE:
		err = cpu.decode()
	case STATE_LOAD1:
		cpu.dreq = bus.DataRequest{Addr: cpu.maddr, Read: true}
		cpu.State = STATE_LOAD2
	case STATE_LOAD2:
		resp := cpu.DBus.DataCycle(cpu.dreq)
		if resp.Busy {
			break
		}
		cpu.dreq = bus.DataRequest{}
		cpu.advance()
		// The capture wins over the IP advance, so a load into
		// register 255 is a jump.
		cpu.Registers[cpu.mreg] = resp.Data
		cpu.State = STATE_FETCH1
	case STATE_STORE1:
		cpu.dreq = bus.DataRequest{
			Addr:  cpu.maddr,
			Write: true,
			Data:  cpu.Registers[cpu.mreg],
		}
		cpu.State = STATE_STORE2
	case STATE_STORE2:
		resp := cpu.DBus.DataCycle(cpu.dreq)
		if resp.Busy {
			break
		}
		cpu.dreq = bus.DataRequest{}
		cpu.advance()
		cpu.State = STATE_FETCH1
	case STATE_HALTED:
		// Terminal: only Reset leaves this state.
	}

	return
}

// advance increments the instruction pointer by one slot. Callers that
// write a result register afterwards let the write win, which is what
// makes a write to register 255 a control transfer.
func (cpu *Cpu) advance() {
	cpu.Registers[REG_INSTRUCTION_POINTER]++
}

// decode dispatches the latched instruction word: moves and ALU
// operations complete combinationally and return to fetch1, loads and
// stores hand off to the data-port sub-sequences, HCF halts. An
// unrecognized opcode is the sole fatal condition.
func (cpu *Cpu) decode() (err error) {
	in := cpu.Instr
	op := in.Op()

	if cpu.Verbose {
		log.Printf("%08x: %v", cpu.Registers[REG_INSTRUCTION_POINTER], in)
	}

	if !op.Valid() {
		err = ErrOpcode(in)
		cpu.Fault = err
		cpu.State = STATE_HALTED
		if cpu.Verbose {
			log.Printf("cpu: %v", err)
		}
		return
	}

	switch op {
	case OP_LI:
		cpu.advance()
		cpu.Registers[in.Reg1()] = in.Imm()
		cpu.State = STATE_FETCH1
	case OP_MOV:
		value := cpu.Registers[in.Reg2()]
		cpu.advance()
		cpu.Registers[in.Reg1()] = value
		cpu.State = STATE_FETCH1
	case OP_LD:
		cpu.maddr = in.Imm()
		cpu.mreg = in.Reg1()
		cpu.State = STATE_LOAD1
	case OP_LDR:
		cpu.maddr = cpu.Registers[in.Reg2()]
		cpu.mreg = in.Reg1()
		cpu.State = STATE_LOAD1
	case OP_ST:
		cpu.maddr = in.Imm()
		cpu.mreg = in.Reg1()
		cpu.State = STATE_STORE1
	case OP_STR:
		cpu.maddr = cpu.Registers[in.Reg1()]
		cpu.mreg = in.Reg2()
		cpu.State = STATE_STORE1
	case OP_HCF:
		cpu.State = STATE_HALTED
	default:
		// Data-processing: operand selection per encoding view, all
		// operand reads before the IP advance.
		var out AluResult
		switch op {
		case OP_MUL, OP_DIVMOD:
			out = Alu(op, cpu.Registers[in.Reg3()], cpu.Registers[in.Reg4()], cpu.Carry)
		case OP_NOT:
			out = Alu(op, cpu.Registers[in.Reg2()], 0, cpu.Carry)
		case OP_ADDI, OP_SUBI:
			out = Alu(op, cpu.Registers[in.Reg2()], in.Imm(), cpu.Carry)
		default:
			out = Alu(op, cpu.Registers[in.Reg2()], cpu.Registers[in.Reg3()], cpu.Carry)
		}
		cpu.advance()
		cpu.Registers[in.Reg1()] = out.Value
		if op == OP_MUL || op == OP_DIVMOD {
			cpu.Registers[in.Reg2()] = out.Extra
		}
		cpu.Carry = out.Carry
		cpu.Zero = out.Zero
		cpu.State = STATE_FETCH1
	}

	return
}
