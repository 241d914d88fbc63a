package cpu

import (
	"fmt"
)

// Reg is an 8-bit register index.
type Reg uint8

// Register file size and reserved register conventions. The reserved slots
// get no special write protection: writing REG_INSTRUCTION_POINTER is how
// control transfer happens.
const (
	NUM_REGISTERS           = 256
	REG_STACK_POINTER       = Reg(NUM_REGISTERS - 2) // sp, reserved but unused by any opcode
	REG_INSTRUCTION_POINTER = Reg(NUM_REGISTERS - 1) // ip
)

// Op is the 16-bit operation selector in bits 63-48 of an instruction word.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_LI     = Op(0x0000) // li
	OP_LD     = Op(0x0001) // ld
	OP_MOV    = Op(0x0002) // mov
	OP_ST     = Op(0x0003) // st
	OP_LDR    = Op(0x0004) // ldr
	OP_STR    = Op(0x0005) // str
	OP_HCF    = Op(0x0006) // hcf
	OP_ADD    = Op(0x0007) // add
	OP_SUB    = Op(0x0008) // sub
	OP_SBC    = Op(0x0009) // sbc
	OP_MUL    = Op(0x000A) // mul
	OP_DIVMOD = Op(0x000B) // divmod
	OP_AND    = Op(0x000C) // and
	OP_OR     = Op(0x000D) // or
	OP_XOR    = Op(0x000E) // xor
	OP_NOT    = Op(0x000F) // not
	OP_SHL    = Op(0x0010) // shl
	OP_SHR    = Op(0x0011) // shr
	OP_ADDI   = Op(0x0012) // addi
	OP_SUBI   = Op(0x0013) // subi
	OP_CMP    = Op(0x0014) // cmp
)

// Valid returns true if the Op is one of the 21 decodable operations.
func (op Op) Valid() bool {
	return op >= OP_LI && op <= OP_CMP
}

// HasImmediate returns true if the Op reads the 32-bit immediate view of
// bits 31-0 instead of the reg3/reg4 view.
func (op Op) HasImmediate() bool {
	switch op {
	case OP_LI, OP_LD, OP_ST, OP_ADDI, OP_SUBI:
		return true
	}
	return false
}

// NumRegs returns how many register fields the Op decodes.
func (op Op) NumRegs() int {
	switch op {
	case OP_HCF:
		return 0
	case OP_LI, OP_LD, OP_ST:
		return 1
	case OP_MOV, OP_LDR, OP_STR, OP_NOT, OP_ADDI, OP_SUBI:
		return 2
	case OP_MUL, OP_DIVMOD:
		return 4
	}
	return 3
}

// Instruction is a 64-bit instruction word. It is fetched over the
// instruction port and decoded through fixed bit-field views:
//
//	| opcode | reg1  | reg2  | reg3  | reg4  | unused |
//	| 63-48  | 47-40 | 39-32 | 31-24 | 23-16 | 15-0   |
//
// with a 32-bit immediate in bits 31-0 overlapping reg3/reg4 for the
// immediate-view operations. The opcode determines which view is valid.
type Instruction uint64

// Op returns the 16-bit operation selector.
func (in Instruction) Op() Op {
	return Op(in >> 48)
}

// Reg1 returns the destination / first register field.
func (in Instruction) Reg1() Reg {
	return Reg(in >> 40)
}

// Reg2 returns the second register field.
func (in Instruction) Reg2() Reg {
	return Reg(in >> 32)
}

// Reg3 returns the third register field (4-register operations).
func (in Instruction) Reg3() Reg {
	return Reg(in >> 24)
}

// Reg4 returns the fourth register field (4-register operations).
func (in Instruction) Reg4() Reg {
	return Reg(in >> 16)
}

// Imm returns the 32-bit immediate view of bits 31-0.
func (in Instruction) Imm() uint32 {
	return uint32(in)
}

// MakeRegInstruction builds a register-view instruction, packing regs into
// the reg1..reg4 fields in order.
func MakeRegInstruction(op Op, regs ...Reg) (in Instruction) {
	in = Instruction(uint16(op)) << 48
	shift := 40
	for _, reg := range regs {
		in |= Instruction(reg) << shift
		shift -= 8
	}
	return
}

// MakeImmInstruction builds an immediate-view instruction, packing regs
// into reg1/reg2 and imm into bits 31-0.
func MakeImmInstruction(op Op, imm uint32, regs ...Reg) (in Instruction) {
	in = MakeRegInstruction(op, regs...)
	in |= Instruction(imm)
	return
}

// String returns the assembly language representation of the instruction.
func (in Instruction) String() (out string) {
	op := in.Op()
	if !op.Valid() {
		return fmt.Sprintf("0x%016x", uint64(in))
	}

	out = op.String()
	regs := [4]Reg{in.Reg1(), in.Reg2(), in.Reg3(), in.Reg4()}
	for n := range op.NumRegs() {
		out += fmt.Sprintf(" r%d", regs[n])
	}
	if op.HasImmediate() {
		out += fmt.Sprintf(" 0x%x", in.Imm())
	}

	return
}
