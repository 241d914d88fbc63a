package cpu

import (
	"encoding/binary"
	"iter"
)

// Statement is a single assembled source line: its source location, the
// instruction slot it landed in, the tokenized words, and the encoded
// instruction. Directive-only lines produce no Statement.
type Statement struct {
	LineNo    int
	Ip        int
	Words     []string
	Instr     Instruction
	LinkLabel string
}

// Program is the output of the assembler: the assembled statements in
// slot order, starting at slot 0.
type Program struct {
	Statements []Statement
}

// Debug maps an instruction slot back to the statement that produced it.
type Debug struct {
	*Statement
}

func (prog *Program) Debug(ip uint32) (dbg Debug) {
	for n, st := range prog.Statements {
		if ip == uint32(st.Ip) {
			dbg = Debug{
				Statement: &prog.Statements[n],
			}
			break
		}
	}

	return
}

// Binary returns the program as a raw memory image: one big-endian 64-bit
// word per instruction slot, no header, no padding.
func (prog *Program) Binary() (bins []byte) {
	for _, in := range prog.Instructions() {
		bins = binary.BigEndian.AppendUint64(bins, uint64(in))
	}

	return
}

// Instructions iterates the encoded instruction words in slot order.
func (prog *Program) Instructions() iter.Seq2[uint32, Instruction] {
	return func(yield func(ip uint32, in Instruction) bool) {
		for _, st := range prog.Statements {
			if !yield(uint32(st.Ip), st.Instr) {
				return
			}
		}
	}
}
