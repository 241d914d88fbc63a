// Package cpu implements the BackseatSafeSystem2k processor core: a
// 256-register 32-bit machine with 64-bit instruction words, a strictly
// sequential multi-cycle fetch/execute sequencer, and split instruction
// and data bus ports with a polled busy handshake.
//
// The package also provides the instruction encoding helpers and a small
// assembler for the .bsm assembly dialect.
package cpu
