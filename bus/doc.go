// Package bus defines the synchronous, memory-mapped, wait-state-capable
// bus protocol between the CPU core and its memories.
//
// There are two independent ports: a read-only instruction-fetch port
// (32-bit address, 64-bit data) and a read/write data port (32-bit address,
// 32-bit data). Both follow the same handshake: the master asserts an
// address and exactly one request line and holds them steady until it
// observes Busy deasserted on the same cycle; data is valid exactly on that
// cycle. Arbitrarily slow slaves are supported without protocol change.
package bus
