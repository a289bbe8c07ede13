// Package mmio provides bit-level access to memory-mapped hardware
// registers through an injected register file, so the control logic can run
// against real hardware or a simulated device.
package mmio

// Addr is a fixed hardware register address.
type Addr uint32

// RegisterFile is the only sanctioned way to touch register state. Read
// must always return the register's current value; implementations must not
// cache values between calls.
type RegisterFile interface {
	Read(addr Addr) uint32
	Write(addr Addr, value uint32)
}

// Test reports whether any bit of mask is set in the register's current
// value. It never modifies the register.
func Test(rf RegisterFile, addr Addr, mask uint32) bool {
	return rf.Read(addr)&mask != 0
}

// Set ORs mask into the register, leaving unmasked bits unchanged. The
// read-modify-write is not atomic; it is safe here because there is a single
// writer (one core, no interrupts), which is an assumption of this system
// rather than a general guarantee.
func Set(rf RegisterFile, addr Addr, mask uint32) {
	rf.Write(addr, rf.Read(addr)|mask)
}

// Clear ANDs the complement of mask into the register, leaving unmasked
// bits unchanged. Same single-writer assumption as Set.
func Clear(rf RegisterFile, addr Addr, mask uint32) {
	rf.Write(addr, rf.Read(addr)&^mask)
}

// Field extracts width bits of the register starting at bit shift.
func Field(rf RegisterFile, addr Addr, shift, width uint) uint32 {
	return (rf.Read(addr) >> shift) & (1<<width - 1)
}
