package mmio

import "sync"

// Mem is a simulated register file backed by a map. Registers read as zero
// until first written, which matches the emulator's reset state.
//
// The mutex exists only so a host-side harness (the front panel) can flip
// input bits while the control loop runs; on the real device the register
// set has exactly one writer and no locking happens at all.
type Mem struct {
	mu   sync.RWMutex
	regs map[Addr]uint32
}

func NewMem() *Mem {
	return &Mem{
		regs: make(map[Addr]uint32),
	}
}

func (m *Mem) Read(addr Addr) uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.regs[addr]
}

func (m *Mem) Write(addr Addr, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.regs[addr] = value
}

// SetBits and ClearBits let the simulation harness flip individual input
// bits without racing the loop's read-modify-writes.
func (m *Mem) SetBits(addr Addr, mask uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.regs[addr] |= mask
}

func (m *Mem) ClearBits(addr Addr, mask uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.regs[addr] &^= mask
}
