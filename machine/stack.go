package machine

// Push writes a value at the stack pointer, then moves the stack pointer down.
func (m *Machine) Push(value uint8) {
	sp := m.Sp()
	m.Memory[sp] = value
	m.SetSp(sp - 1)
}

// Pop moves the stack pointer up, then reads the value it points to.
func (m *Machine) Pop() (value uint8) {
	sp := m.Sp() + 1
	m.SetSp(sp)
	value = m.Memory[sp]
	return
}

// Peek returns the most recently pushed value without moving the stack pointer.
func (m *Machine) Peek() (value uint8, ok bool) {
	if m.Empty() {
		return
	}

	return m.Memory[m.Sp()+1], true
}

// Depth returns the number of values on the stack.
func (m *Machine) Depth() int {
	return STACK_TOP - int(m.Sp())
}

// Empty returns true if the stack pointer is at the top of memory.
func (m *Machine) Empty() bool {
	return m.Sp() == STACK_TOP
}
