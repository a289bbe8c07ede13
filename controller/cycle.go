package controller

// Cycle is a position in a fixed ring of values, advancing one element at a
// time and wrapping from the last back to the first.
type Cycle[T any] struct {
	values   []T
	position int
}

func NewCycle[T any](vs []T) *Cycle[T] {
	return &Cycle[T]{
		values: vs,
	}
}

func (c *Cycle[T]) Current() T {
	return c.values[c.position]
}

func (c *Cycle[T]) Index() int {
	return c.position
}

func (c *Cycle[T]) Advance() {
	c.position++
	if c.position >= len(c.values) {
		c.position = 0
	}
}
