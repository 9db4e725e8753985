package util

// Stack is a LIFO work-list. The zero value is an empty stack ready for use.
type Stack[E any] struct {
	Of []E
}

// Push adds v to the top of the stack.
func (s *Stack[E]) Push(v E) {
	s.Of = append(s.Of, v)
}

// Pop removes and returns the top of the stack. It panics if the stack is
// empty.
func (s *Stack[E]) Pop() E {
	if len(s.Of) == 0 {
		panic("pop of empty stack")
	}
	v := s.Of[len(s.Of)-1]
	var zero E
	s.Of[len(s.Of)-1] = zero
	s.Of = s.Of[:len(s.Of)-1]
	return v
}

// Peek returns the top of the stack without removing it. It panics if the
// stack is empty.
func (s Stack[E]) Peek() E {
	if len(s.Of) == 0 {
		panic("peek of empty stack")
	}
	return s.Of[len(s.Of)-1]
}

// Len returns the number of items on the stack.
func (s Stack[E]) Len() int {
	return len(s.Of)
}

// Empty returns whether the stack has no items.
func (s Stack[E]) Empty() bool {
	return len(s.Of) == 0
}

// Queue is a FIFO work-list. The zero value is an empty queue ready for use.
type Queue[E any] struct {
	Of []E
}

// Enqueue adds v to the back of the queue.
func (q *Queue[E]) Enqueue(v E) {
	q.Of = append(q.Of, v)
}

// Dequeue removes and returns the front of the queue. It panics if the queue
// is empty.
func (q *Queue[E]) Dequeue() E {
	if len(q.Of) == 0 {
		panic("dequeue of empty queue")
	}
	v := q.Of[0]
	var zero E
	q.Of[0] = zero
	q.Of = q.Of[1:]
	return v
}

// Len returns the number of items in the queue.
func (q Queue[E]) Len() int {
	return len(q.Of)
}
