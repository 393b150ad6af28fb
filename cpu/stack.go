package cpu

const (
	STACK_LIMIT = 16 // Maximum stack depth
)

// Stack is the subroutine return address stack.
type Stack struct {
	Data []uint16
}

func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() {
		return
	}
	s.Data = append(s.Data, value)
	return true
}

func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) >= STACK_LIMIT
}

// Depth is the number of return addresses on the stack.
func (s *Stack) Depth() int {
	return len(s.Data)
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
