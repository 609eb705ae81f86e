package manicotti

// Stack manages navigation history for back navigation. It stores the
// definitions that were active before each forward transition, most
// recent last. The stack is owned exclusively by the Navigator.
type Stack struct {
	entries []*Definition
}

// NewStack creates a new empty navigation stack.
func NewStack() *Stack {
	return &Stack{
		entries: make([]*Definition, 0),
	}
}

// Push adds a definition to the stack.
// Called when navigating forward to a new menu.
func (s *Stack) Push(def *Definition) {
	s.entries = append(s.entries, def)
}

// Pop removes and returns the top definition from the stack.
// Returns nil if the stack is empty.
func (s *Stack) Pop() *Definition {
	if len(s.entries) == 0 {
		return nil
	}
	def := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return def
}

// Peek returns the top definition without removing it.
// Returns nil if the stack is empty.
func (s *Stack) Peek() *Definition {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries in the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Clear removes all entries from the stack.
func (s *Stack) Clear() {
	s.entries = s.entries[:0]
}
