package laps

// FakeCounter is a test double that lets tests push lap counts.
type FakeCounter struct {
	counts chan int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeCounter creates a FakeCounter with a buffered channel.
func NewFakeCounter() *FakeCounter {
	return &FakeCounter{counts: make(chan int, 8)}
}

// Push injects a counter reading.
func (f *FakeCounter) Push(count int) {
	f.counts <- count
}

// Counts returns the count channel.
func (f *FakeCounter) Counts() <-chan int {
	return f.counts
}

// Close marks the counter as closed.
func (f *FakeCounter) Close() error {
	f.Closed = true
	return nil
}
