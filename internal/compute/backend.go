package compute

type Backend interface {
	Name() string
	Workers() int
	// Range calls fn over disjoint [lo, hi) bands covering [0, n) and
	// returns once every band has finished.
	Range(n int, fn func(lo, hi int))
	Cleanup()
}

// Select returns the serial backend for workers <= 1 and a banded CPU
// backend otherwise. workers < 0 means one band per CPU.
func Select(workers int) Backend {
	if workers == 0 || workers == 1 {
		return NewSerialBackend()
	}
	return NewCPUBackend(workers)
}

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (SerialBackend) Name() string { return "serial" }
func (SerialBackend) Workers() int { return 1 }
func (SerialBackend) Cleanup()     {}
func (SerialBackend) Range(n int, fn func(lo, hi int)) {
	if n > 0 {
		fn(0, n)
	}
}
