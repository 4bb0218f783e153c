package transform

//go:generate go tool stringer -type=State -trimprefix=State -output=state_string.go

// State is the lifecycle position of a Block.
type State int

const (
	_ State = iota

	StateCreated
	StateValidated
	StateBuilt
	StateActive
)
