package stream

// State is the lifecycle state of a Stream.
type State int32

const (
	// StateIdle is the state of a Stream that has not read any block.
	StateIdle State = iota
	// StateRunning is the state while blocks are being processed.
	StateRunning
	// StateEnded is the terminal state after the last block was delivered.
	StateEnded
	// StateErrored is the terminal state after the first failure.
	StateErrored
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateEnded:
		return "Ended"
	case StateErrored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further blocks can be processed.
func (s State) Terminal() bool {
	return s == StateEnded || s == StateErrored
}

// Stage is the per-block processing step a failure happened in.
type Stage uint8

const (
	StageFramingHeader Stage = iota
	StageFramingBlob
	StageDecompressing
	StageDecoding
	StageAssembling
	StageNotifying
)

// String returns the name of the stage.
func (s Stage) String() string {
	switch s {
	case StageFramingHeader:
		return "FramingHeader"
	case StageFramingBlob:
		return "FramingBlob"
	case StageDecompressing:
		return "Decompressing"
	case StageDecoding:
		return "Decoding"
	case StageAssembling:
		return "Assembling"
	case StageNotifying:
		return "Notifying"
	default:
		return "Unknown"
	}
}
