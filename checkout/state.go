package checkout

// State is the checkout state machine position.
//
//	Editing --submit--> Validating --ok--> Finalized
//	                        |
//	                        +--rejected--> Editing
type State int

const (
	Editing State = iota
	Validating
	Finalized
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Finalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// MarshalText lets State render as its name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
