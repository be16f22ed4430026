package session

// State enumerates the conversational workflow states. Idle is both the
// initial state and the state reached after an explicit exit.
type State string

const (
	StateIdle             State = "IDLE"
	StateAwaitingPhrase   State = "AWAITING_PHRASE"
	StateViewing          State = "VIEWING"
	StateAwaitingNewValue State = "AWAITING_NEW_VALUE"
	StateConfirmingEdit   State = "CONFIRMING_EDIT"
)

// String returns the string representation.
func (s State) String() string {
	return string(s)
}

// IsValid validates the state.
func (s State) IsValid() bool {
	switch s {
	case StateIdle, StateAwaitingPhrase, StateViewing, StateAwaitingNewValue, StateConfirmingEdit:
		return true
	default:
		return false
	}
}
