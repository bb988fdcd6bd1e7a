package connector

// StateUpdate carries the fields a connector reports to Actions
// A zero ChainID or nil Accounts leaves the stored value unchanged
type StateUpdate struct {
	ChainID  uint64
	Accounts []string
}

// Actions records connection state on behalf of the application
// Calls arrive in the order the connector makes them
type Actions interface {
	// StartActivation marks an activation as in progress and returns a func that cancels it
	StartActivation() (cancel func())

	// Update records a new chain id and/or account list
	Update(update StateUpdate)

	// ResetState clears all connection state
	ResetState()
}

// ConnectorState is the lifecycle state of a Connector
type ConnectorState int

const (
	StateIdle ConnectorState = iota
	StateActivating
	StateActivated
	StateError
)

func (s ConnectorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActivating:
		return "activating"
	case StateActivated:
		return "activated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
