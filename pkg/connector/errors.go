package connector

import (
	"errors"
	"fmt"
)

// ErrDeactivated is returned to callers waiting on a provider that finished
// initializing after the connector was deactivated
var ErrDeactivated = errors.New("connector was deactivated while the provider was initializing")

// NoSessionError is returned by ConnectEagerly when the provider has no persisted session
type NoSessionError struct{}

func (e *NoSessionError) Error() string {
	return "no active session found, connect your wallet first"
}

// UnknownChainError is returned when activation targets a chain that is not configured
// and the wallet is not connected to it
type UnknownChainError struct {
	ChainID uint64
}

func (e *UnknownChainError) Error() string {
	return fmt.Sprintf("unknown chain %d: include every chain you may connect to in chains or optionalChains", e.ChainID)
}

// OptionalChainNotConnectedError is returned when activation targets a configured optional
// chain the wallet did not approve. Wallets may legitimately skip optional chains, so callers
// are expected to handle it
type OptionalChainNotConnectedError struct {
	ChainID uint64
}

func (e *OptionalChainNotConnectedError) Error() string {
	return fmt.Sprintf("cannot activate optional chain %d, the wallet is not connected to it", e.ChainID)
}
