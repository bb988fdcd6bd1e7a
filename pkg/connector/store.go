package connector

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sigweihq/wcconnect/pkg/constants"
)

// State is the connection state held by a Store
type State struct {
	ChainID    uint64
	Accounts   []string
	Activating bool
}

// Store is an in-memory Actions implementation
// Accounts are normalized to their EIP-55 checksum form
type Store struct {
	mu        sync.RWMutex
	state     State
	nullifier uint64
	err       error
	logger    *slog.Logger
}

// NewStore creates an empty store
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Verify Store implements Actions
var _ Actions = (*Store)(nil)

// StartActivation implements Actions
// The returned cancel func only clears Activating if nothing was recorded since
func (s *Store) StartActivation() func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nullifier++
	cached := s.nullifier
	s.state = State{Activating: true}
	s.err = nil

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.nullifier == cached {
			s.state.Activating = false
		}
	}
}

// Update implements Actions
// Invalid chain ids or accounts are rejected as a whole and kept in Err
func (s *Store) Update(update StateUpdate) {
	accounts, err := validateUpdate(update)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err
		s.logger.Warn("rejected state update", "error", err)
		return
	}

	s.nullifier++
	if update.ChainID != 0 {
		s.state.ChainID = update.ChainID
	}
	if accounts != nil {
		s.state.Accounts = accounts
	}
	if s.state.Activating && s.state.ChainID != 0 && s.state.Accounts != nil {
		s.state.Activating = false
	}
}

// ResetState implements Actions
func (s *Store) ResetState() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nullifier++
	s.state = State{}
	s.err = nil
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.state
	state.Accounts = slices.Clone(s.state.Accounts)
	return state
}

// Err returns the error of the last rejected update
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func validateUpdate(update StateUpdate) ([]string, error) {
	if update.ChainID > constants.MaxChainID {
		return nil, fmt.Errorf("invalid chain id %d", update.ChainID)
	}

	if update.Accounts == nil {
		return nil, nil
	}

	accounts := make([]string, 0, len(update.Accounts))
	for _, account := range update.Accounts {
		if !common.IsHexAddress(account) {
			return nil, fmt.Errorf("invalid account %q", account)
		}
		accounts = append(accounts, common.HexToAddress(account).Hex())
	}
	return accounts, nil
}
