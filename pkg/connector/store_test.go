package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ActivationFlow(t *testing.T) {
	store := NewStore(testLogger())

	cancel := store.StartActivation()
	assert.Equal(t, State{Activating: true}, store.Snapshot())

	store.Update(StateUpdate{ChainID: 1})
	assert.True(t, store.Snapshot().Activating, "still activating until accounts are known")

	store.Update(StateUpdate{Accounts: []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}})
	state := store.Snapshot()
	assert.False(t, state.Activating)
	assert.Equal(t, uint64(1), state.ChainID)
	assert.Equal(t, []string{testAddress}, state.Accounts, "accounts are checksummed")

	// cancel after an update is a no-op
	cancel()
	assert.Equal(t, uint64(1), store.Snapshot().ChainID)
}

func TestStore_CancelActivation(t *testing.T) {
	store := NewStore(testLogger())

	cancel := store.StartActivation()
	cancel()

	assert.Equal(t, State{}, store.Snapshot())
}

func TestStore_StaleCancelIsIgnored(t *testing.T) {
	store := NewStore(testLogger())

	stale := store.StartActivation()
	store.StartActivation()
	stale()

	assert.True(t, store.Snapshot().Activating)
}

func TestStore_ResetState(t *testing.T) {
	store := NewStore(testLogger())
	store.Update(StateUpdate{ChainID: 137, Accounts: []string{testAddress}})

	store.ResetState()

	assert.Equal(t, State{}, store.Snapshot())
}

func TestStore_EmptyAccountsAreRecorded(t *testing.T) {
	store := NewStore(testLogger())
	store.Update(StateUpdate{ChainID: 1, Accounts: []string{testAddress}})

	store.Update(StateUpdate{Accounts: []string{}})

	state := store.Snapshot()
	assert.NotNil(t, state.Accounts)
	assert.Empty(t, state.Accounts)
	assert.Equal(t, uint64(1), state.ChainID)
}

func TestStore_RejectsInvalidUpdates(t *testing.T) {
	tests := []struct {
		name   string
		update StateUpdate
	}{
		{name: "chain id too large", update: StateUpdate{ChainID: 1 << 60}},
		{name: "invalid account", update: StateUpdate{ChainID: 1, Accounts: []string{"0x1234"}}},
		{name: "namespaced account", update: StateUpdate{Accounts: []string{"eip155:1:" + testAddress}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(testLogger())
			store.Update(StateUpdate{ChainID: 10})

			store.Update(tt.update)

			require.Error(t, store.Err())
			assert.Equal(t, State{ChainID: 10}, store.Snapshot(), "rejected updates change nothing")
		})
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := NewStore(testLogger())
	store.Update(StateUpdate{ChainID: 1, Accounts: []string{testAddress}})

	snapshot := store.Snapshot()
	snapshot.Accounts[0] = "mutated"

	assert.Equal(t, []string{testAddress}, store.Snapshot().Accounts)
}
