package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sigweihq/wcconnect/pkg/chains"
	"github.com/sigweihq/wcconnect/pkg/constants"
	"github.com/sigweihq/wcconnect/pkg/endpoints"
)

// Connector drives a single wallet connection: provider construction, eager
// reconnection, activation with chain switching and teardown
//
// Provider construction is single-flight. The first caller starts it and every
// concurrent caller waits for the same outcome; the result stays memoized until
// Deactivate clears it.
type Connector struct {
	actions        Actions
	factory        ProviderFactory
	options        Options
	defaultChainID uint64
	timeout        time.Duration
	onError        func(error)
	source         endpoints.Source
	selector       *endpoints.Selector
	emitter        *Emitter
	bridge         *EventBridge
	logger         *slog.Logger

	mu       sync.Mutex
	state    ConnectorState
	provider Provider
	inflight *initialization
}

// initialization is the memoized provider construction
type initialization struct {
	done     chan struct{}
	provider Provider
	err      error
}

// New creates a Connector from cfg
func New(cfg Config) (*Connector, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate connector config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = constants.DefaultSelectionTimeout
	}

	c := &Connector{
		actions:        cfg.Actions,
		factory:        cfg.Factory,
		options:        cfg.Options,
		defaultChainID: cfg.DefaultChainID,
		timeout:        timeout,
		onError:        cfg.OnError,
		source:         cfg.EndpointSource,
		selector:       endpoints.NewSelector(cfg.Prober, logger),
		emitter:        NewEmitter(),
		logger:         logger,
	}
	c.bridge = NewEventBridge(cfg.Actions, c.emitter, cfg.OnError, c.handleDisconnect, logger)

	return c, nil
}

// State returns the lifecycle state
func (c *Connector) State() ConnectorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Provider returns the provider in use, or nil when none was initialized
func (c *Connector) Provider() Provider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.provider
}

// Subscribe registers handler for topic, see URIAvailable
func (c *Connector) Subscribe(topic Topic, handler func(payload string)) (uuid.UUID, error) {
	return c.emitter.On(topic, handler)
}

// Unsubscribe removes a handler registered with Subscribe
func (c *Connector) Unsubscribe(id uuid.UUID) {
	c.emitter.Off(id)
}

// ConnectEagerly reuses a persisted session without user interaction
// It fails with NoSessionError when the provider has nothing to restore
func (c *Connector) ConnectEagerly(ctx context.Context) error {
	cancelActivation := c.actions.StartActivation()
	c.setState(StateActivating)

	provider, err := c.initialize(ctx, 0)
	if err != nil && gaveUp(ctx, err) {
		// the construction is shared with other callers and keeps running
		cancelActivation()
		c.actions.ResetState()
		c.setState(StateIdle)
		return err
	}
	if err == nil && provider.Session() == nil {
		err = &NoSessionError{}
	}
	if err != nil {
		return c.abortActivation(ctx, cancelActivation, err)
	}

	c.actions.Update(StateUpdate{ChainID: provider.ChainID(), Accounts: provider.Accounts()})
	c.setState(StateActivated)
	return nil
}

// Activate connects the wallet, or switches chains when a session already exists
// A zero desiredChainID means no preference
func (c *Connector) Activate(ctx context.Context, desiredChainID uint64) error {
	provider, err := c.initialize(ctx, desiredChainID)
	if err != nil {
		if !gaveUp(ctx, err) {
			c.cleanup(ctx)
		}
		return err
	}

	if session := provider.Session(); session != nil {
		return c.activateSession(ctx, provider, session, desiredChainID)
	}

	cancelActivation := c.actions.StartActivation()
	c.setState(StateActivating)

	if err := provider.Enable(ctx); err != nil {
		return c.abortActivation(ctx, cancelActivation, err)
	}

	c.actions.Update(StateUpdate{ChainID: provider.ChainID(), Accounts: provider.Accounts()})
	c.setState(StateActivated)
	return nil
}

// activateSession handles Activate against an already connected wallet
func (c *Connector) activateSession(ctx context.Context, provider Provider, session *Session, desiredChainID uint64) error {
	if desiredChainID == 0 || desiredChainID == provider.ChainID() {
		if c.State() != StateActivated {
			// restored session that was never reported, e.g. Activate without ConnectEagerly
			c.actions.Update(StateUpdate{ChainID: provider.ChainID(), Accounts: provider.Accounts()})
			c.setState(StateActivated)
		}
		return nil
	}

	accounts := session.Accounts(constants.EIP155Namespace)
	if !chains.HasAccountOnChain(accounts, constants.EIP155Namespace, desiredChainID) {
		if chains.Contains(c.options.OptionalChains, desiredChainID) {
			return &OptionalChainNotConnectedError{ChainID: desiredChainID}
		}
		return &UnknownChainError{ChainID: desiredChainID}
	}

	previous := c.State()
	c.setState(StateActivating)

	params := []any{map[string]string{"chainId": chains.FormatChainID(desiredChainID)}}
	if _, err := provider.Request(ctx, constants.MethodSwitchEthereumChain, params); err != nil {
		c.logger.Warn("chain switch failed", "chainID", desiredChainID, "error", err)
		c.setState(previous)
		return err
	}

	if previous != StateActivated {
		c.actions.Update(StateUpdate{ChainID: desiredChainID, Accounts: provider.Accounts()})
	}
	c.setState(StateActivated)
	return nil
}

// Deactivate detaches listeners, disconnects the provider and resets state
// It is safe to call at any time and any number of times
func (c *Connector) Deactivate(ctx context.Context) error {
	c.mu.Lock()
	provider := c.provider
	c.provider = nil
	c.inflight = nil
	if provider != nil {
		c.bridge.Detach(provider)
	}
	c.mu.Unlock()

	var err error
	if provider != nil {
		err = provider.Disconnect(ctx)
	}

	c.actions.ResetState()
	c.setState(StateIdle)
	return err
}

// abortActivation tears everything down after a failed activation and returns err unchanged
func (c *Connector) abortActivation(ctx context.Context, cancelActivation func(), err error) error {
	c.setState(StateError)
	c.logger.Warn("activation failed", "error", err)
	c.cleanup(ctx)
	cancelActivation()
	return err
}

func (c *Connector) cleanup(ctx context.Context) {
	if err := c.Deactivate(ctx); err != nil {
		c.logger.Warn("failed to disconnect provider during cleanup", "error", err)
	}
}

// gaveUp reports whether err only means the caller stopped waiting on ctx
func gaveUp(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}

// initialize returns the memoized provider, starting its construction if needed
func (c *Connector) initialize(ctx context.Context, desiredChainID uint64) (Provider, error) {
	c.mu.Lock()
	in := c.inflight
	if in == nil {
		in = &initialization{done: make(chan struct{})}
		c.inflight = in
		// Waiters may give up on their own context, the construction itself runs to completion
		go c.construct(context.WithoutCancel(ctx), in, desiredChainID)
	}
	c.mu.Unlock()

	select {
	case <-in.done:
		return in.provider, in.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Connector) construct(ctx context.Context, in *initialization, desiredChainID uint64) {
	defer close(in.done)

	provider, err := c.initializeProvider(ctx, desiredChainID)
	if err != nil {
		in.err = err
		return
	}

	c.mu.Lock()
	if c.inflight != in {
		c.mu.Unlock()
		c.logger.Info("discarding provider initialized after deactivation")
		if derr := provider.Disconnect(ctx); derr != nil {
			c.logger.Warn("failed to disconnect discarded provider", "error", derr)
		}
		in.err = ErrDeactivated
		return
	}
	c.provider = provider
	c.bridge.Attach(provider)
	c.mu.Unlock()

	in.provider = provider
}

// initializeProvider computes chain props and endpoints and asks the factory for a provider
func (c *Connector) initializeProvider(ctx context.Context, desiredChainID uint64) (Provider, error) {
	if desiredChainID == 0 {
		desiredChainID = c.defaultChainID
	}

	chainSet, err := c.chainProps(desiredChainID)
	if err != nil {
		return nil, err
	}

	rpcMap, err := c.resolveEndpoints(ctx, chainSet)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("initializing provider",
		"chains", chainSet.Required,
		"optionalChains", chainSet.Optional,
		"rpcMap", rpcMap)

	return c.factory.Init(ctx, ProviderOptions{
		ProjectID:       c.options.ProjectID,
		Chains:          chainSet.Required,
		OptionalChains:  chainSet.Optional,
		RPCMap:          rpcMap,
		Methods:         c.options.Methods,
		OptionalMethods: c.options.OptionalMethods,
		Events:          c.options.Events,
		OptionalEvents:  c.options.OptionalEvents,
		ShowQRModal:     c.options.ShowQRModal,
		Metadata:        c.options.Metadata,
	})
}

// chainProps orders both chain lists around desiredChainID and validates the result
func (c *Connector) chainProps(desiredChainID uint64) (chains.ChainSet, error) {
	required := chains.Reorder(c.options.Chains, desiredChainID)
	optional := chains.Reorder(c.options.OptionalChains, desiredChainID)
	return chains.ValidateChainSet(required, optional)
}

// resolveEndpoints selects one RPC URL per chain, filling gaps from the endpoint source
func (c *Connector) resolveEndpoints(ctx context.Context, chainSet chains.ChainSet) (endpoints.ResolvedEndpointMap, error) {
	configured := c.options.Endpoints()

	if c.source != nil {
		var missing []uint64
		for _, chainID := range append(append([]uint64(nil), chainSet.Required...), chainSet.Optional...) {
			if len(configured[chainID]) == 0 {
				missing = append(missing, chainID)
			}
		}
		if len(missing) > 0 {
			fetched, err := c.source.Candidates(ctx, missing)
			if err != nil {
				c.logger.Warn("endpoint source failed", "chains", missing, "error", err)
			} else {
				configured = configured.Merge(fetched)
			}
		}
	}

	if len(configured) == 0 {
		return nil, nil
	}
	return c.selector.Select(ctx, configured, c.timeout)
}

func (c *Connector) handleDisconnect() {
	c.setState(StateIdle)
}

func (c *Connector) setState(state ConnectorState) {
	c.mu.Lock()
	previous := c.state
	c.state = state
	c.mu.Unlock()

	if previous != state {
		c.logger.Info("connector state changed", "from", previous.String(), "to", state.String())
	}
}

// IsRecoverable reports whether err is an activation error application code is expected to handle
func IsRecoverable(err error) bool {
	var optional *OptionalChainNotConnectedError
	return errors.As(err, &optional)
}
