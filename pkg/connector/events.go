package connector

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/sigweihq/wcconnect/pkg/chains"
	"github.com/sigweihq/wcconnect/pkg/constants"
)

// Topic names an event published by the connector
type Topic string

// URIAvailable carries the pairing URI to display to the user (e.g. as a QR code)
const URIAvailable Topic = "URI_AVAILABLE"

var topics = map[Topic]bool{
	URIAvailable: true,
}

// ErrUnknownTopic is returned when subscribing to a topic the connector never publishes
var ErrUnknownTopic = errors.New("unknown topic")

// Emitter publishes connector events to subscribers
type Emitter struct {
	mu       sync.RWMutex
	handlers map[Topic]map[uuid.UUID]func(payload string)
}

// NewEmitter creates an emitter with no subscribers
func NewEmitter() *Emitter {
	return &Emitter{
		handlers: make(map[Topic]map[uuid.UUID]func(payload string)),
	}
}

// On registers handler for topic and returns the id to remove it with
func (e *Emitter) On(topic Topic, handler func(payload string)) (uuid.UUID, error) {
	if !topics[topic] {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	id := uuid.New()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers[topic] == nil {
		e.handlers[topic] = make(map[uuid.UUID]func(payload string))
	}
	e.handlers[topic][id] = handler
	return id, nil
}

// Off removes the handler registered under id
func (e *Emitter) Off(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, handlers := range e.handlers {
		delete(handlers, id)
	}
}

// Emit calls every handler of topic with payload
func (e *Emitter) Emit(topic Topic, payload string) {
	e.mu.RLock()
	handlers := make([]func(string), 0, len(e.handlers[topic]))
	for _, h := range e.handlers[topic] {
		handlers = append(handlers, h)
	}
	e.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

// EventBridge wires provider events into Actions and the outward Emitter
type EventBridge struct {
	actions      Actions
	emitter      *Emitter
	onError      func(error)
	onDisconnect func()
	logger       *slog.Logger

	mu        sync.Mutex
	provider  Provider
	listeners map[ProviderEvent]ListenerID
}

// NewEventBridge creates a bridge
// onError receives errors that accompany a disconnect, onDisconnect runs after every disconnect
func NewEventBridge(actions Actions, emitter *Emitter, onError func(error), onDisconnect func(), logger *slog.Logger) *EventBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBridge{
		actions:      actions,
		emitter:      emitter,
		onError:      onError,
		onDisconnect: onDisconnect,
		logger:       logger,
	}
}

// Attach registers the four provider listeners
// Attaching the provider that is already attached is a no-op; attaching another
// provider detaches the previous one first
func (b *EventBridge) Attach(provider Provider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.provider != nil {
		if b.provider == provider {
			return
		}
		b.detachLocked()
	}

	b.provider = provider
	b.listeners = map[ProviderEvent]ListenerID{
		EventDisconnect:      provider.On(EventDisconnect, b.handleDisconnect),
		EventChainChanged:    provider.On(EventChainChanged, b.handleChainChanged),
		EventAccountsChanged: provider.On(EventAccountsChanged, b.handleAccountsChanged),
		EventDisplayURI:      provider.On(EventDisplayURI, b.handleDisplayURI),
	}
}

// Detach removes the listeners registered by Attach
// It does nothing if provider is not the attached one
func (b *EventBridge) Detach(provider Provider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.provider == nil || b.provider != provider {
		return
	}
	b.detachLocked()
}

func (b *EventBridge) detachLocked() {
	for event, id := range b.listeners {
		b.provider.RemoveListener(event, id)
	}
	b.provider = nil
	b.listeners = nil
}

func (b *EventBridge) handleDisconnect(payload any) {
	b.actions.ResetState()
	if b.onDisconnect != nil {
		b.onDisconnect()
	}

	var err error
	switch v := payload.(type) {
	case nil:
	case error:
		err = v
	default:
		err = fmt.Errorf("provider disconnected: %v", v)
	}
	if err != nil && b.onError != nil {
		b.onError(err)
	}
}

func (b *EventBridge) handleChainChanged(payload any) {
	var (
		chainID uint64
		err     error
	)
	switch v := payload.(type) {
	case string:
		chainID, err = chains.ParseChainID(v)
	case uint64:
		chainID = v
	case int:
		chainID, err = positiveChainID(int64(v))
	case int64:
		chainID, err = positiveChainID(v)
	case float64:
		if v < 1 || v > constants.MaxChainID || v != math.Trunc(v) {
			err = fmt.Errorf("invalid chain id %v", v)
		} else {
			chainID = uint64(v)
		}
	default:
		err = fmt.Errorf("unexpected chain id payload %T", payload)
	}
	if err != nil || chainID == 0 {
		b.logger.Warn("ignoring chainChanged event", "payload", payload, "error", err)
		return
	}

	b.actions.Update(StateUpdate{ChainID: chainID})
}

func positiveChainID(v int64) (uint64, error) {
	if v <= 0 {
		return 0, fmt.Errorf("invalid chain id %d", v)
	}
	return uint64(v), nil
}

func (b *EventBridge) handleAccountsChanged(payload any) {
	var accounts []string
	switch v := payload.(type) {
	case []string:
		accounts = v
	case []any:
		accounts = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				b.logger.Warn("ignoring accountsChanged event", "payload", payload)
				return
			}
			accounts = append(accounts, s)
		}
	case nil:
		accounts = []string{}
	default:
		b.logger.Warn("ignoring accountsChanged event", "payload", payload)
		return
	}

	b.actions.Update(StateUpdate{Accounts: accounts})
}

func (b *EventBridge) handleDisplayURI(payload any) {
	uri, ok := payload.(string)
	if !ok {
		b.logger.Warn("ignoring display_uri event", "payload", payload)
		return
	}
	b.emitter.Emit(URIAvailable, uri)
}
