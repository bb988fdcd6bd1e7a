package connector

import (
	"context"

	"github.com/sigweihq/wcconnect/pkg/endpoints"
)

// ProviderEvent names an event emitted by a wallet provider
type ProviderEvent string

const (
	EventDisconnect      ProviderEvent = "disconnect"
	EventChainChanged    ProviderEvent = "chainChanged"
	EventAccountsChanged ProviderEvent = "accountsChanged"
	EventDisplayURI      ProviderEvent = "display_uri"
)

// EventHandler receives the payload of a provider event
//
// Payloads by event:
//   - disconnect: error or nil
//   - chainChanged: hex or decimal string (numbers are accepted too)
//   - accountsChanged: []string
//   - display_uri: string
type EventHandler func(payload any)

// ListenerID identifies a registered listener so it can be removed again
type ListenerID string

// Namespace is the part of a session scoped to one account namespace (e.g. eip155)
type Namespace struct {
	Chains   []string `json:"chains,omitempty"`
	Accounts []string `json:"accounts"`
	Methods  []string `json:"methods"`
	Events   []string `json:"events"`
}

// Session is the provider-owned wallet session, read but never modified here
type Session struct {
	Topic      string               `json:"topic"`
	Namespaces map[string]Namespace `json:"namespaces"`
}

// Accounts returns the namespace-qualified accounts of namespace
func (s *Session) Accounts(namespace string) []string {
	if s == nil {
		return nil
	}
	return s.Namespaces[namespace].Accounts
}

// Provider is the wallet-protocol client the connector drives
// The handshake, QR display, session crypto and transport all live behind it
type Provider interface {
	// Enable starts the pairing flow and returns once the wallet approved a session
	Enable(ctx context.Context) error

	// Session returns the active session or nil when none exists
	Session() *Session

	// ChainID returns the chain the wallet is currently on
	ChainID() uint64

	// Accounts returns the connected account addresses
	Accounts() []string

	// Request sends an RPC request to the wallet
	Request(ctx context.Context, method string, params any) (any, error)

	// On registers a listener for event
	On(event ProviderEvent, handler EventHandler) ListenerID

	// RemoveListener removes a listener registered with On
	RemoveListener(event ProviderEvent, id ListenerID)

	// Disconnect ends the session
	Disconnect(ctx context.Context) error
}

// Metadata describes the dapp to the wallet
type Metadata struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	URL         string   `json:"url" yaml:"url"`
	Icons       []string `json:"icons" yaml:"icons"`
}

// ProviderOptions is what a ProviderFactory receives to build a provider
type ProviderOptions struct {
	ProjectID       string
	Chains          []uint64
	OptionalChains  []uint64
	RPCMap          endpoints.ResolvedEndpointMap
	Methods         []string
	OptionalMethods []string
	Events          []string
	OptionalEvents  []string
	ShowQRModal     bool
	Metadata        *Metadata
}

// ProviderFactory builds providers, restoring a persisted session when one exists
type ProviderFactory interface {
	Init(ctx context.Context, opts ProviderOptions) (Provider, error)
}

// ProviderFactoryFunc adapts a function to ProviderFactory
type ProviderFactoryFunc func(ctx context.Context, opts ProviderOptions) (Provider, error)

// Init implements ProviderFactory
func (f ProviderFactoryFunc) Init(ctx context.Context, opts ProviderOptions) (Provider, error) {
	return f(ctx, opts)
}
