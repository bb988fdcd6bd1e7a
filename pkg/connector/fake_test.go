package connector

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

type fakeRequest struct {
	method string
	params any
}

// fakeProvider is an in-memory wallet provider
type fakeProvider struct {
	mu sync.Mutex

	session  *Session
	chainID  uint64
	accounts []string

	// approved becomes the session after a successful Enable
	approved      *Session
	enableErr     error
	requestErr    error
	disconnectErr error

	enableCalls int
	disconnects int
	requests    []fakeRequest
	listeners   map[ProviderEvent]map[ListenerID]EventHandler
	nextID      int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		listeners: make(map[ProviderEvent]map[ListenerID]EventHandler),
	}
}

func sessionWith(accounts ...string) *Session {
	return &Session{
		Topic: "topic",
		Namespaces: map[string]Namespace{
			"eip155": {Accounts: accounts},
		},
	}
}

func (p *fakeProvider) Enable(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enableCalls++
	if p.enableErr != nil {
		return p.enableErr
	}
	p.session = p.approved
	return nil
}

func (p *fakeProvider) Session() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

func (p *fakeProvider) ChainID() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID
}

func (p *fakeProvider) Accounts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accounts
}

func (p *fakeProvider) Request(ctx context.Context, method string, params any) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, fakeRequest{method: method, params: params})
	if p.requestErr != nil {
		return nil, p.requestErr
	}
	return nil, nil
}

func (p *fakeProvider) On(event ProviderEvent, handler EventHandler) ListenerID {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := ListenerID(fmt.Sprintf("%s-%d", event, p.nextID))
	if p.listeners[event] == nil {
		p.listeners[event] = make(map[ListenerID]EventHandler)
	}
	p.listeners[event][id] = handler
	return id
}

func (p *fakeProvider) RemoveListener(event ProviderEvent, id ListenerID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.listeners[event], id)
}

func (p *fakeProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnects++
	p.session = nil
	return p.disconnectErr
}

// emit delivers payload to every listener of event
func (p *fakeProvider) emit(event ProviderEvent, payload any) {
	p.mu.Lock()
	handlers := make([]EventHandler, 0, len(p.listeners[event]))
	for _, h := range p.listeners[event] {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

func (p *fakeProvider) listenerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, handlers := range p.listeners {
		n += len(handlers)
	}
	return n
}

func (p *fakeProvider) snapshot() (requests []fakeRequest, enableCalls, disconnects int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]fakeRequest(nil), p.requests...), p.enableCalls, p.disconnects
}

// fakeFactory hands out the same provider and records the options it was called with
type fakeFactory struct {
	mu       sync.Mutex
	provider *fakeProvider
	err      error
	gate     chan struct{}
	calls    []ProviderOptions
}

func (f *fakeFactory) Init(ctx context.Context, opts ProviderOptions) (Provider, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

func (f *fakeFactory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFactory) lastOptions() ProviderOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// recordingActions records every call made by the connector
type recordingActions struct {
	mu      sync.Mutex
	calls   []string
	updates []StateUpdate
}

func (a *recordingActions) StartActivation() func() {
	a.record("start")
	return func() { a.record("cancel") }
}

func (a *recordingActions) Update(update StateUpdate) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "update")
	a.updates = append(a.updates, update)
}

func (a *recordingActions) ResetState() {
	a.record("reset")
}

func (a *recordingActions) record(call string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, call)
}

func (a *recordingActions) snapshot() ([]string, []StateUpdate) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...), append([]StateUpdate(nil), a.updates...)
}
