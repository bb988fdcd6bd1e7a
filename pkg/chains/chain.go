package chains

import "context"

// Prober checks whether an RPC endpoint is alive for a chain
// Implementations must be safe for concurrent use, the endpoint selector probes candidates in parallel
type Prober interface {
	// Probe issues a lightweight request against url and returns nil if the endpoint answered
	Probe(ctx context.Context, chainID uint64, url string) error
}

// ProberFunc adapts a plain function to the Prober interface
type ProberFunc func(ctx context.Context, chainID uint64, url string) error

// Probe implements Prober
func (f ProberFunc) Probe(ctx context.Context, chainID uint64, url string) error {
	return f(ctx, chainID, url)
}
