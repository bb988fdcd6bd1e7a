package evm

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sigweihq/wcconnect/pkg/chains"
	"github.com/sigweihq/wcconnect/pkg/constants"
	"github.com/sigweihq/wcconnect/pkg/utils"
)

// Prober implements chains.Prober for EVM endpoints by calling eth_chainId
type Prober struct {
	httpClient    *http.Client
	verifyChainID bool
}

// ProberOption configures a Prober
type ProberOption func(*Prober)

// WithHTTPClient sets the HTTP client used to reach endpoints
func WithHTTPClient(client *http.Client) ProberOption {
	return func(p *Prober) {
		p.httpClient = client
	}
}

// WithChainIDCheck makes the probe fail when the endpoint reports a different chain id
func WithChainIDCheck() ProberOption {
	return func(p *Prober) {
		p.verifyChainID = true
	}
}

// NewProber creates an EVM liveness prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{}
	for _, opt := range opts {
		opt(p)
	}
	if p.httpClient == nil {
		p.httpClient = utils.CreateHTTPClientWithTimeouts(constants.ProbeDialTimeout)
	}
	return p
}

// Verify Prober implements the interface
var _ chains.Prober = (*Prober)(nil)

// Probe implements chains.Prober
func (p *Prober) Probe(ctx context.Context, chainID uint64, endpoint string) error {
	rpcClient, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(p.httpClient))
	if err != nil {
		return &RPCError{Endpoint: endpoint, Err: err}
	}
	client := ethclient.NewClient(rpcClient)
	defer client.Close()

	actual, err := client.ChainID(ctx)
	if err != nil {
		return &RPCError{Endpoint: endpoint, Err: err}
	}

	if p.verifyChainID && (!actual.IsUint64() || actual.Uint64() != chainID) {
		return &ChainIDMismatchError{
			Endpoint: endpoint,
			Expected: chainID,
			Actual:   actual.Uint64(),
		}
	}

	return nil
}
