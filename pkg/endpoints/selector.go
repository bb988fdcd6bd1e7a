package endpoints

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sigweihq/wcconnect/pkg/chains"
	"github.com/sigweihq/wcconnect/pkg/chains/evm"
	"github.com/sigweihq/wcconnect/pkg/constants"
	"github.com/sigweihq/wcconnect/pkg/utils"
)

// Selector picks one responsive RPC URL per chain by racing liveness probes
type Selector struct {
	prober chains.Prober
	logger *slog.Logger
}

// NewSelector creates a selector that probes candidates with prober
// A nil prober defaults to the EVM eth_chainId probe
func NewSelector(prober chains.Prober, logger *slog.Logger) *Selector {
	if prober == nil {
		prober = evm.NewProber()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		prober: prober,
		logger: logger,
	}
}

// Select resolves every chain of endpoints to a single URL
//
// Chains are resolved independently and concurrently. A chain with one candidate is
// selected without probing. Otherwise the first candidate to answer within timeout wins;
// if none does, the first configured candidate is used. Probe failures never fail the
// call, only a chain without any candidate does (ConfigError, raised before any probe).
func (s *Selector) Select(ctx context.Context, endpoints EndpointMap, timeout time.Duration) (ResolvedEndpointMap, error) {
	for _, chainID := range endpoints.ChainIDs() {
		if len(endpoints[chainID]) == 0 {
			return nil, chains.NewConfigError("no rpc endpoints configured for chain %d", chainID)
		}
		for _, url := range endpoints[chainID] {
			if err := utils.ValidateRPCURL(url); err != nil {
				s.logger.Warn("insecure rpc endpoint", "chainId", chainID, "error", err)
			}
		}
	}

	if timeout <= 0 {
		timeout = constants.DefaultSelectionTimeout
	}

	resolved := make(ResolvedEndpointMap, len(endpoints))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for chainID, urls := range endpoints {
		g.Go(func() error {
			url := s.bestURL(gCtx, chainID, urls, timeout)

			mu.Lock()
			resolved[chainID] = url
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // bestURL never fails, it falls back to the first candidate

	return resolved, nil
}

type probeResult struct {
	index int
	err   error
}

// bestURL races all candidates of one chain and returns the first that answers
func (s *Selector) bestURL(ctx context.Context, chainID uint64, urls []string, timeout time.Duration) string {
	if len(urls) == 1 {
		return urls[0]
	}

	raceCtx, cancel := context.WithTimeout(ctx, timeout)
	// Losing probes observe the cancellation once a winner is picked; their results are dropped
	defer cancel()

	results := make(chan probeResult, len(urls))
	for i, url := range urls {
		go func() {
			results <- probeResult{index: i, err: s.prober.Probe(raceCtx, chainID, url)}
		}()
	}

	failed := 0
	for failed < len(urls) {
		select {
		case res := <-results:
			if res.err == nil {
				s.logger.Debug("rpc endpoint selected",
					"chainID", chainID,
					"url", urls[res.index],
					"candidates", len(urls))
				return urls[res.index]
			}
			failed++
			s.logger.Debug("rpc endpoint probe failed",
				"chainID", chainID,
				"url", urls[res.index],
				"error", res.err)
		case <-raceCtx.Done():
			s.logger.Warn("no rpc endpoint answered in time, using first candidate",
				"chainID", chainID,
				"url", urls[0],
				"timeout", timeout)
			return urls[0]
		}
	}

	s.logger.Warn("all rpc endpoint probes failed, using first candidate",
		"chainID", chainID,
		"url", urls[0])
	return urls[0]
}
