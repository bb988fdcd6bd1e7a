package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/sigweihq/wcconnect/pkg/constants"
	"github.com/sigweihq/wcconnect/pkg/utils"
)

// ChainListResponse represents a chain entry from chainlist.org/rpcs.json
type ChainListResponse struct {
	ChainID uint64 `json:"chainId"`
	RPC     []struct {
		URL string `json:"url"`
	} `json:"rpc"`
}

// ChainListSource fetches RPC candidates from chainlist.org
// Official endpoints always come first, chainlist entries are appended as backups
type ChainListSource struct {
	url        string
	httpClient *http.Client
	official   map[uint64][]string
	logger     *slog.Logger

	mu      sync.Mutex
	fetched map[uint64][]string // cached after the first successful fetch
}

// ChainListOption configures a ChainListSource
type ChainListOption func(*ChainListSource)

// WithChainListURL overrides the chainlist.org URL
func WithChainListURL(url string) ChainListOption {
	return func(s *ChainListSource) {
		s.url = url
	}
}

// WithChainListHTTPClient overrides the HTTP client
func WithChainListHTTPClient(client *http.Client) ChainListOption {
	return func(s *ChainListSource) {
		s.httpClient = client
	}
}

// WithOfficialEndpoints overrides the endpoints placed before the chainlist entries
func WithOfficialEndpoints(official map[uint64][]string) ChainListOption {
	return func(s *ChainListSource) {
		s.official = official
	}
}

// NewChainListSource creates a source that fetches from chainlist.org
func NewChainListSource(logger *slog.Logger, opts ...ChainListOption) *ChainListSource {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ChainListSource{
		url:      constants.ChainListURL,
		official: constants.OfficialRPCEndpoints,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = utils.CreateHTTPClientWithTimeouts(constants.ChainListTimeout)
	}
	return s
}

// Candidates implements Source
// A failed fetch is logged and the official endpoints are returned on their own
func (s *ChainListSource) Candidates(ctx context.Context, chainIDs []uint64) (EndpointMap, error) {
	fetched, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch from chainlist.org, using official endpoints only", "error", err)
	}

	result := make(EndpointMap, len(chainIDs))
	for _, chainID := range chainIDs {
		var urls Candidates
		seen := make(map[string]bool)
		for _, url := range append(append([]string(nil), s.official[chainID]...), fetched[chainID]...) {
			if seen[url] {
				continue
			}
			seen[url] = true
			urls = append(urls, url)
		}
		if len(urls) > 0 {
			result[chainID] = urls
		}
	}
	return result, nil
}

// load returns the cached chainlist entries, fetching them on first use
func (s *ChainListSource) load(ctx context.Context) (map[uint64][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetched != nil {
		return s.fetched, nil
	}

	chainListData, err := s.fetchAllChains(ctx)
	if err != nil {
		return nil, err
	}

	s.fetched = httpsEndpoints(chainListData)
	s.logger.Debug("chainlist endpoints loaded", "chains", len(s.fetched))
	return s.fetched, nil
}

// fetchAllChains fetches chain data from chainlist.org
func (s *ChainListSource) fetchAllChains(ctx context.Context) ([]ChainListResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chainlist request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chainlist data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chainlist.org returned status %d", resp.StatusCode)
	}

	var chainList []ChainListResponse
	body := io.LimitReader(resp.Body, constants.MaxResponseBodySize)
	if err := json.NewDecoder(body).Decode(&chainList); err != nil {
		return nil, fmt.Errorf("failed to decode chainlist data: %w", err)
	}

	return chainList, nil
}

// httpsEndpoints keeps HTTPS URLs and drops templated ones such as .../${INFURA_API_KEY}
func httpsEndpoints(chainListData []ChainListResponse) map[uint64][]string {
	result := make(map[uint64][]string)
	for _, chain := range chainListData {
		for _, rpc := range chain.RPC {
			if strings.HasPrefix(rpc.URL, "https://") && !utils.IsTemplatedURL(rpc.URL) {
				result[chain.ChainID] = append(result[chain.ChainID], rpc.URL)
			}
		}
	}
	return result
}
