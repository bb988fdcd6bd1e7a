package endpoints

import (
	"context"

	"github.com/sigweihq/wcconnect/pkg/constants"
)

// Source supplies candidate RPC URLs for chains that have none configured
type Source interface {
	Candidates(ctx context.Context, chainIDs []uint64) (EndpointMap, error)
}

// StaticSource serves candidates from a fixed map
type StaticSource struct {
	endpoints map[uint64][]string
}

// NewStaticSource creates a source backed by endpoints
func NewStaticSource(endpoints map[uint64][]string) *StaticSource {
	return &StaticSource{endpoints: endpoints}
}

// NewOfficialSource creates a source backed by constants.OfficialRPCEndpoints
func NewOfficialSource() *StaticSource {
	return NewStaticSource(constants.OfficialRPCEndpoints)
}

// Candidates implements Source, chains without endpoints are left out
func (s *StaticSource) Candidates(_ context.Context, chainIDs []uint64) (EndpointMap, error) {
	result := make(EndpointMap, len(chainIDs))
	for _, chainID := range chainIDs {
		if urls := s.endpoints[chainID]; len(urls) > 0 {
			result[chainID] = append(Candidates(nil), urls...)
		}
	}
	return result, nil
}
