package endpoints

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Candidates is the ordered list of RPC URLs configured for one chain
// It decodes from either a single URL or a list of URLs
type Candidates []string

// UnmarshalJSON accepts "https://..." as well as ["https://...", ...]
func (c *Candidates) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = Candidates{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("rpc endpoints must be a URL or a list of URLs: %w", err)
	}
	*c = list
	return nil
}

// UnmarshalYAML accepts a scalar URL as well as a sequence of URLs
func (c *Candidates) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*c = Candidates{single}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*c = list
		return nil
	default:
		return fmt.Errorf("line %d: rpc endpoints must be a URL or a list of URLs", value.Line)
	}
}

// EndpointMap maps a chain id to its candidate RPC URLs
type EndpointMap map[uint64]Candidates

// ChainIDs returns the chain ids of the map in ascending order
func (m EndpointMap) ChainIDs() []uint64 {
	return slices.Sorted(maps.Keys(m))
}

// Merge returns a copy of m with the entries of other added for chains m does not configure
func (m EndpointMap) Merge(other EndpointMap) EndpointMap {
	merged := make(EndpointMap, len(m)+len(other))
	for chainID, urls := range other {
		merged[chainID] = urls
	}
	for chainID, urls := range m {
		if len(urls) > 0 || merged[chainID] == nil {
			merged[chainID] = urls
		}
	}
	return merged
}

// ResolvedEndpointMap maps a chain id to the single RPC URL selected for it
type ResolvedEndpointMap map[uint64]string
