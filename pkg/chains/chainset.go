package chains

import "slices"

// ChainSet holds the chains a wallet must support and the chains it may support
type ChainSet struct {
	Required []uint64
	Optional []uint64
}

// ValidateChainSet checks that at least one list carries a chain id
// When only the optional list is populated it becomes the required one, so downstream
// provider construction can always treat Required as the primary list
func ValidateChainSet(required, optional []uint64) (ChainSet, error) {
	if len(required) > 0 {
		return ChainSet{Required: required, Optional: optional}, nil
	}
	if len(optional) > 0 {
		return ChainSet{Required: optional, Optional: required}, nil
	}
	return ChainSet{}, NewConfigError("no chains configured")
}

// Reorder moves desiredChainID to the front of chains and keeps the relative order of the rest
// A zero desiredChainID means no preference. The input is returned unchanged if it is empty
// or does not contain the desired id
func Reorder(chains []uint64, desiredChainID uint64) []uint64 {
	if len(chains) == 0 || desiredChainID == 0 {
		return chains
	}

	idx := slices.Index(chains, desiredChainID)
	if idx < 0 {
		return chains
	}

	ordered := make([]uint64, 0, len(chains))
	ordered = append(ordered, desiredChainID)
	ordered = append(ordered, chains[:idx]...)
	return append(ordered, chains[idx+1:]...)
}

// Contains reports whether chainID is one of chains
func Contains(chains []uint64, chainID uint64) bool {
	return slices.Contains(chains, chainID)
}
