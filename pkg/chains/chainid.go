package chains

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseChainID parses a chain id reported by a wallet
// Wallets report either a 0x-prefixed hex quantity or a decimal string
func ParseChainID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty chain id")
	}

	// hexutil.DecodeUint64 rejects leading zeros, which some wallets send
	if has0xPrefix(s) {
		id, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hex chain id %q: %w", s, err)
		}
		return id, nil
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q: %w", s, err)
	}
	return id, nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// FormatChainID encodes a chain id as the 0x-prefixed quantity expected by wallet RPC methods
func FormatChainID(chainID uint64) string {
	return hexutil.EncodeUint64(chainID)
}

// Account is a namespace-qualified account such as eip155:1:0xab16a96D359eC26a11e2C2b3d8f8B8942d5Bfcdb
type Account struct {
	Namespace string
	ChainID   uint64
	Address   string
}

// String returns the namespace-qualified form of the account
func (a Account) String() string {
	return fmt.Sprintf("%s:%d:%s", a.Namespace, a.ChainID, a.Address)
}

// ParseAccount splits a namespace-qualified account into its parts
func ParseAccount(s string) (Account, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return Account{}, fmt.Errorf("invalid namespaced account %q", s)
	}

	chainID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Account{}, fmt.Errorf("invalid chain id in account %q: %w", s, err)
	}

	return Account{
		Namespace: parts[0],
		ChainID:   chainID,
		Address:   parts[2],
	}, nil
}

// HasAccountOnChain reports whether any of accounts belongs to chainID within namespace
// Malformed entries are skipped
func HasAccountOnChain(accounts []string, namespace string, chainID uint64) bool {
	for _, raw := range accounts {
		account, err := ParseAccount(raw)
		if err != nil {
			continue
		}
		if account.Namespace == namespace && account.ChainID == chainID {
			return true
		}
	}
	return false
}
