package constants

import "time"

const (
	DefaultSelectionTimeout = 5 * time.Second  // timeout for racing RPC candidates of one chain
	ProbeDialTimeout        = 3 * time.Second  // upper bound for a single liveness probe
	ChainListTimeout        = 30 * time.Second // timeout for fetching chainlist.org
	TLSHandshakeTimeout     = 10 * time.Second // timeout for TLS handshake
	ResponseHeaderTimeout   = 20 * time.Second // timeout for response header
	ExpectContinueTimeout   = 1 * time.Second  // timeout for expect continue
	MaxResponseBodySize     = 10 * 1024 * 1024 // maximum response body size in bytes (10MB)
)

// MaxChainID is the largest chain id accepted from wallets (2^53 - 1)
const MaxChainID = 1<<53 - 1

// EIP155Namespace is the account namespace used by EVM wallets, accounts look like eip155:1:0xabc...
const EIP155Namespace = "eip155"

// ChainListURL is the public registry of RPC endpoints per chain
const ChainListURL = "https://chainlist.org/rpcs.json"

// MethodSwitchEthereumChain asks the wallet to change its active chain (EIP-3326)
const MethodSwitchEthereumChain = "wallet_switchEthereumChain"

// Chain IDs
const (
	ChainEthereum      uint64 = 1
	ChainOptimism      uint64 = 10
	ChainBSC           uint64 = 56
	ChainPolygon       uint64 = 137
	ChainBase          uint64 = 8453
	ChainArbitrum      uint64 = 42161
	ChainAvalanche     uint64 = 43114
	ChainAvalancheFuji uint64 = 43113
	ChainPolygonAmoy   uint64 = 80002
	ChainBaseSepolia   uint64 = 84532
	ChainSepolia       uint64 = 11155111
)

// OfficialRPCEndpoints are the reliable endpoints used when no others are configured
var OfficialRPCEndpoints = map[uint64][]string{
	ChainEthereum:      {"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
	ChainOptimism:      {"https://mainnet.optimism.io"},
	ChainBSC:           {"https://bsc-dataseed.binance.org"},
	ChainPolygon:       {"https://polygon-rpc.com"},
	ChainBase:          {"https://mainnet.base.org"},
	ChainArbitrum:      {"https://arb1.arbitrum.io/rpc"},
	ChainAvalanche:     {"https://api.avax.network/ext/bc/C/rpc"},
	ChainAvalancheFuji: {"https://api.avax-test.network/ext/bc/C/rpc"},
	ChainPolygonAmoy:   {"https://rpc-amoy.polygon.technology"},
	ChainBaseSepolia:   {"https://sepolia.base.org"},
	ChainSepolia:       {"https://rpc.sepolia.org"},
}
