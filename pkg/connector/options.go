package connector

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sigweihq/wcconnect/pkg/chains"
	"github.com/sigweihq/wcconnect/pkg/endpoints"
)

// Options configures the provider built by the connector
type Options struct {
	ProjectID      string   `json:"projectId" yaml:"projectId"`
	Chains         []uint64 `json:"chains" yaml:"chains"`
	OptionalChains []uint64 `json:"optionalChains" yaml:"optionalChains"`

	// RPCMap lists one or more candidate RPC URLs per chain
	RPCMap endpoints.EndpointMap `json:"rpcMap" yaml:"rpcMap"`
	// Deprecated: use RPCMap. Ignored when RPCMap is set.
	RPC endpoints.EndpointMap `json:"rpc" yaml:"rpc"`

	Methods         []string  `json:"methods" yaml:"methods"`
	OptionalMethods []string  `json:"optionalMethods" yaml:"optionalMethods"`
	Events          []string  `json:"events" yaml:"events"`
	OptionalEvents  []string  `json:"optionalEvents" yaml:"optionalEvents"`
	ShowQRModal     bool      `json:"showQrModal" yaml:"showQrModal"`
	Metadata        *Metadata `json:"metadata" yaml:"metadata"`
}

// Endpoints returns the configured RPC candidates, preferring RPCMap over the legacy RPC field
func (o Options) Endpoints() endpoints.EndpointMap {
	if o.RPCMap != nil {
		return o.RPCMap
	}
	return o.RPC
}

// LoadOptions reads Options from a YAML or JSON file
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options: %w", err)
	}

	var opts Options
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &opts)
	default:
		err = yaml.Unmarshal(data, &opts)
	}
	if err != nil {
		return Options{}, fmt.Errorf("failed to parse options %s: %w", path, err)
	}

	return opts, nil
}

// Config holds everything needed to create a Connector
type Config struct {
	// Required: Actions records state transitions for the application.
	Actions Actions
	// Required: Factory builds the wallet provider.
	Factory ProviderFactory
	// Required: Options are passed on to the provider; at least one chain must be configured.
	Options Options
	// Optional: DefaultChainID is moved to the front of the chain lists when no chain is requested.
	DefaultChainID uint64
	// Optional: Timeout bounds endpoint selection per chain. Defaults to 5s.
	Timeout time.Duration
	// Optional: OnError receives errors that accompany a provider disconnect.
	OnError func(error)
	// Optional: Prober checks endpoint liveness. Defaults to the EVM eth_chainId probe.
	Prober chains.Prober
	// Optional: EndpointSource supplies candidates for chains without configured RPC URLs.
	EndpointSource endpoints.Source
	// Optional: Logger defaults to slog.Default().
	Logger *slog.Logger
}

// validate checks if the Config is valid
func (c Config) validate() error {
	if c.Actions == nil {
		return errors.New("actions are required")
	}
	if c.Factory == nil {
		return errors.New("provider factory is required")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if _, err := chains.ValidateChainSet(c.Options.Chains, c.Options.OptionalChains); err != nil {
		return err
	}
	return nil
}
