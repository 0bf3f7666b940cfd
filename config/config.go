// Package config holds the protocol constants shared by every node in a
// simulation and the runtime knobs for the simulation harness itself.
//
// There is no config file and no flags package here: unlike the teacher,
// this network has no independently-operated nodes to reconcile settings
// across, so the "config" is just the fixed values every in-process node
// is built with.
package config

import "github.com/Klingon-tech/klingnet-chain/pkg/types"

// NetworkType identifies mainnet or testnet, kept only to namespace
// address encoding (see pkg/types.SetAddressHRP) — there is no consensus
// difference between them.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// BlockSize is the maximum number of transactions a block may carry,
// including its coinbase. Consensus-critical: every node must agree on
// this value to agree on which blocks are structurally valid.
const BlockSize = 10

// CoinbaseReward is the number of coins a coinbase transaction mints.
// The model has no amounts on transactions themselves — every coin is
// worth exactly one unit — so this exists purely as a named constant
// documenting that fact, not as a field written anywhere.
const CoinbaseReward = 1

// GenesisPrev is the parent hash of the genesis block: the zero hash,
// since genesis has no parent.
var GenesisPrev = types.Hash{}

// Config holds the runtime settings of a single simulated node. Unlike
// protocol constants above, these may vary per node without breaking
// consensus between them.
type Config struct {
	Network NetworkType

	// Mining controls whether this node assembles and mines blocks when
	// asked to, versus acting as a pure relay/validator.
	Mining MiningConfig

	Log LogConfig
}

// MiningConfig holds block-production settings.
type MiningConfig struct {
	Enabled bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	JSON  bool
}

// Default returns the default node configuration for the given network.
func Default(network NetworkType) *Config {
	return &Config{
		Network: network,
		Mining:  MiningConfig{Enabled: true},
		Log:     LogConfig{Level: "info", JSON: false},
	}
}
