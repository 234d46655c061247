// Package config loads the relayer's configuration from the process
// environment, optionally preceded by a .env file, following the
// teacher's main.go convention of godotenv.Load then getEnv(key,
// fallback). Unlike the teacher, every key here is validated at load
// time: a malformed or missing required value fails fast rather than
// propagating a zero value into a producer.
package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// TokenRoute pairs a token symbol with its host-chain contract and bridge
// addresses, used for the multi-token configuration shape.
type TokenRoute struct {
	Symbol          string
	ContractAddress common.Address
	BridgeAddress   common.Address
}

// Config is the fully parsed, validated configuration for one relayer
// process.
type Config struct {
	GraphNodeAPIURL string
	EthAPIURL       string
	SubAPIURL       string

	EthValidatorAddress    common.Address
	EthValidatorPrivateKey string
	SubValidatorMnemonic   string

	// SingleTokenBridgeAddress is set when the single-token shape is
	// configured; TokenRoutes is set (non-empty) when the four-token
	// shape is configured instead. Exactly one is populated.
	SingleTokenBridgeAddress common.Address
	TokenRoutes              []TokenRoute

	TokenSymbol  string
	SubTokenIndex *big.Int

	EthGasPrice *big.Int
	EthGas      uint64

	StatusListenAddr string
}

// Load reads and validates configuration from the environment, loading a
// .env file first if one is present. Any required value that is missing
// or malformed is a fatal configuration error (spec.md §7).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("config: no .env file found, using process environment only")
	}

	cfg := &Config{}
	var err error

	cfg.GraphNodeAPIURL, err = requireEnv("graph_node_api_url")
	if err != nil {
		return nil, err
	}
	cfg.EthAPIURL, err = requireEnv("eth_api_url")
	if err != nil {
		return nil, err
	}
	cfg.SubAPIURL, err = requireEnv("sub_api_url")
	if err != nil {
		return nil, err
	}

	ethValidator, err := requireEnv("eth_validator_address")
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(ethValidator) {
		return nil, fmt.Errorf("config: eth_validator_address %q is not a valid address", ethValidator)
	}
	cfg.EthValidatorAddress = common.HexToAddress(ethValidator)

	cfg.EthValidatorPrivateKey, err = requireEnv("eth_validator_private_key")
	if err != nil {
		return nil, err
	}
	cfg.SubValidatorMnemonic, err = requireEnv("sub_validator_mnemonic_phrase")
	if err != nil {
		return nil, err
	}

	if err := cfg.loadTokenRouting(); err != nil {
		return nil, err
	}

	cfg.TokenSymbol, err = requireEnv("token_symbol")
	if err != nil {
		return nil, err
	}
	subTokenIndex, err := requireEnv("sub_token_index")
	if err != nil {
		return nil, err
	}
	cfg.SubTokenIndex, err = parseBigInt("sub_token_index", subTokenIndex)
	if err != nil {
		return nil, err
	}

	ethGasPrice, err := requireEnv("eth_gas_price")
	if err != nil {
		return nil, err
	}
	cfg.EthGasPrice, err = parseBigInt("eth_gas_price", ethGasPrice)
	if err != nil {
		return nil, err
	}

	ethGas, err := requireEnv("eth_gas")
	if err != nil {
		return nil, err
	}
	gasLimit, ok := new(big.Int).SetString(ethGas, 10)
	if !ok {
		return nil, fmt.Errorf("config: eth_gas %q is not a valid integer", ethGas)
	}
	cfg.EthGas = gasLimit.Uint64()

	cfg.StatusListenAddr = getEnv("status_listen_addr", ":8090")

	return cfg, nil
}

// loadTokenRouting selects between the single-token and four-token
// configuration shapes: the four-token shape wins if any of its keys are
// present, otherwise the single-token key is required.
func (cfg *Config) loadTokenRouting() error {
	symbols := []string{"dai", "cdai", "usdt", "usdc"}
	anyMultiTokenKeyPresent := false
	for _, s := range symbols {
		if _, ok := os.LookupEnv(s + "_contract_address"); ok {
			anyMultiTokenKeyPresent = true
			break
		}
	}

	if !anyMultiTokenKeyPresent {
		addr, err := requireEnv("token_bridge_address")
		if err != nil {
			return err
		}
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("config: token_bridge_address %q is not a valid address", addr)
		}
		cfg.SingleTokenBridgeAddress = common.HexToAddress(addr)
		return nil
	}

	for _, s := range symbols {
		contractKey := s + "_contract_address"
		bridgeKey := s + "_bridge_address"
		contract, err := requireEnv(contractKey)
		if err != nil {
			return err
		}
		bridge, err := requireEnv(bridgeKey)
		if err != nil {
			return err
		}
		if !common.IsHexAddress(contract) {
			return fmt.Errorf("config: %s %q is not a valid address", contractKey, contract)
		}
		if !common.IsHexAddress(bridge) {
			return fmt.Errorf("config: %s %q is not a valid address", bridgeKey, bridge)
		}
		cfg.TokenRoutes = append(cfg.TokenRoutes, TokenRoute{
			Symbol:          strings.ToUpper(s),
			ContractAddress: common.HexToAddress(contract),
			BridgeAddress:   common.HexToAddress(bridge),
		})
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func requireEnv(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", fmt.Errorf("config: required environment variable %q is not set", key)
	}
	return value, nil
}

func parseBigInt(key, value string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("config: %q value %q is not a valid integer", key, value)
	}
	return n, nil
}
