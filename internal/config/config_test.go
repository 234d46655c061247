package config

import (
	"os"
	"testing"
)

func setRequiredBaseEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"graph_node_api_url":            "http://localhost:8000/graphql",
		"eth_api_url":                   "ws://localhost:8545",
		"sub_api_url":                   "ws://localhost:26657",
		"eth_validator_address":         "0x0000000000000000000000000000000000000001",
		"eth_validator_private_key":     "deadbeef",
		"sub_validator_mnemonic_phrase": "test test test",
		"token_symbol":                  "ETH",
		"sub_token_index":               "0",
		"eth_gas_price":                 "1000000000",
		"eth_gas":                       "200000",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadSingleTokenShape(t *testing.T) {
	setRequiredBaseEnv(t)
	t.Setenv("token_bridge_address", "0x0000000000000000000000000000000000000002")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SingleTokenBridgeAddress.Hex() != "0x0000000000000000000000000000000000000002" {
		t.Fatalf("unexpected bridge address: %s", cfg.SingleTokenBridgeAddress.Hex())
	}
	if len(cfg.TokenRoutes) != 0 {
		t.Fatalf("expected no multi-token routes, got %d", len(cfg.TokenRoutes))
	}
}

func TestLoadMultiTokenShape(t *testing.T) {
	setRequiredBaseEnv(t)
	for _, s := range []string{"dai", "cdai", "usdt", "usdc"} {
		t.Setenv(s+"_contract_address", "0x0000000000000000000000000000000000000003")
		t.Setenv(s+"_bridge_address", "0x0000000000000000000000000000000000000004")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.TokenRoutes) != 4 {
		t.Fatalf("expected 4 token routes, got %d", len(cfg.TokenRoutes))
	}
}

func TestLoadMissingRequiredKeyFails(t *testing.T) {
	setRequiredBaseEnv(t)
	os.Unsetenv("eth_api_url")
	t.Setenv("token_bridge_address", "0x0000000000000000000000000000000000000002")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing eth_api_url")
	}
}

func TestLoadInvalidAddressFails(t *testing.T) {
	setRequiredBaseEnv(t)
	t.Setenv("token_bridge_address", "not-an-address")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid token_bridge_address")
	}
}
