// Package chainio adapts the host and guest chains for the executor: RPC
// dial, ABI packing, transaction signing, nonce tracking, and submission.
package chainio

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"
)

// GasStrategy selects how a host transaction prices its gas.
type GasStrategy int

const (
	GasStrategyLegacy GasStrategy = iota
	GasStrategyEIP1559
)

// TokenRoute is one entry of the static tokenIndex → contract mapping
// spec.md §4.5 requires for multi-token deployments.
type TokenRoute struct {
	TokenIndex      *big.Int
	ContractAddress common.Address
}

// HostClient wraps an ethclient.Client with the bridge ABI, a signing key,
// and a cached nonce, grounded in the teacher's node.TxManager and
// chains/evm.EVMAdapter.
type HostClient struct {
	client      *ethclient.Client
	abi         abi.ABI
	privateKey  *ecdsa.PrivateKey
	fromAddress common.Address
	chainID     *big.Int
	gasStrategy GasStrategy
	gasLimit    uint64
	fixedGasPrice *big.Int // nil ⇒ query SuggestGasPrice each send

	routes map[string]common.Address // tokenIndex.String() → contract address

	mu    sync.Mutex
	nonce uint64
}

// HostClientConfig parameterizes NewHostClient.
type HostClientConfig struct {
	RPCURL        string
	PrivateKeyHex string
	GasStrategy   GasStrategy
	GasLimit      uint64
	FixedGasPrice *big.Int // optional, from eth_gas_price config
	Routes        []TokenRoute
}

// NewHostClient dials the host chain, loads the signing key, and primes
// the nonce cache from the chain's pending nonce.
func NewHostClient(ctx context.Context, cfg HostClientConfig) (*HostClient, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("chainio: dial host chain: %w", err)
	}

	pk, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("chainio: parse validator key: %w", err)
	}
	fromAddr := crypto.PubkeyToAddress(pk.PublicKey)

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chainio: fetch chain id: %w", err)
	}

	nonce, err := client.PendingNonceAt(ctx, fromAddr)
	if err != nil {
		return nil, fmt.Errorf("chainio: fetch initial nonce: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(hostBridgeABI))
	if err != nil {
		return nil, fmt.Errorf("chainio: parse host bridge abi: %w", err)
	}

	gasLimit := cfg.GasLimit
	if gasLimit == 0 {
		gasLimit = 500000
	}

	routes := make(map[string]common.Address, len(cfg.Routes))
	for _, r := range cfg.Routes {
		routes[r.TokenIndex.String()] = r.ContractAddress
	}

	log.Info().
		Str("address", fromAddr.Hex()).
		Uint64("chain_id", chainID.Uint64()).
		Int("token_routes", len(routes)).
		Msg("chainio: host client connected")

	return &HostClient{
		client:        client,
		abi:           parsedABI,
		privateKey:    pk,
		fromAddress:   fromAddr,
		chainID:       chainID,
		gasStrategy:   cfg.GasStrategy,
		gasLimit:      gasLimit,
		fixedGasPrice: cfg.FixedGasPrice,
		routes:        routes,
		nonce:         nonce,
	}, nil
}

// ContractFor resolves tokenIndex to its bridge contract address.
func (c *HostClient) ContractFor(tokenIndex *big.Int) (common.Address, error) {
	addr, ok := c.routes[tokenIndex.String()]
	if !ok {
		return common.Address{}, fmt.Errorf("chainio: no route for token index %s", tokenIndex)
	}
	return addr, nil
}

// Call packs method(args...), signs, and submits a transaction to the
// bridge contract routed for tokenIndex. It obtains a fresh nonce from the
// host RPC before every send, per spec.md §4.5.
func (c *HostClient) Call(ctx context.Context, tokenIndex *big.Int, method string, args ...any) (common.Hash, error) {
	to, err := c.ContractFor(tokenIndex)
	if err != nil {
		return common.Hash{}, err
	}

	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chainio: pack %s: %w", method, err)
	}

	return c.send(ctx, to, data)
}

func (c *HostClient) send(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nonce, err := c.client.PendingNonceAt(ctx, c.fromAddress)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chainio: fetch nonce: %w", err)
	}
	c.nonce = nonce

	gasPrice := c.fixedGasPrice
	if gasPrice == nil {
		gasPrice, err = c.client.SuggestGasPrice(ctx)
		if err != nil {
			return common.Hash{}, fmt.Errorf("chainio: suggest gas price: %w", err)
		}
	}

	gasLimit := c.gasLimit
	if estimated, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From: c.fromAddress,
		To:   &to,
		Data: data,
	}); err == nil && estimated > 0 {
		gasLimit = estimated
	} else if err != nil {
		log.Warn().Err(err).Msg("chainio: gas estimation failed, using configured fallback")
	}

	var tx *types.Transaction
	switch c.gasStrategy {
	case GasStrategyEIP1559:
		tip := big.NewInt(1_000_000_000) // 1 gwei priority fee
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   c.chainID,
			Nonce:     c.nonce,
			GasTipCap: tip,
			GasFeeCap: new(big.Int).Add(gasPrice, tip),
			Gas:       gasLimit,
			To:        &to,
			Data:      data,
		})
	default:
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    c.nonce,
			GasPrice: gasPrice,
			Gas:      gasLimit,
			To:       &to,
			Data:     data,
		})
	}

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.privateKey)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chainio: sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		if strings.Contains(err.Error(), "nonce too low") {
			refreshed, nerr := c.client.PendingNonceAt(ctx, c.fromAddress)
			if nerr == nil {
				c.nonce = refreshed
			}
		}
		return common.Hash{}, fmt.Errorf("chainio: send transaction: %w", err)
	}

	c.nonce++
	return signedTx.Hash(), nil
}
