// Package hostprobe is the one-shot host-chain status probe from spec.md
// §4.4.3: a single read-only contract call at startup that primes the
// Controller's state machine, after which the producer sleeps forever —
// it exists only to satisfy the uniform producer interface.
package hostprobe

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
)

// statusABI exposes the single read-only method the probe calls, mirrored
// from the teacher's oracleABI.Pack/Unpack pattern in chains/evm/adapter.go.
const statusABI = `[{"inputs":[],"name":"bridgeStatus","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"}]`

const idlePoll = 1 * time.Second

// Probe performs the one-shot status call and then idles.
type Probe struct {
	client          *ethclient.Client
	contractAddress common.Address
	abi             abi.ABI
	out             chan<- bridgemodel.Event
}

// New dials rpcURL and builds a Probe against contractAddress.
func New(ctx context.Context, rpcURL string, contractAddress common.Address, out chan<- bridgemodel.Event) (*Probe, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(strings.NewReader(statusABI))
	if err != nil {
		return nil, err
	}
	return &Probe{client: client, contractAddress: contractAddress, abi: parsed, out: out}, nil
}

// Run performs the one-shot status call, emits the synthetic priming
// event, and then blocks on ctx forever.
func (p *Probe) Run(ctx context.Context) {
	e, err := p.fetchStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("hostprobe: status call failed, Controller starts NotReady")
	} else {
		p.out <- e
	}

	ticker := time.NewTicker(idlePoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Probe) fetchStatus(ctx context.Context) (bridgemodel.Event, error) {
	data, err := p.abi.Pack("bridgeStatus")
	if err != nil {
		return nil, err
	}
	result, err := p.client.CallContract(ctx, ethereum.CallMsg{To: &p.contractAddress, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	outputs, err := p.abi.Unpack("bridgeStatus", result)
	if err != nil {
		return nil, err
	}
	return statusEventForCode(outputs[0].(uint8)), nil
}

// statusEventForCode maps a bridgeStatus code to the synthetic priming
// event: 0 → BridgeStarted, 1 → BridgePaused, anything else → BridgeStopped.
func statusEventForCode(code uint8) bridgemodel.Event {
	zero := bridgemodel.ZeroMessageId
	zeroBN := bridgemodel.NewBlockNumber(0)
	switch code {
	case 0:
		return bridgemodel.NewBridgeStarted(zero, zeroBN)
	case 1:
		return bridgemodel.NewBridgePaused(zero, zeroBN)
	default:
		return bridgemodel.NewBridgeStopped(zero, zeroBN)
	}
}
