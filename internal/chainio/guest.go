package chainio

import (
	"context"
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
)

// GuestClient is the guest-chain submission surface the Executor's
// dispatch table drives. The guest chain is treated as an external
// collaborator (its signing identity is a mnemonic phrase, not an ECDSA
// key, and no Cosmos-SDK-shaped client library appears anywhere in the
// retrieval pack) so only the interface is specified here; LoggingGuestClient
// is the reference implementation until a concrete guest-chain SDK is
// wired in.
type GuestClient interface {
	PauseBridge(ctx context.Context, messageID bridgemodel.MessageId) error
	ResumeBridge(ctx context.Context, messageID bridgemodel.MessageId) error
	ApproveTransfer(ctx context.Context, messageID bridgemodel.MessageId, from bridgemodel.HostAddress, to bridgemodel.GuestAddress, amount, tokenID *big.Int) error
	MultiSignedMint(ctx context.Context, messageID bridgemodel.MessageId, from bridgemodel.HostAddress, to bridgemodel.GuestAddress, amount, tokenID *big.Int) error
	CancelTransfer(ctx context.Context, messageID bridgemodel.MessageId) error
	ConfirmTransfer(ctx context.Context, messageID bridgemodel.MessageId) error
	UpdateLimits(ctx context.Context, messageID bridgemodel.MessageId, tokenID, minAmt, maxAmt, perDay *big.Int) error
	UpdateValidatorList(ctx context.Context, messageID bridgemodel.MessageId, validators []bridgemodel.HostAddress) error
	RecordPrice(ctx context.Context, symbol string, priceScaled *big.Int) error
}

// LoggingGuestClient logs every submission at Info level instead of
// signing and broadcasting a guest-chain transaction. It satisfies
// GuestClient so the Executor's dispatch table is fully exercised even
// though guest-chain wire calls are out of scope (spec.md §1: "treated as
// external collaborators, interfaces only").
type LoggingGuestClient struct {
	mnemonic string
}

// NewLoggingGuestClient builds a GuestClient backed by structured logging
// only. mnemonic is retained so a future concrete client can reuse the
// signing identity without changing this constructor's signature.
func NewLoggingGuestClient(mnemonic string) *LoggingGuestClient {
	return &LoggingGuestClient{mnemonic: mnemonic}
}

func (g *LoggingGuestClient) submit(op string, fields map[string]any) error {
	evt := log.Info().Str("op", op)
	for k, v := range fields {
		evt = evt.Interface(k, v)
	}
	evt.Msg("chainio: guest submission (logging client, no broadcast)")
	return nil
}

func (g *LoggingGuestClient) PauseBridge(ctx context.Context, messageID bridgemodel.MessageId) error {
	return g.submit("pause_bridge", map[string]any{"message_id": messageID.String()})
}

func (g *LoggingGuestClient) ResumeBridge(ctx context.Context, messageID bridgemodel.MessageId) error {
	return g.submit("resume_bridge", map[string]any{"message_id": messageID.String()})
}

func (g *LoggingGuestClient) ApproveTransfer(ctx context.Context, messageID bridgemodel.MessageId, from bridgemodel.HostAddress, to bridgemodel.GuestAddress, amount, tokenID *big.Int) error {
	return g.submit("approve_transfer", map[string]any{
		"message_id": messageID.String(), "from": from.Hex(), "to": to.String(),
		"amount": amount.String(), "token_id": tokenID.String(),
	})
}

func (g *LoggingGuestClient) MultiSignedMint(ctx context.Context, messageID bridgemodel.MessageId, from bridgemodel.HostAddress, to bridgemodel.GuestAddress, amount, tokenID *big.Int) error {
	return g.submit("multi_signed_mint", map[string]any{
		"message_id": messageID.String(), "from": from.Hex(), "to": to.String(),
		"amount": amount.String(), "token_id": tokenID.String(),
	})
}

func (g *LoggingGuestClient) CancelTransfer(ctx context.Context, messageID bridgemodel.MessageId) error {
	return g.submit("cancel_transfer", map[string]any{"message_id": messageID.String()})
}

func (g *LoggingGuestClient) ConfirmTransfer(ctx context.Context, messageID bridgemodel.MessageId) error {
	return g.submit("confirm_transfer", map[string]any{"message_id": messageID.String()})
}

func (g *LoggingGuestClient) UpdateLimits(ctx context.Context, messageID bridgemodel.MessageId, tokenID, minAmt, maxAmt, perDay *big.Int) error {
	return g.submit("update_limits", map[string]any{
		"message_id": messageID.String(), "token_id": tokenID.String(),
		"min": minAmt.String(), "max": maxAmt.String(), "per_day": perDay.String(),
	})
}

func (g *LoggingGuestClient) UpdateValidatorList(ctx context.Context, messageID bridgemodel.MessageId, validators []bridgemodel.HostAddress) error {
	addrs := make([]string, len(validators))
	for i, v := range validators {
		addrs[i] = v.Hex()
	}
	return g.submit("update_validator_list", map[string]any{"message_id": messageID.String(), "validators": fmt.Sprint(addrs)})
}

func (g *LoggingGuestClient) RecordPrice(ctx context.Context, symbol string, priceScaled *big.Int) error {
	return g.submit("record_price", map[string]any{"symbol": symbol, "price_scaled": priceScaled.String()})
}
