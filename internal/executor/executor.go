// Package executor consumes accepted events from the Controller's outbox
// and dispatches each to exactly one chain operation, per the table in
// spec.md §4.5. Every handler is non-blocking: it builds the call and
// hands it to the task pool, then returns to read the next event.
package executor

import (
	"context"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
	"github.com/obscura-network/bridge-relayer/internal/chainio"
)

// Executor is stateless with respect to events: each is discarded after
// its derived transaction is submitted.
type Executor struct {
	host  *chainio.HostClient
	guest chainio.GuestClient
	pool  *Pool
}

// New builds an Executor backed by the given chain clients and pool.
func New(host *chainio.HostClient, guest chainio.GuestClient, pool *Pool) *Executor {
	return &Executor{host: host, guest: guest, pool: pool}
}

// Run consumes inbox until ctx is canceled or inbox closes. A closed
// inbox means the Controller has died; per spec.md §5/§7 that is fatal,
// but there is nothing further to submit, so Run simply returns rather
// than panicking itself — the panic already happened upstream.
func (ex *Executor) Run(ctx context.Context, inbox <-chan bridgemodel.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-inbox:
			if !ok {
				return
			}
			ex.dispatch(ctx, e)
		}
	}
}

// dispatch routes e per the table in spec.md §4.5 and hands the resulting
// call off to the task pool without blocking.
func (ex *Executor) dispatch(ctx context.Context, e bridgemodel.Event) {
	switch v := e.(type) {
	case bridgemodel.BridgePaused:
		ex.submitGuest(v.MessageID(), "pause_bridge", func() error { return ex.guest.PauseBridge(ctx, v.MessageID()) })
	case bridgemodel.BridgeStopped:
		ex.submitGuest(v.MessageID(), "pause_bridge", func() error { return ex.guest.PauseBridge(ctx, v.MessageID()) })
	case bridgemodel.BridgeResumed:
		ex.submitGuest(v.MessageID(), "resume_bridge", func() error { return ex.guest.ResumeBridge(ctx, v.MessageID()) })
	case bridgemodel.BridgeStarted:
		ex.submitGuest(v.MessageID(), "resume_bridge", func() error { return ex.guest.ResumeBridge(ctx, v.MessageID()) })

	case bridgemodel.HostRelay:
		ex.submitHost(v.MessageID(), "approveTransfer", v.Token, func() error {
			_, err := ex.host.Call(ctx, v.Token, "approveTransfer", toBytes32(v.MessageID()), v.From, guestToBytes32(v.To), v.Amt, v.Token)
			return err
		})
	case bridgemodel.HostApprovedRelay:
		ex.submitGuest(v.MessageID(), "multi_signed_mint", func() error {
			return ex.guest.MultiSignedMint(ctx, v.MessageID(), v.From, v.To, v.Amt, v.Token)
		})
	case bridgemodel.HostRevert:
		ex.submitGuest(v.MessageID(), "cancel_transfer", func() error { return ex.guest.CancelTransfer(ctx, v.MessageID()) })
	case bridgemodel.HostWithdraw:
		ex.submitGuest(v.MessageID(), "confirm_transfer", func() error { return ex.guest.ConfirmTransfer(ctx, v.MessageID()) })

	case bridgemodel.SetNewLimits:
		ex.submitGuest(v.MessageID(), "update_limits", func() error {
			return ex.guest.UpdateLimits(ctx, v.MessageID(), v.Token, v.MinAmt, v.MaxAmt, v.PerDay)
		})
	case bridgemodel.ValidatorsList:
		ex.submitGuest(v.MessageID(), "update_validator_list", func() error {
			return ex.guest.UpdateValidatorList(ctx, v.MessageID(), v.Validators)
		})

	case bridgemodel.GuestRelay:
		ex.submitGuest(v.MessageID(), "approve_transfer", func() error {
			return ex.guest.ApproveTransfer(ctx, v.MessageID(), v.To, v.From, v.Amt, v.Token)
		})
	case bridgemodel.GuestApprovedRelay:
		ex.submitHost(v.MessageID(), "withdrawTransfer", v.Token, func() error {
			_, err := ex.host.Call(ctx, v.Token, "withdrawTransfer", toBytes32(v.MessageID()), guestToBytes32(v.From), v.To, v.Amt, v.Token)
			return err
		})
	case bridgemodel.GuestBurned:
		ex.submitHost(v.MessageID(), "confirmWithdrawTransfer", v.Token, func() error {
			_, err := ex.host.Call(ctx, v.Token, "confirmWithdrawTransfer", toBytes32(v.MessageID()), guestToBytes32(v.From), v.To, v.Amt, v.Token)
			return err
		})
	case bridgemodel.GuestMinted:
		ex.submitHost(v.MessageID(), "confirmTransfer", v.Token, func() error {
			_, err := ex.host.Call(ctx, v.Token, "confirmTransfer", toBytes32(v.MessageID()), v.From, guestToBytes32(v.To), v.Amt, v.Token)
			return err
		})
	case bridgemodel.GuestCancellationConfirmed:
		ex.submitHost(v.MessageID(), "confirmCancelTransfer", v.Token, func() error {
			_, err := ex.host.Call(ctx, v.Token, "confirmCancelTransfer", toBytes32(v.MessageID()), guestToBytes32(v.From), v.To, v.Amt, v.Token)
			return err
		})

	case bridgemodel.GuestAccountPaused:
		ex.submitHost(v.MessageID(), "setPausedStatusForGuestAddress", defaultTokenIndex, func() error {
			_, err := ex.host.Call(ctx, defaultTokenIndex, "setPausedStatusForGuestAddress", toBytes32(v.MessageID()), guestToBytes32(v.Subject), uint64(v.At))
			return err
		})
	case bridgemodel.GuestAccountResumed:
		ex.submitHost(v.MessageID(), "setResumedStatusForGuestAddress", defaultTokenIndex, func() error {
			_, err := ex.host.Call(ctx, defaultTokenIndex, "setResumedStatusForGuestAddress", toBytes32(v.MessageID()), guestToBytes32(v.Subject), uint64(v.At))
			return err
		})

	case bridgemodel.HostAccountPaused, bridgemodel.HostAccountResumed:
		// Quarantine is controller-local; nothing to submit on-chain.

	case bridgemodel.OraclePrice:
		ex.submitGuest(v.MessageID(), "record_price", func() error {
			return ex.guest.RecordPrice(ctx, v.Symbol, v.PriceScaled)
		})

	default:
		log.Warn().Str("type", eventTypeName(e)).Msg("executor: no dispatch rule for event type")
	}
}

// defaultTokenIndex routes account-control calls, which are not
// token-specific, to token index 0's configured contract. Single-token
// deployments have exactly one route, so this is always correct there;
// multi-token deployments designate token 0 as the canonical bridge
// contract for account-level operations.
var defaultTokenIndex = big.NewInt(0)

func (ex *Executor) submitGuest(id bridgemodel.MessageId, op string, call func() error) {
	ex.pool.Submit(func() {
		if err := call(); err != nil {
			log.Error().Err(err).Str("op", op).Str("message_id", id.String()).Msg("executor: guest submission failed")
		}
	})
}

func (ex *Executor) submitHost(id bridgemodel.MessageId, op string, tokenIndex *big.Int, call func() error) {
	ex.pool.Submit(func() {
		if err := call(); err != nil {
			log.Error().Err(err).Str("op", op).Str("message_id", id.String()).Str("token_index", tokenIndex.String()).Msg("executor: host submission failed")
		}
	})
}

func toBytes32(id bridgemodel.MessageId) [32]byte {
	return [32]byte(id)
}

func guestToBytes32(a bridgemodel.GuestAddress) [32]byte {
	return [32]byte(a)
}

func eventTypeName(e bridgemodel.Event) string {
	return e.Family().String()
}
