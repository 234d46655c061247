package hoststore

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
)

func parseBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return big.NewInt(0)
	}
	return n
}

func parseMessageID(s string) bridgemodel.MessageId {
	return bridgemodel.MessageIdFromBytes(common.FromHex(s))
}

func parseHostAddress(s string) bridgemodel.HostAddress {
	return common.HexToAddress(s)
}

func parseGuestAddress(s string) bridgemodel.GuestAddress {
	return bridgemodel.GuestAddressFromBytes(common.FromHex(s))
}

// decodeTransfer maps a transferRecord to an Event per the status×direction
// table in spec.md §4.4.1. Any combination not explicitly listed falls
// back to HostApprovedRelay, matching the table's own literal "any other"
// row — this keeps the decoding function total (testable property #5).
func decodeTransfer(r transferRecord) bridgemodel.Event {
	id := parseMessageID(r.MessageID)
	bn := bridgemodel.NewBlockNumber(r.BlockNumber)
	amt := parseBigInt(r.Amount)
	token := parseBigInt(r.TokenID)

	switch {
	case r.Status == "PENDING" && r.Direction == "HOST_TO_GUEST":
		return bridgemodel.NewHostRelay(id, bn, parseHostAddress(r.From), parseGuestAddress(r.To), amt, token)
	case r.Status == "APPROVED" && r.Direction == "HOST_TO_GUEST":
		return bridgemodel.NewHostApprovedRelay(id, bn, parseHostAddress(r.From), parseGuestAddress(r.To), amt, token)
	case r.Status == "CANCELED" && r.Direction == "HOST_TO_GUEST":
		return bridgemodel.NewHostRevert(id, bn, parseHostAddress(r.From), parseGuestAddress(r.To), amt, token)
	case r.Status == "WITHDRAW" && r.Direction == "GUEST_TO_HOST":
		return bridgemodel.NewHostWithdraw(id, bn, parseGuestAddress(r.From), parseHostAddress(r.To), amt, token)
	default:
		return bridgemodel.NewHostApprovedRelay(id, bn, parseHostAddress(r.From), parseGuestAddress(r.To), amt, token)
	}
}

// decodeBridge maps a bridgeRecord's Kind to a bridge-control Event. An
// unrecognized Kind falls back to BridgePaused: of the four bridge-control
// transitions, pausing is the fail-safe direction to default to when the
// indexed store reports something this decoder doesn't recognize.
func decodeBridge(r bridgeRecord) bridgemodel.Event {
	id := parseMessageID(r.MessageID)
	bn := bridgemodel.NewBlockNumber(r.BlockNumber)

	switch r.Kind {
	case "PAUSE":
		return bridgemodel.NewBridgePaused(id, bn)
	case "RESUME":
		return bridgemodel.NewBridgeResumed(id, bn)
	case "START":
		return bridgemodel.NewBridgeStarted(id, bn)
	case "STOP":
		return bridgemodel.NewBridgeStopped(id, bn)
	default:
		return bridgemodel.NewBridgePaused(id, bn)
	}
}

// decodeAccount maps an accountRecord's (Kind, Direction) pair to an
// account-control Event. An unrecognized pair falls back to
// HostAccountPaused for the same fail-safe reasoning as decodeBridge.
func decodeAccount(r accountRecord) bridgemodel.Event {
	id := parseMessageID(r.MessageID)
	bn := bridgemodel.NewBlockNumber(r.BlockNumber)
	ts := bridgemodel.Timestamp(r.Timestamp)

	switch {
	case r.Kind == "PAUSE" && r.Direction == "HOST":
		return bridgemodel.NewHostAccountPaused(id, bn, parseHostAddress(r.Address), ts)
	case r.Kind == "RESUME" && r.Direction == "HOST":
		return bridgemodel.NewHostAccountResumed(id, bn, parseHostAddress(r.Address), ts)
	case r.Kind == "PAUSE" && r.Direction == "GUEST":
		return bridgemodel.NewGuestAccountPaused(id, bn, parseGuestAddress(r.Address), ts)
	case r.Kind == "RESUME" && r.Direction == "GUEST":
		return bridgemodel.NewGuestAccountResumed(id, bn, parseGuestAddress(r.Address), ts)
	default:
		return bridgemodel.NewHostAccountPaused(id, bn, parseHostAddress(r.Address), ts)
	}
}

func decodeLimit(r limitRecord) bridgemodel.Event {
	id := parseMessageID(r.MessageID)
	bn := bridgemodel.NewBlockNumber(r.BlockNumber)
	return bridgemodel.NewSetNewLimits(id, bn, parseBigInt(r.TokenID), parseBigInt(r.MinAmount), parseBigInt(r.MaxAmount), parseBigInt(r.PerDayLimit))
}
