package guestsub

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
)

// transferPayload is the shared field set carried by every bridge-module
// transfer event (RelayMessage, ApprovedRelayMessage, BurnedMessage,
// MintedMessage, CancellationConfirmedMessage).
type transferPayload struct {
	MessageID string `json:"messageId"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	TokenID   string `json:"tokenId"`
}

type accountPayload struct {
	MessageID string `json:"messageId"`
	Address   string `json:"address"`
	Timestamp uint64 `json:"timestamp"`
}

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

func parseGuestAddress(s string) bridgemodel.GuestAddress {
	return bridgemodel.GuestAddressFromBytes(common.FromHex(s))
}

// decodeGuestRecord maps rec.Type to the matching Guest* Event constructor,
// per spec.md §4.4.2's seven-entry type table. blockNumber is always 0:
// the subscription protocol carries no block height on delivered records.
func decodeGuestRecord(rec rawRecord) (bridgemodel.Event, bool) {
	zeroBN := bridgemodel.NewBlockNumber(0)

	switch rec.Type {
	case "RelayMessage":
		p, err := decodeTransferPayload(rec.Data)
		if err != nil {
			return nil, false
		}
		return bridgemodel.NewGuestRelay(parseMessageID(p.MessageID), zeroBN, parseGuestAddress(p.From), common.HexToAddress(p.To), parseBigInt(p.Amount), parseBigInt(p.TokenID)), true
	case "ApprovedRelayMessage":
		p, err := decodeTransferPayload(rec.Data)
		if err != nil {
			return nil, false
		}
		return bridgemodel.NewGuestApprovedRelay(parseMessageID(p.MessageID), zeroBN, parseGuestAddress(p.From), common.HexToAddress(p.To), parseBigInt(p.Amount), parseBigInt(p.TokenID)), true
	case "BurnedMessage":
		p, err := decodeTransferPayload(rec.Data)
		if err != nil {
			return nil, false
		}
		return bridgemodel.NewGuestBurned(parseMessageID(p.MessageID), zeroBN, parseGuestAddress(p.From), common.HexToAddress(p.To), parseBigInt(p.Amount), parseBigInt(p.TokenID)), true
	case "MintedMessage":
		p, err := decodeTransferPayload(rec.Data)
		if err != nil {
			return nil, false
		}
		return bridgemodel.NewGuestMinted(parseMessageID(p.MessageID), zeroBN, common.HexToAddress(p.From), parseGuestAddress(p.To), parseBigInt(p.Amount), parseBigInt(p.TokenID)), true
	case "CancellationConfirmedMessage":
		p, err := decodeTransferPayload(rec.Data)
		if err != nil {
			return nil, false
		}
		return bridgemodel.NewGuestCancellationConfirmed(parseMessageID(p.MessageID), zeroBN, parseGuestAddress(p.From), common.HexToAddress(p.To), parseBigInt(p.Amount), parseBigInt(p.TokenID)), true
	case "AccountPausedMessage":
		p, err := decodeAccountPayload(rec.Data)
		if err != nil {
			return nil, false
		}
		return bridgemodel.NewGuestAccountPaused(parseMessageID(p.MessageID), zeroBN, parseGuestAddress(p.Address), bridgemodel.Timestamp(p.Timestamp)), true
	case "AccountResumedMessage":
		p, err := decodeAccountPayload(rec.Data)
		if err != nil {
			return nil, false
		}
		return bridgemodel.NewGuestAccountResumed(parseMessageID(p.MessageID), zeroBN, parseGuestAddress(p.Address), bridgemodel.Timestamp(p.Timestamp)), true
	default:
		return nil, false
	}
}

func decodeTransferPayload(raw json.RawMessage) (transferPayload, error) {
	var p transferPayload
	err := json.Unmarshal(raw, &p)
	return p, err
}

func decodeAccountPayload(raw json.RawMessage) (accountPayload, error) {
	var p accountPayload
	err := json.Unmarshal(raw, &p)
	return p, err
}
