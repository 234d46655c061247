package controllerstore

import (
	"encoding/json"
	"fmt"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
)

// envelope is the on-disk (in-memory Badger) wire shape for an Event: a
// type tag plus its JSON-encoded payload, the same "marshal the whole
// value, keep a type discriminator alongside it" idiom the teacher store
// uses for jobs (storage/badger_store.go's SaveJob/GetJob), generalized
// from a single concrete job type to the Event sum type.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func encodeEvent(e bridgemodel.Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("controllerstore: marshal %T: %w", e, err)
	}
	return json.Marshal(envelope{Type: eventTypeTag(e), Data: data})
}

func decodeEvent(raw []byte) (bridgemodel.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("controllerstore: unmarshal envelope: %w", err)
	}
	target, ok := eventZeroValueForTag(env.Type)
	if !ok {
		return nil, fmt.Errorf("controllerstore: unknown event type tag %q", env.Type)
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return nil, fmt.Errorf("controllerstore: unmarshal %s payload: %w", env.Type, err)
	}
	return derefEvent(target), nil
}

func eventTypeTag(e bridgemodel.Event) string {
	switch e.(type) {
	case bridgemodel.HostRelay:
		return "HostRelay"
	case bridgemodel.HostApprovedRelay:
		return "HostApprovedRelay"
	case bridgemodel.HostRevert:
		return "HostRevert"
	case bridgemodel.HostWithdraw:
		return "HostWithdraw"
	case bridgemodel.GuestRelay:
		return "GuestRelay"
	case bridgemodel.GuestApprovedRelay:
		return "GuestApprovedRelay"
	case bridgemodel.GuestBurned:
		return "GuestBurned"
	case bridgemodel.GuestMinted:
		return "GuestMinted"
	case bridgemodel.GuestCancellationConfirmed:
		return "GuestCancellationConfirmed"
	case bridgemodel.BridgePaused:
		return "BridgePaused"
	case bridgemodel.BridgeResumed:
		return "BridgeResumed"
	case bridgemodel.BridgeStarted:
		return "BridgeStarted"
	case bridgemodel.BridgeStopped:
		return "BridgeStopped"
	case bridgemodel.SetNewLimits:
		return "SetNewLimits"
	case bridgemodel.ValidatorsList:
		return "ValidatorsList"
	case bridgemodel.HostAccountPaused:
		return "HostAccountPaused"
	case bridgemodel.HostAccountResumed:
		return "HostAccountResumed"
	case bridgemodel.GuestAccountPaused:
		return "GuestAccountPaused"
	case bridgemodel.GuestAccountResumed:
		return "GuestAccountResumed"
	case bridgemodel.OraclePrice:
		return "OraclePrice"
	default:
		return fmt.Sprintf("unknown:%T", e)
	}
}

// eventZeroValueForTag returns a pointer to a fresh zero value of the
// concrete type named by tag, so json.Unmarshal has something addressable
// to decode into.
func eventZeroValueForTag(tag string) (any, bool) {
	switch tag {
	case "HostRelay":
		return new(bridgemodel.HostRelay), true
	case "HostApprovedRelay":
		return new(bridgemodel.HostApprovedRelay), true
	case "HostRevert":
		return new(bridgemodel.HostRevert), true
	case "HostWithdraw":
		return new(bridgemodel.HostWithdraw), true
	case "GuestRelay":
		return new(bridgemodel.GuestRelay), true
	case "GuestApprovedRelay":
		return new(bridgemodel.GuestApprovedRelay), true
	case "GuestBurned":
		return new(bridgemodel.GuestBurned), true
	case "GuestMinted":
		return new(bridgemodel.GuestMinted), true
	case "GuestCancellationConfirmed":
		return new(bridgemodel.GuestCancellationConfirmed), true
	case "BridgePaused":
		return new(bridgemodel.BridgePaused), true
	case "BridgeResumed":
		return new(bridgemodel.BridgeResumed), true
	case "BridgeStarted":
		return new(bridgemodel.BridgeStarted), true
	case "BridgeStopped":
		return new(bridgemodel.BridgeStopped), true
	case "SetNewLimits":
		return new(bridgemodel.SetNewLimits), true
	case "ValidatorsList":
		return new(bridgemodel.ValidatorsList), true
	case "HostAccountPaused":
		return new(bridgemodel.HostAccountPaused), true
	case "HostAccountResumed":
		return new(bridgemodel.HostAccountResumed), true
	case "GuestAccountPaused":
		return new(bridgemodel.GuestAccountPaused), true
	case "GuestAccountResumed":
		return new(bridgemodel.GuestAccountResumed), true
	case "OraclePrice":
		return new(bridgemodel.OraclePrice), true
	default:
		return nil, false
	}
}

// derefEvent dereferences the pointer produced by eventZeroValueForTag back
// into the value-typed Event the rest of the system expects (every variant
// implements Event on the value receiver).
func derefEvent(ptr any) bridgemodel.Event {
	switch v := ptr.(type) {
	case *bridgemodel.HostRelay:
		return *v
	case *bridgemodel.HostApprovedRelay:
		return *v
	case *bridgemodel.HostRevert:
		return *v
	case *bridgemodel.HostWithdraw:
		return *v
	case *bridgemodel.GuestRelay:
		return *v
	case *bridgemodel.GuestApprovedRelay:
		return *v
	case *bridgemodel.GuestBurned:
		return *v
	case *bridgemodel.GuestMinted:
		return *v
	case *bridgemodel.GuestCancellationConfirmed:
		return *v
	case *bridgemodel.BridgePaused:
		return *v
	case *bridgemodel.BridgeResumed:
		return *v
	case *bridgemodel.BridgeStarted:
		return *v
	case *bridgemodel.BridgeStopped:
		return *v
	case *bridgemodel.SetNewLimits:
		return *v
	case *bridgemodel.ValidatorsList:
		return *v
	case *bridgemodel.HostAccountPaused:
		return *v
	case *bridgemodel.HostAccountResumed:
		return *v
	case *bridgemodel.GuestAccountPaused:
		return *v
	case *bridgemodel.GuestAccountResumed:
		return *v
	case *bridgemodel.OraclePrice:
		return *v
	default:
		panic(fmt.Sprintf("controllerstore: derefEvent: unhandled type %T", ptr))
	}
}
