package bridgemodel

import "math/big"

// Family partitions the Event sum type into the three gating families plus
// the oracle family, per the data model in spec.md §3.
type Family int

const (
	FamilyTransfer Family = iota
	FamilyBridgeControl
	FamilyAccountControl
	FamilyOracle
)

func (f Family) String() string {
	switch f {
	case FamilyTransfer:
		return "transfer"
	case FamilyBridgeControl:
		return "bridge_control"
	case FamilyAccountControl:
		return "account_control"
	case FamilyOracle:
		return "oracle"
	default:
		return "unknown"
	}
}

// Event is the sum type every producer emits and the controller/executor
// consume. Concrete variants are defined in families.go.
type Event interface {
	MessageID() MessageId
	BlockNumber() BlockNumber
	Family() Family

	// Sender returns the quarantine-relevant account for transfer events
	// that define one, per the accessor table in spec.md §4.2.
	Sender() (Address, bool)

	// TokenID returns the routed token for HostApprovedRelay/GuestApprovedRelay
	// and zero for every other variant, matching §4.2 exactly (this is
	// narrower than the per-variant token field the Executor's dispatch
	// table reads directly).
	TokenID() TokenId

	// Equal reports whether two events carry identical payloads, the
	// comparison ControllerStorage.putEvent uses to decide Duplicate vs
	// overwrite-as-new (invariant 1 in spec.md §3).
	Equal(other Event) bool
}

// base holds the fields every Event variant carries (spec.md §3: "every
// variant carries at minimum (messageId, blockNumber)"). Its fields are
// exported so that embedding structs marshal to JSON as flat objects
// (encoding/json promotes an embedded type's exported fields regardless of
// whether the embedded type's own name is exported).
type base struct {
	ID MessageId
	BN BlockNumber
}

func (b base) MessageID() MessageId     { return b.ID }
func (b base) BlockNumber() BlockNumber { return b.BN }

func zeroToken() TokenId { return big.NewInt(0) }

func amountEqual(a, b Amount) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}
