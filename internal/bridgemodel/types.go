// Package bridgemodel defines the event algebra shared by every producer,
// the controller, and the executor: the common vocabulary the rest of the
// relayer is built on.
package bridgemodel

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MessageId is the 256-bit identifier chosen by the originating contract.
// It is the primary key for deduplication across every producer.
type MessageId [32]byte

// ZeroMessageId is used by synthetic events that have no natural message id
// (the host status probe, every oracle tick).
var ZeroMessageId = MessageId{}

func (id MessageId) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// IsZero reports whether id is the all-zero sentinel.
func (id MessageId) IsZero() bool {
	return id == ZeroMessageId
}

// MessageIdFromBytes left-pads/truncates b into a MessageId. Producers
// decoding a fixed 32-byte wire field should prefer copying directly.
func MessageIdFromBytes(b []byte) MessageId {
	var id MessageId
	if len(b) >= 32 {
		copy(id[:], b[len(b)-32:])
	} else {
		copy(id[32-len(b):], b)
	}
	return id
}

// MarshalJSON renders a MessageId as its hex string, the same convention
// go-ethereum's common.Hash uses.
func (id MessageId) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON parses the hex string form produced by MarshalJSON.
func (id *MessageId) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	s = stripHexPrefix(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("messageid: %w", err)
	}
	*id = MessageIdFromBytes(b)
	return nil
}

func stripHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// HostAddress is a 160-bit address on the EVM-compatible host chain.
type HostAddress = common.Address

// GuestAddress is a 256-bit account identifier on the guest chain.
type GuestAddress [32]byte

func (a GuestAddress) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// GuestAddressFromBytes left-pads/truncates b into a GuestAddress.
func GuestAddressFromBytes(b []byte) GuestAddress {
	var a GuestAddress
	if len(b) >= 32 {
		copy(a[:], b[len(b)-32:])
	} else {
		copy(a[32-len(b):], b)
	}
	return a
}

// MarshalJSON renders a GuestAddress as its hex string.
func (a GuestAddress) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON parses the hex string form produced by MarshalJSON.
func (a *GuestAddress) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	s = stripHexPrefix(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("guestaddress: %w", err)
	}
	*a = GuestAddressFromBytes(b)
	return nil
}

// AddressKind tags which chain an Address belongs to so that a host address
// and a guest address with identical underlying bytes never collide as map
// keys.
type AddressKind uint8

const (
	AddressKindHost AddressKind = iota
	AddressKindGuest
)

func (k AddressKind) String() string {
	if k == AddressKindHost {
		return "host"
	}
	return "guest"
}

// Address is a tagged union over a host or guest account, used as the key
// of the controller's per-account quarantine map.
type Address struct {
	Kind  AddressKind
	Host  HostAddress
	Guest GuestAddress
}

// Host builds a tagged Address for a host-chain account.
func Host(a HostAddress) Address {
	return Address{Kind: AddressKindHost, Host: a}
}

// Guest builds a tagged Address for a guest-chain account.
func Guest(a GuestAddress) Address {
	return Address{Kind: AddressKindGuest, Guest: a}
}

func (a Address) String() string {
	if a.Kind == AddressKindHost {
		return fmt.Sprintf("host:%s", a.Host.Hex())
	}
	return fmt.Sprintf("guest:%s", a.Guest.String())
}

// Key returns a deterministic, collision-free string suitable for use as a
// Badger key suffix or a map key on its own (Address itself is already
// comparable and usable as a Go map key; Key exists for callers that need
// the byte-string form, e.g. controllerstore's per-account queue prefix).
func (a Address) Key() string {
	return a.String()
}

// Amount and TokenId are 256-bit unsigned integers; *big.Int is the Go
// idiom for values that may exceed 64 bits, matching how the teacher
// repository represents on-chain uint256 values throughout chains/evm.
type Amount = *big.Int
type TokenId = *big.Int

// Timestamp is seconds since epoch.
type Timestamp uint64

// BlockNumber is the source-chain height at which an event was observed.
// It is represented with big.Int because guest-chain heights are not
// contractually bounded to 64 bits, the same reasoning the teacher
// repository applies to on-chain integers.
type BlockNumber struct {
	v *big.Int
}

// NewBlockNumber wraps n as a BlockNumber.
func NewBlockNumber(n uint64) BlockNumber {
	return BlockNumber{v: new(big.Int).SetUint64(n)}
}

// BlockNumberFromBigInt wraps an existing *big.Int.
func BlockNumberFromBigInt(n *big.Int) BlockNumber {
	if n == nil {
		return NewBlockNumber(0)
	}
	return BlockNumber{v: new(big.Int).Set(n)}
}

// Cmp orders two BlockNumbers, matching big.Int.Cmp's contract.
func (b BlockNumber) Cmp(o BlockNumber) int {
	return b.big().Cmp(o.big())
}

// Uint64 truncates the block number to 64 bits for logging and for chains
// that never exceed that range in practice.
func (b BlockNumber) Uint64() uint64 {
	return b.big().Uint64()
}

func (b BlockNumber) String() string {
	return b.big().String()
}

func (b BlockNumber) big() *big.Int {
	if b.v == nil {
		return big.NewInt(0)
	}
	return b.v
}

// MarshalJSON renders a BlockNumber as a decimal JSON number, matching how
// *big.Int itself marshals.
func (b BlockNumber) MarshalJSON() ([]byte, error) {
	return b.big().MarshalJSON()
}

// UnmarshalJSON parses the decimal form produced by MarshalJSON.
func (b *BlockNumber) UnmarshalJSON(data []byte) error {
	v := new(big.Int)
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	b.v = v
	return nil
}
