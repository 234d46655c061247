package bridgemodel

// --- Transfer family -------------------------------------------------
//
// Subject to per-account quarantine (spec.md §3). Sender()/TokenID() are
// defined per the table in §4.2; every other variant returns (Address{}, false)
// and zero respectively.

// HostRelay is the host-chain announcement of a host→guest transfer.
type HostRelay struct {
	base
	From  HostAddress
	To    GuestAddress
	Amt   Amount
	Token TokenId
}

func NewHostRelay(id MessageId, bn BlockNumber, from HostAddress, to GuestAddress, amt, token Amount) HostRelay {
	return HostRelay{base: base{id, bn}, From: from, To: to, Amt: amt, Token: token}
}

func (e HostRelay) Family() Family           { return FamilyTransfer }
func (e HostRelay) Sender() (Address, bool)  { return Host(e.From), true }
func (e HostRelay) TokenID() TokenId         { return zeroToken() }
func (e HostRelay) Equal(o Event) bool {
	other, ok := o.(HostRelay)
	return ok && e.ID == other.ID && e.From == other.From && e.To == other.To &&
		amountEqual(e.Amt, other.Amt) && amountEqual(e.Token, other.Token)
}

// HostApprovedRelay is a HostRelay that has gathered validator signatures.
type HostApprovedRelay struct {
	base
	From  HostAddress
	To    GuestAddress
	Amt   Amount
	Token TokenId
}

func NewHostApprovedRelay(id MessageId, bn BlockNumber, from HostAddress, to GuestAddress, amt, token Amount) HostApprovedRelay {
	return HostApprovedRelay{base: base{id, bn}, From: from, To: to, Amt: amt, Token: token}
}

func (e HostApprovedRelay) Family() Family          { return FamilyTransfer }
func (e HostApprovedRelay) Sender() (Address, bool) { return Host(e.From), true }
func (e HostApprovedRelay) TokenID() TokenId        { return e.Token }
func (e HostApprovedRelay) Equal(o Event) bool {
	other, ok := o.(HostApprovedRelay)
	return ok && e.ID == other.ID && e.From == other.From && e.To == other.To &&
		amountEqual(e.Amt, other.Amt) && amountEqual(e.Token, other.Token)
}

// HostRevert records a cancellation of a host→guest relay.
type HostRevert struct {
	base
	From  HostAddress
	To    GuestAddress
	Amt   Amount
	Token TokenId
}

func NewHostRevert(id MessageId, bn BlockNumber, from HostAddress, to GuestAddress, amt, token Amount) HostRevert {
	return HostRevert{base: base{id, bn}, From: from, To: to, Amt: amt, Token: token}
}

func (e HostRevert) Family() Family          { return FamilyTransfer }
func (e HostRevert) Sender() (Address, bool) { return Host(e.From), true }
func (e HostRevert) TokenID() TokenId        { return zeroToken() }
func (e HostRevert) Equal(o Event) bool {
	other, ok := o.(HostRevert)
	return ok && e.ID == other.ID && e.From == other.From && e.To == other.To &&
		amountEqual(e.Amt, other.Amt) && amountEqual(e.Token, other.Token)
}

// HostWithdraw is the final host-side release of locked tokens for a
// guest→host transfer.
type HostWithdraw struct {
	base
	From  GuestAddress
	To    HostAddress
	Amt   Amount
	Token TokenId
}

func NewHostWithdraw(id MessageId, bn BlockNumber, from GuestAddress, to HostAddress, amt, token Amount) HostWithdraw {
	return HostWithdraw{base: base{id, bn}, From: from, To: to, Amt: amt, Token: token}
}

func (e HostWithdraw) Family() Family          { return FamilyTransfer }
func (e HostWithdraw) Sender() (Address, bool) { return Address{}, false }
func (e HostWithdraw) TokenID() TokenId        { return zeroToken() }
func (e HostWithdraw) Equal(o Event) bool {
	other, ok := o.(HostWithdraw)
	return ok && e.ID == other.ID && e.From == other.From && e.To == other.To &&
		amountEqual(e.Amt, other.Amt) && amountEqual(e.Token, other.Token)
}

// GuestRelay is the guest-chain announcement of a guest→host transfer.
type GuestRelay struct {
	base
	From  GuestAddress
	To    HostAddress
	Amt   Amount
	Token TokenId
}

func NewGuestRelay(id MessageId, bn BlockNumber, from GuestAddress, to HostAddress, amt, token Amount) GuestRelay {
	return GuestRelay{base: base{id, bn}, From: from, To: to, Amt: amt, Token: token}
}

func (e GuestRelay) Family() Family          { return FamilyTransfer }
func (e GuestRelay) Sender() (Address, bool) { return Address{}, false }
func (e GuestRelay) TokenID() TokenId        { return zeroToken() }
func (e GuestRelay) Equal(o Event) bool {
	other, ok := o.(GuestRelay)
	return ok && e.ID == other.ID && e.From == other.From && e.To == other.To &&
		amountEqual(e.Amt, other.Amt) && amountEqual(e.Token, other.Token)
}

// GuestApprovedRelay is a GuestRelay that has gathered validator signatures.
type GuestApprovedRelay struct {
	base
	From  GuestAddress
	To    HostAddress
	Amt   Amount
	Token TokenId
}

func NewGuestApprovedRelay(id MessageId, bn BlockNumber, from GuestAddress, to HostAddress, amt, token Amount) GuestApprovedRelay {
	return GuestApprovedRelay{base: base{id, bn}, From: from, To: to, Amt: amt, Token: token}
}

func (e GuestApprovedRelay) Family() Family          { return FamilyTransfer }
func (e GuestApprovedRelay) Sender() (Address, bool) { return Guest(e.From), true }
func (e GuestApprovedRelay) TokenID() TokenId        { return e.Token }
func (e GuestApprovedRelay) Equal(o Event) bool {
	other, ok := o.(GuestApprovedRelay)
	return ok && e.ID == other.ID && e.From == other.From && e.To == other.To &&
		amountEqual(e.Amt, other.Amt) && amountEqual(e.Token, other.Token)
}

// GuestBurned records the redemption (burn) of wrapped tokens on the guest
// chain.
type GuestBurned struct {
	base
	From  GuestAddress
	To    HostAddress
	Amt   Amount
	Token TokenId
}

func NewGuestBurned(id MessageId, bn BlockNumber, from GuestAddress, to HostAddress, amt, token Amount) GuestBurned {
	return GuestBurned{base: base{id, bn}, From: from, To: to, Amt: amt, Token: token}
}

func (e GuestBurned) Family() Family          { return FamilyTransfer }
func (e GuestBurned) Sender() (Address, bool) { return Guest(e.From), true }
func (e GuestBurned) TokenID() TokenId        { return zeroToken() }
func (e GuestBurned) Equal(o Event) bool {
	other, ok := o.(GuestBurned)
	return ok && e.ID == other.ID && e.From == other.From && e.To == other.To &&
		amountEqual(e.Amt, other.Amt) && amountEqual(e.Token, other.Token)
}

// GuestMinted records the issuance (mint) of wrapped tokens on the guest
// chain.
type GuestMinted struct {
	base
	From  HostAddress
	To    GuestAddress
	Amt   Amount
	Token TokenId
}

func NewGuestMinted(id MessageId, bn BlockNumber, from HostAddress, to GuestAddress, amt, token Amount) GuestMinted {
	return GuestMinted{base: base{id, bn}, From: from, To: to, Amt: amt, Token: token}
}

func (e GuestMinted) Family() Family          { return FamilyTransfer }
func (e GuestMinted) Sender() (Address, bool) { return Address{}, false }
func (e GuestMinted) TokenID() TokenId        { return zeroToken() }
func (e GuestMinted) Equal(o Event) bool {
	other, ok := o.(GuestMinted)
	return ok && e.ID == other.ID && e.From == other.From && e.To == other.To &&
		amountEqual(e.Amt, other.Amt) && amountEqual(e.Token, other.Token)
}

// GuestCancellationConfirmed records that the guest chain has confirmed a
// cancellation initiated on the host chain.
type GuestCancellationConfirmed struct {
	base
	From  GuestAddress
	To    HostAddress
	Amt   Amount
	Token TokenId
}

func NewGuestCancellationConfirmed(id MessageId, bn BlockNumber, from GuestAddress, to HostAddress, amt, token Amount) GuestCancellationConfirmed {
	return GuestCancellationConfirmed{base: base{id, bn}, From: from, To: to, Amt: amt, Token: token}
}

func (e GuestCancellationConfirmed) Family() Family          { return FamilyTransfer }
func (e GuestCancellationConfirmed) Sender() (Address, bool) { return Address{}, false }
func (e GuestCancellationConfirmed) TokenID() TokenId        { return zeroToken() }
func (e GuestCancellationConfirmed) Equal(o Event) bool {
	other, ok := o.(GuestCancellationConfirmed)
	return ok && e.ID == other.ID && e.From == other.From && e.To == other.To &&
		amountEqual(e.Amt, other.Amt) && amountEqual(e.Token, other.Token)
}

// --- Bridge-control family --------------------------------------------

// BridgePaused signals the bridge has entered the Paused state.
type BridgePaused struct{ base }

func NewBridgePaused(id MessageId, bn BlockNumber) BridgePaused { return BridgePaused{base{id, bn}} }

func (e BridgePaused) Family() Family          { return FamilyBridgeControl }
func (e BridgePaused) Sender() (Address, bool) { return Address{}, false }
func (e BridgePaused) TokenID() TokenId        { return zeroToken() }
func (e BridgePaused) Equal(o Event) bool {
	other, ok := o.(BridgePaused)
	return ok && e.ID == other.ID
}

// BridgeResumed signals the bridge has returned to Active from Paused.
type BridgeResumed struct{ base }

func NewBridgeResumed(id MessageId, bn BlockNumber) BridgeResumed { return BridgeResumed{base{id, bn}} }

func (e BridgeResumed) Family() Family          { return FamilyBridgeControl }
func (e BridgeResumed) Sender() (Address, bool) { return Address{}, false }
func (e BridgeResumed) TokenID() TokenId        { return zeroToken() }
func (e BridgeResumed) Equal(o Event) bool {
	other, ok := o.(BridgeResumed)
	return ok && e.ID == other.ID
}

// BridgeStarted signals the bridge has become Active for the first time
// (or after a Stop).
type BridgeStarted struct{ base }

func NewBridgeStarted(id MessageId, bn BlockNumber) BridgeStarted { return BridgeStarted{base{id, bn}} }

func (e BridgeStarted) Family() Family          { return FamilyBridgeControl }
func (e BridgeStarted) Sender() (Address, bool) { return Address{}, false }
func (e BridgeStarted) TokenID() TokenId        { return zeroToken() }
func (e BridgeStarted) Equal(o Event) bool {
	other, ok := o.(BridgeStarted)
	return ok && e.ID == other.ID
}

// BridgeStopped signals the bridge has entered the Stopped state.
type BridgeStopped struct{ base }

func NewBridgeStopped(id MessageId, bn BlockNumber) BridgeStopped { return BridgeStopped{base{id, bn}} }

func (e BridgeStopped) Family() Family          { return FamilyBridgeControl }
func (e BridgeStopped) Sender() (Address, bool) { return Address{}, false }
func (e BridgeStopped) TokenID() TokenId        { return zeroToken() }
func (e BridgeStopped) Equal(o Event) bool {
	other, ok := o.(BridgeStopped)
	return ok && e.ID == other.ID
}

// SetNewLimits carries updated per-token transfer limits for the guest side.
type SetNewLimits struct {
	base
	Token   TokenId
	MinAmt  Amount
	MaxAmt  Amount
	PerDay  Amount
}

func NewSetNewLimits(id MessageId, bn BlockNumber, token, minAmt, maxAmt, perDay Amount) SetNewLimits {
	return SetNewLimits{base: base{id, bn}, Token: token, MinAmt: minAmt, MaxAmt: maxAmt, PerDay: perDay}
}

func (e SetNewLimits) Family() Family          { return FamilyBridgeControl }
func (e SetNewLimits) Sender() (Address, bool) { return Address{}, false }
func (e SetNewLimits) TokenID() TokenId        { return zeroToken() }
func (e SetNewLimits) Equal(o Event) bool {
	other, ok := o.(SetNewLimits)
	return ok && e.ID == other.ID && amountEqual(e.Token, other.Token) &&
		amountEqual(e.MinAmt, other.MinAmt) && amountEqual(e.MaxAmt, other.MaxAmt) &&
		amountEqual(e.PerDay, other.PerDay)
}

// ValidatorsList carries the current validator set for guest-side
// signature verification.
type ValidatorsList struct {
	base
	Validators []HostAddress
}

func NewValidatorsList(id MessageId, bn BlockNumber, validators []HostAddress) ValidatorsList {
	return ValidatorsList{base: base{id, bn}, Validators: validators}
}

func (e ValidatorsList) Family() Family          { return FamilyBridgeControl }
func (e ValidatorsList) Sender() (Address, bool) { return Address{}, false }
func (e ValidatorsList) TokenID() TokenId        { return zeroToken() }
func (e ValidatorsList) Equal(o Event) bool {
	other, ok := o.(ValidatorsList)
	if !ok || e.ID != other.ID || len(e.Validators) != len(other.Validators) {
		return false
	}
	for i := range e.Validators {
		if e.Validators[i] != other.Validators[i] {
			return false
		}
	}
	return true
}

// --- Account-control family --------------------------------------------

// HostAccountPaused quarantines a host account.
type HostAccountPaused struct {
	base
	Subject HostAddress
	At      Timestamp
}

func NewHostAccountPaused(id MessageId, bn BlockNumber, subject HostAddress, at Timestamp) HostAccountPaused {
	return HostAccountPaused{base: base{id, bn}, Subject: subject, At: at}
}

func (e HostAccountPaused) Family() Family          { return FamilyAccountControl }
func (e HostAccountPaused) Sender() (Address, bool) { return Address{}, false }
func (e HostAccountPaused) TokenID() TokenId        { return zeroToken() }
func (e HostAccountPaused) Equal(o Event) bool {
	other, ok := o.(HostAccountPaused)
	return ok && e.ID == other.ID && e.Subject == other.Subject && e.At == other.At
}

// HostAccountResumed lifts quarantine from a host account.
type HostAccountResumed struct {
	base
	Subject HostAddress
	At      Timestamp
}

func NewHostAccountResumed(id MessageId, bn BlockNumber, subject HostAddress, at Timestamp) HostAccountResumed {
	return HostAccountResumed{base: base{id, bn}, Subject: subject, At: at}
}

func (e HostAccountResumed) Family() Family          { return FamilyAccountControl }
func (e HostAccountResumed) Sender() (Address, bool) { return Address{}, false }
func (e HostAccountResumed) TokenID() TokenId        { return zeroToken() }
func (e HostAccountResumed) Equal(o Event) bool {
	other, ok := o.(HostAccountResumed)
	return ok && e.ID == other.ID && e.Subject == other.Subject && e.At == other.At
}

// GuestAccountPaused quarantines a guest account.
type GuestAccountPaused struct {
	base
	Subject GuestAddress
	At      Timestamp
}

func NewGuestAccountPaused(id MessageId, bn BlockNumber, subject GuestAddress, at Timestamp) GuestAccountPaused {
	return GuestAccountPaused{base: base{id, bn}, Subject: subject, At: at}
}

func (e GuestAccountPaused) Family() Family          { return FamilyAccountControl }
func (e GuestAccountPaused) Sender() (Address, bool) { return Address{}, false }
func (e GuestAccountPaused) TokenID() TokenId        { return zeroToken() }
func (e GuestAccountPaused) Equal(o Event) bool {
	other, ok := o.(GuestAccountPaused)
	return ok && e.ID == other.ID && e.Subject == other.Subject && e.At == other.At
}

// GuestAccountResumed lifts quarantine from a guest account.
type GuestAccountResumed struct {
	base
	Subject GuestAddress
	At      Timestamp
}

func NewGuestAccountResumed(id MessageId, bn BlockNumber, subject GuestAddress, at Timestamp) GuestAccountResumed {
	return GuestAccountResumed{base: base{id, bn}, Subject: subject, At: at}
}

func (e GuestAccountResumed) Family() Family          { return FamilyAccountControl }
func (e GuestAccountResumed) Sender() (Address, bool) { return Address{}, false }
func (e GuestAccountResumed) TokenID() TokenId        { return zeroToken() }
func (e GuestAccountResumed) Equal(o Event) bool {
	other, ok := o.(GuestAccountResumed)
	return ok && e.ID == other.ID && e.Subject == other.Subject && e.At == other.At
}

// --- Oracle family -------------------------------------------------------

// OraclePrice carries a fresh price observation. Its message id is always
// zero (spec.md §9 Open Question 4), so every tick lands in the same dedup
// slot: a tick whose symbol and price equal the stored one is dropped as a
// duplicate, and any other tick overwrites the slot and is emitted.
type OraclePrice struct {
	base
	Symbol      string
	PriceScaled Amount // 18-decimal fixed point
}

func NewOraclePrice(bn BlockNumber, symbol string, priceScaled Amount) OraclePrice {
	return OraclePrice{base: base{ZeroMessageId, bn}, Symbol: symbol, PriceScaled: priceScaled}
}

func (e OraclePrice) Family() Family          { return FamilyOracle }
func (e OraclePrice) Sender() (Address, bool) { return Address{}, false }
func (e OraclePrice) TokenID() TokenId        { return zeroToken() }
func (e OraclePrice) Equal(o Event) bool {
	other, ok := o.(OraclePrice)
	return ok && e.Symbol == other.Symbol && amountEqual(e.PriceScaled, other.PriceScaled)
}
