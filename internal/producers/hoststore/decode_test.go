package hoststore

import (
	"testing"
	"time"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
)

func TestDecodeTransferKnownCombinations(t *testing.T) {
	cases := []struct {
		status, direction string
		want              bridgemodel.Event
	}{
		{"PENDING", "HOST_TO_GUEST", bridgemodel.HostRelay{}},
		{"APPROVED", "HOST_TO_GUEST", bridgemodel.HostApprovedRelay{}},
		{"CANCELED", "HOST_TO_GUEST", bridgemodel.HostRevert{}},
		{"WITHDRAW", "GUEST_TO_HOST", bridgemodel.HostWithdraw{}},
		{"UNKNOWN", "UNKNOWN", bridgemodel.HostApprovedRelay{}},
	}
	for _, c := range cases {
		r := transferRecord{
			MessageID: "0x01", BlockNumber: 5, Status: c.status, Direction: c.direction,
			From: "0x0000000000000000000000000000000000000001",
			To:   "0x0000000000000000000000000000000000000000000000000000000000000002",
			Amount: "100", TokenID: "1",
		}
		got := decodeTransfer(r)
		if got.Family() != c.want.Family() {
			t.Fatalf("status=%s direction=%s: got family %v, want %T's family", c.status, c.direction, got.Family(), c.want)
		}
	}
}

func TestDecodeBridgeFallsBackToPaused(t *testing.T) {
	got := decodeBridge(bridgeRecord{MessageID: "0x02", BlockNumber: 1, Kind: "GARBAGE"})
	if _, ok := got.(bridgemodel.BridgePaused); !ok {
		t.Fatalf("expected fallback to BridgePaused, got %T", got)
	}
}

func TestDecodeAccountDirections(t *testing.T) {
	host := decodeAccount(accountRecord{MessageID: "0x03", Kind: "PAUSE", Direction: "HOST", Address: "0x0000000000000000000000000000000000000001"})
	if _, ok := host.(bridgemodel.HostAccountPaused); !ok {
		t.Fatalf("expected HostAccountPaused, got %T", host)
	}
	guest := decodeAccount(accountRecord{MessageID: "0x04", Kind: "RESUME", Direction: "GUEST", Address: "0x01"})
	if _, ok := guest.(bridgemodel.GuestAccountResumed); !ok {
		t.Fatalf("expected GuestAccountResumed, got %T", guest)
	}
}

func TestStartOfUTCDay(t *testing.T) {
	ts := time.Date(2026, 7, 31, 14, 22, 0, 0, time.UTC)
	want := uint64(time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC).Unix())
	if got := startOfUTCDay(ts); got != want {
		t.Fatalf("startOfUTCDay(%v) = %d, want %d", ts, got, want)
	}
}

func TestParseHostAddressRoundTrip(t *testing.T) {
	a := parseHostAddress("0x0000000000000000000000000000000000000001")
	if a.Hex() != "0x0000000000000000000000000000000000000001" {
		t.Fatalf("unexpected address: %s", a.Hex())
	}
}
