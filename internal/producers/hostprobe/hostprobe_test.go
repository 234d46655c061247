package hostprobe

import (
	"testing"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
)

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code uint8
		want bridgemodel.Family
	}{
		{0, bridgemodel.FamilyBridgeControl},
		{1, bridgemodel.FamilyBridgeControl},
		{9, bridgemodel.FamilyBridgeControl},
	}
	for _, c := range cases {
		e := statusEventForCode(c.code)
		if e.Family() != c.want {
			t.Fatalf("code %d: got family %v", c.code, e.Family())
		}
		if !e.MessageID().IsZero() {
			t.Fatalf("code %d: expected zero message id", c.code)
		}
	}

	if _, ok := statusEventForCode(0).(bridgemodel.BridgeStarted); !ok {
		t.Fatal("code 0 should map to BridgeStarted")
	}
	if _, ok := statusEventForCode(1).(bridgemodel.BridgePaused); !ok {
		t.Fatal("code 1 should map to BridgePaused")
	}
	if _, ok := statusEventForCode(2).(bridgemodel.BridgeStopped); !ok {
		t.Fatal("code 2 (other) should map to BridgeStopped")
	}
}
