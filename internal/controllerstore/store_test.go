package controllerstore

import (
	"math/big"
	"testing"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleHostRelay(id byte) bridgemodel.Event {
	var mid bridgemodel.MessageId
	mid[31] = id
	return bridgemodel.NewHostRelay(
		mid,
		bridgemodel.NewBlockNumber(100),
		bridgemodel.HostAddress{},
		bridgemodel.GuestAddress{},
		big.NewInt(1000),
		big.NewInt(1),
	)
}

func TestPutEventOkThenDuplicate(t *testing.T) {
	s := newTestStore(t)
	e := sampleHostRelay(1)

	res, err := s.PutEvent(e)
	if err != nil {
		t.Fatalf("PutEvent: %v", err)
	}
	if res != Ok {
		t.Fatalf("first PutEvent: got %v, want Ok", res)
	}

	res, err = s.PutEvent(e)
	if err != nil {
		t.Fatalf("PutEvent: %v", err)
	}
	if res != Duplicate {
		t.Fatalf("second PutEvent: got %v, want Duplicate", res)
	}
}

func TestPutEventPayloadDifferingCollisionOverwritesAsOk(t *testing.T) {
	s := newTestStore(t)
	var mid bridgemodel.MessageId
	mid[31] = 7

	e1 := bridgemodel.NewHostRelay(mid, bridgemodel.NewBlockNumber(1), bridgemodel.HostAddress{}, bridgemodel.GuestAddress{}, big.NewInt(1), big.NewInt(1))
	e2 := bridgemodel.NewHostRelay(mid, bridgemodel.NewBlockNumber(1), bridgemodel.HostAddress{}, bridgemodel.GuestAddress{}, big.NewInt(2), big.NewInt(1))

	if res, err := s.PutEvent(e1); err != nil || res != Ok {
		t.Fatalf("PutEvent(e1): %v, %v", res, err)
	}
	res, err := s.PutEvent(e2)
	if err != nil {
		t.Fatalf("PutEvent(e2): %v", err)
	}
	if res != Ok {
		t.Fatalf("payload-differing collision: got %v, want Ok (treated as new)", res)
	}
}

func TestGlobalQueueFIFO(t *testing.T) {
	s := newTestStore(t)
	for i := byte(1); i <= 5; i++ {
		if err := s.EnqueueGlobal(sampleHostRelay(i)); err != nil {
			t.Fatalf("EnqueueGlobal: %v", err)
		}
	}

	drained, err := s.DrainGlobal()
	if err != nil {
		t.Fatalf("DrainGlobal: %v", err)
	}
	if len(drained) != 5 {
		t.Fatalf("got %d events, want 5", len(drained))
	}
	for i, e := range drained {
		want := sampleHostRelay(byte(i + 1)).MessageID()
		if e.MessageID() != want {
			t.Fatalf("event %d: got id %s, want %s", i, e.MessageID(), want)
		}
	}

	if err := s.ClearGlobal(); err != nil {
		t.Fatalf("ClearGlobal: %v", err)
	}
	drained, err = s.DrainGlobal()
	if err != nil {
		t.Fatalf("DrainGlobal after clear: %v", err)
	}
	if len(drained) != 0 {
		t.Fatalf("got %d events after clear, want 0", len(drained))
	}
}

func TestBlockAccountIdempotent(t *testing.T) {
	s := newTestStore(t)
	addr := bridgemodel.Host(bridgemodel.HostAddress{0x1})

	if err := s.BlockAccount(addr); err != nil {
		t.Fatalf("BlockAccount: %v", err)
	}
	if err := s.BlockAccount(addr); err != nil {
		t.Fatalf("BlockAccount (second): %v", err)
	}

	blocked, err := s.IsBlocked(addr)
	if err != nil {
		t.Fatalf("IsBlocked: %v", err)
	}
	if !blocked {
		t.Fatal("expected account to be blocked")
	}
}

func TestUnblockUnknownAccountIsNoop(t *testing.T) {
	s := newTestStore(t)
	addr := bridgemodel.Host(bridgemodel.HostAddress{0x2})

	if err := s.UnblockAccount(addr); err != nil {
		t.Fatalf("UnblockAccount on unknown account: %v", err)
	}
	blocked, err := s.IsBlocked(addr)
	if err != nil {
		t.Fatalf("IsBlocked: %v", err)
	}
	if blocked {
		t.Fatal("expected unknown account to remain unblocked")
	}
}

func TestUnblockAccountReplaysQueueOntoGlobalInOrder(t *testing.T) {
	s := newTestStore(t)
	addr := bridgemodel.Host(bridgemodel.HostAddress{0x3})

	if err := s.BlockAccount(addr); err != nil {
		t.Fatalf("BlockAccount: %v", err)
	}
	for i := byte(1); i <= 3; i++ {
		if err := s.EnqueueAccount(addr, sampleHostRelay(i)); err != nil {
			t.Fatalf("EnqueueAccount: %v", err)
		}
	}
	// A global-queue event enqueued strictly after the unblock must come
	// after the replayed account queue (spec.md §8 law 4).
	if err := s.UnblockAccount(addr); err != nil {
		t.Fatalf("UnblockAccount: %v", err)
	}
	if err := s.EnqueueGlobal(sampleHostRelay(99)); err != nil {
		t.Fatalf("EnqueueGlobal: %v", err)
	}

	drained, err := s.DrainGlobal()
	if err != nil {
		t.Fatalf("DrainGlobal: %v", err)
	}
	if len(drained) != 4 {
		t.Fatalf("got %d events, want 4", len(drained))
	}
	for i, e := range drained[:3] {
		want := sampleHostRelay(byte(i + 1)).MessageID()
		if e.MessageID() != want {
			t.Fatalf("replayed event %d: got id %s, want %s", i, e.MessageID(), want)
		}
	}
	if drained[3].MessageID() != sampleHostRelay(99).MessageID() {
		t.Fatal("post-unblock global event did not land after the replayed queue")
	}

	blocked, err := s.IsBlocked(addr)
	if err != nil {
		t.Fatalf("IsBlocked: %v", err)
	}
	if blocked {
		t.Fatal("account should be unblocked")
	}
}
