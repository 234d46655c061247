package hoststore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
	"github.com/obscura-network/bridge-relayer/internal/httpfetch"
)

// gqlHandler dispatches on a substring of the query text, matching the
// "result: <fieldName>(...)" shape every query in client.go emits.
type gqlHandler func(query string, vars map[string]any) any

func newGQLServer(t *testing.T, h gqlHandler) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		result := h(req.Query, req.Variables)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"result": result}})
	}))
}

func TestPollerBackfillBlockedAccountsFiltersToToday(t *testing.T) {
	today := startOfUTCDay(time.Now().UTC())
	srv := newGQLServer(t, func(query string, vars map[string]any) any {
		if !strings.Contains(query, "allAccounts") {
			t.Fatalf("unexpected query: %s", query)
		}
		return []accountRecord{
			{MessageID: "0x01", Kind: "PAUSE", Direction: "HOST", Address: "0x0000000000000000000000000000000000000001", Timestamp: today + 10},
			{MessageID: "0x02", Kind: "PAUSE", Direction: "HOST", Address: "0x0000000000000000000000000000000000000002", Timestamp: today - 1000},
		}
	})
	defer srv.Close()

	out := make(chan bridgemodel.Event, 8)
	p := New(srv.URL, httpfetch.New(5*time.Second, 1), out)

	if err := p.backfillBlockedAccounts(context.Background()); err != nil {
		t.Fatalf("backfillBlockedAccounts: %v", err)
	}
	close(out)

	var got []bridgemodel.Event
	for e := range out {
		got = append(got, e)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 emitted event (filtered to today), got %d", len(got))
	}
}

func TestPollerInitOffsetsSetsAllFourCategories(t *testing.T) {
	srv := newGQLServer(t, func(query string, vars map[string]any) any {
		switch {
		case strings.Contains(query, "maxBlockNumberOfBridgeMessages"):
			n := uint64(20)
			return n
		case strings.Contains(query, "maxBlockNumberOfAccountMessages"):
			n := uint64(30)
			return n
		case strings.Contains(query, "maxBlockNumberOfLimitMessages"):
			n := uint64(40)
			return n
		case strings.Contains(query, "maxBlockNumberOfMessages"):
			n := uint64(10)
			return n
		}
		t.Fatalf("unexpected query: %s", query)
		return nil
	})
	defer srv.Close()

	out := make(chan bridgemodel.Event, 1)
	p := New(srv.URL, httpfetch.New(5*time.Second, 1), out)

	if err := p.initOffsets(context.Background()); err != nil {
		t.Fatalf("initOffsets: %v", err)
	}
	if p.off.transfer != 10 || p.off.bridge != 20 || p.off.account != 30 || p.off.limit != 40 {
		t.Fatalf("unexpected offsets: %+v", p.off)
	}
}

func TestPollerBackfillUnfinalizedSortsByBlockNumber(t *testing.T) {
	srv := newGQLServer(t, func(query string, vars map[string]any) any {
		status, _ := vars["status"].(string)
		switch status {
		case "PENDING":
			return []transferRecord{{MessageID: "0x03", BlockNumber: 30, Status: "PENDING", Direction: "HOST_TO_GUEST", From: "0x0000000000000000000000000000000000000001", To: "0x01", Amount: "1", TokenID: "1"}}
		case "WITHDRAW":
			return []transferRecord{{MessageID: "0x01", BlockNumber: 10, Status: "WITHDRAW", Direction: "GUEST_TO_HOST", From: "0x01", To: "0x0000000000000000000000000000000000000001", Amount: "1", TokenID: "1"}}
		default:
			return []transferRecord{}
		}
	})
	defer srv.Close()

	out := make(chan bridgemodel.Event, 8)
	p := New(srv.URL, httpfetch.New(5*time.Second, 1), out)

	if err := p.backfillUnfinalized(context.Background()); err != nil {
		t.Fatalf("backfillUnfinalized: %v", err)
	}
	close(out)

	var blocks []uint64
	for e := range out {
		blocks = append(blocks, e.BlockNumber().Uint64())
	}
	if len(blocks) != 2 || blocks[0] != 10 || blocks[1] != 30 {
		t.Fatalf("expected block-number-sorted [10 30], got %v", blocks)
	}
}

func TestPollerTickAdvancesOffsetsAndSkipsFailingCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(req.Query, "allMessages"):
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"result": []transferRecord{
				{MessageID: "0x05", BlockNumber: 50, Status: "PENDING", Direction: "HOST_TO_GUEST", From: "0x0000000000000000000000000000000000000001", To: "0x01", Amount: "1", TokenID: "1"},
			}}})
		case strings.Contains(req.Query, "allBridgeMessages"):
			json.NewEncoder(w).Encode(map[string]any{"errors": []map[string]string{{"message": "boom"}}})
		case strings.Contains(req.Query, "allAccountMessages"):
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"result": []accountRecord{}}})
		case strings.Contains(req.Query, "allLimitMessages"):
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"result": []limitRecord{}}})
		}
	}))
	defer srv.Close()

	out := make(chan bridgemodel.Event, 8)
	p := New(srv.URL, httpfetch.New(5*time.Second, 1), out)
	p.tick(context.Background())
	close(out)

	var got []bridgemodel.Event
	for e := range out {
		got = append(got, e)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event emitted, got %d", len(got))
	}
	if p.off.transfer != 50 {
		t.Fatalf("expected transfer offset advanced to 50, got %d", p.off.transfer)
	}
	if p.off.bridge != 0 {
		t.Fatalf("expected bridge offset untouched on query failure, got %d", p.off.bridge)
	}
}
