package hoststore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/obscura-network/bridge-relayer/internal/httpfetch"
)

// gqlRequest is the literal POST-JSON body for a GraphQL query. No GraphQL
// client library appears anywhere in the retrieval pack, so queries are
// issued as plain JSON over net/http, the same way adapters/external.go
// builds ad hoc HTTP requests rather than reaching for a generated client.
type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlErrors []struct {
	Message string `json:"message"`
}

// queryClient issues the parameterized queries spec.md §6 names
// against an indexed event store's GraphQL endpoint.
type queryClient struct {
	http *httpfetch.Client
	url  string
}

func newQueryClient(url string, http *httpfetch.Client) *queryClient {
	return &queryClient{http: http, url: url}
}

func (q *queryClient) query(ctx context.Context, gql string, vars map[string]any, out any) error {
	var env struct {
		Data   json.RawMessage `json:"data"`
		Errors gqlErrors       `json:"errors"`
	}
	if err := q.http.PostJSON(ctx, q.url, gqlRequest{Query: gql, Variables: vars}, &env); err != nil {
		return fmt.Errorf("hoststore: query: %w", err)
	}
	if len(env.Errors) > 0 {
		return fmt.Errorf("hoststore: indexed store returned errors: %s", env.Errors[0].Message)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("hoststore: decode data: %w", err)
	}
	return nil
}

func (q *queryClient) maxBlockNumberOfMessages(ctx context.Context, gqlName string, after uint64) (uint64, bool, error) {
	var resp struct {
		Result *uint64 `json:"result"`
	}
	// The field name under "data" mirrors gqlName (e.g. "maxBlockNumberOfMessages").
	wrapper := fmt.Sprintf(`query($after: Int!) { result: %s(blockNumberGreaterThan: $after) }`, gqlName)
	if err := q.query(ctx, wrapper, map[string]any{"after": after}, &resp); err != nil {
		return after, false, err
	}
	if resp.Result == nil {
		return after, false, nil
	}
	return *resp.Result, true, nil
}

func (q *queryClient) allMessages(ctx context.Context, after uint64) ([]transferRecord, error) {
	var resp struct {
		Result []transferRecord `json:"result"`
	}
	gql := `query($after: Int!) { result: allMessages(blockNumberGreaterThan: $after) { messageId blockNumber status direction from to amount tokenId } }`
	err := q.query(ctx, gql, map[string]any{"after": after}, &resp)
	return resp.Result, err
}

func (q *queryClient) allBridgeMessages(ctx context.Context, after uint64) ([]bridgeRecord, error) {
	var resp struct {
		Result []bridgeRecord `json:"result"`
	}
	gql := `query($after: Int!) { result: allBridgeMessages(blockNumberGreaterThan: $after) { messageId blockNumber kind } }`
	err := q.query(ctx, gql, map[string]any{"after": after}, &resp)
	return resp.Result, err
}

func (q *queryClient) allAccountMessages(ctx context.Context, after uint64) ([]accountRecord, error) {
	var resp struct {
		Result []accountRecord `json:"result"`
	}
	gql := `query($after: Int!) { result: allAccountMessages(blockNumberGreaterThan: $after) { messageId blockNumber kind direction address timestamp status } }`
	err := q.query(ctx, gql, map[string]any{"after": after}, &resp)
	return resp.Result, err
}

func (q *queryClient) allLimitMessages(ctx context.Context, after uint64) ([]limitRecord, error) {
	var resp struct {
		Result []limitRecord `json:"result"`
	}
	gql := `query($after: Int!) { result: allLimitMessages(blockNumberGreaterThan: $after) { messageId blockNumber tokenId minAmount maxAmount perDayLimit } }`
	err := q.query(ctx, gql, map[string]any{"after": after}, &resp)
	return resp.Result, err
}

func (q *queryClient) messagesByStatus(ctx context.Context, status string) ([]transferRecord, error) {
	var resp struct {
		Result []transferRecord `json:"result"`
	}
	gql := `query($status: String!) { result: messagesByStatus(status: $status) { messageId blockNumber status direction from to amount tokenId } }`
	err := q.query(ctx, gql, map[string]any{"status": status}, &resp)
	return resp.Result, err
}

// allAccounts returns every accountRecord currently in status (used by the
// blocked-account backfill, which filters to status "BLOCKED").
func (q *queryClient) allAccounts(ctx context.Context, status string) ([]accountRecord, error) {
	var resp struct {
		Result []accountRecord `json:"result"`
	}
	gql := `query($status: String!) { result: allAccounts(status: $status) { messageId blockNumber kind direction address timestamp status } }`
	err := q.query(ctx, gql, map[string]any{"status": status}, &resp)
	return resp.Result, err
}
