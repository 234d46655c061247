package hoststore

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
	"github.com/obscura-network/bridge-relayer/internal/httpfetch"
)

const pollInterval = 1 * time.Second

// unfinalizedStatuses is the set of transfer statuses the cold-start
// procedure replays, since a daemon that exited mid-flight may have
// observed these but not yet driven them to a terminal on-chain state.
var unfinalizedStatuses = []string{"PENDING", "WITHDRAW", "APPROVED", "CANCELED"}

// offsets tracks the per-category blockNumber watermark the steady-state
// loop resumes from; each category advances independently (spec.md §4.4.1).
type offsets struct {
	transfer uint64
	bridge   uint64
	account  uint64
	limit    uint64
}

// Poller runs the indexed-store producer: a cold-start backfill followed
// by a 1-second steady-state tick, both emitting onto out.
type Poller struct {
	client *queryClient
	out    chan<- bridgemodel.Event
	off    offsets
}

// New builds a Poller against the indexed store reachable at url.
func New(url string, httpClient *httpfetch.Client, out chan<- bridgemodel.Event) *Poller {
	return &Poller{client: newQueryClient(url, httpClient), out: out}
}

// Run executes the cold-start procedure once, then the steady-state loop
// until ctx is canceled.
func (p *Poller) Run(ctx context.Context) {
	if err := p.coldStart(ctx); err != nil {
		log.Error().Err(err).Msg("hoststore: cold start failed")
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// coldStart runs the three-step restart procedure from spec.md §4.4.1:
// blocked-account backfill, offset initialization, unfinalized-transfer
// backfill.
func (p *Poller) coldStart(ctx context.Context) error {
	if err := p.backfillBlockedAccounts(ctx); err != nil {
		return err
	}
	if err := p.initOffsets(ctx); err != nil {
		return err
	}
	return p.backfillUnfinalized(ctx)
}

// startOfUTCDay returns the Unix-seconds start of the UTC day containing
// t, matching spec.md §4.4.1's floor(now / 86400) * 86400.
func startOfUTCDay(t time.Time) uint64 {
	sec := uint64(t.Unix())
	return (sec / 86400) * 86400
}

func (p *Poller) backfillBlockedAccounts(ctx context.Context) error {
	recs, err := p.client.allAccounts(ctx, "BLOCKED")
	if err != nil {
		return err
	}
	dayStart := startOfUTCDay(time.Now().UTC())
	for _, r := range recs {
		if r.Timestamp < dayStart {
			continue
		}
		p.emit(decodeAccount(r))
	}
	return nil
}

func (p *Poller) initOffsets(ctx context.Context) error {
	if max, ok, err := p.client.maxBlockNumberOfMessages(ctx, "maxBlockNumberOfMessages", p.off.transfer); err != nil {
		return err
	} else if ok {
		p.off.transfer = max
	}
	if max, ok, err := p.client.maxBlockNumberOfMessages(ctx, "maxBlockNumberOfBridgeMessages", p.off.bridge); err != nil {
		return err
	} else if ok {
		p.off.bridge = max
	}
	if max, ok, err := p.client.maxBlockNumberOfMessages(ctx, "maxBlockNumberOfAccountMessages", p.off.account); err != nil {
		return err
	} else if ok {
		p.off.account = max
	}
	if max, ok, err := p.client.maxBlockNumberOfMessages(ctx, "maxBlockNumberOfLimitMessages", p.off.limit); err != nil {
		return err
	} else if ok {
		p.off.limit = max
	}
	return nil
}

func (p *Poller) backfillUnfinalized(ctx context.Context) error {
	var recs []transferRecord
	for _, status := range unfinalizedStatuses {
		batch, err := p.client.messagesByStatus(ctx, status)
		if err != nil {
			return err
		}
		recs = append(recs, batch...)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].BlockNumber < recs[j].BlockNumber })
	for _, r := range recs {
		p.emit(decodeTransfer(r))
	}
	return nil
}

// pollResult pairs a decoded event with its source blockNumber so the four
// category results can be merged into one block-ordered stream.
type pollResult struct {
	blockNumber uint64
	event       bridgemodel.Event
}

func (p *Poller) tick(ctx context.Context) {
	var results []pollResult

	transfers, err := p.client.allMessages(ctx, p.off.transfer)
	if err != nil {
		log.Warn().Err(err).Msg("hoststore: transfer poll failed, retrying next tick")
	} else {
		for _, r := range transfers {
			if r.BlockNumber > p.off.transfer {
				p.off.transfer = r.BlockNumber
			}
			results = append(results, pollResult{r.BlockNumber, decodeTransfer(r)})
		}
	}

	bridges, err := p.client.allBridgeMessages(ctx, p.off.bridge)
	if err != nil {
		log.Warn().Err(err).Msg("hoststore: bridge poll failed, retrying next tick")
	} else {
		for _, r := range bridges {
			if r.BlockNumber > p.off.bridge {
				p.off.bridge = r.BlockNumber
			}
			results = append(results, pollResult{r.BlockNumber, decodeBridge(r)})
		}
	}

	accounts, err := p.client.allAccountMessages(ctx, p.off.account)
	if err != nil {
		log.Warn().Err(err).Msg("hoststore: account poll failed, retrying next tick")
	} else {
		for _, r := range accounts {
			if r.BlockNumber > p.off.account {
				p.off.account = r.BlockNumber
			}
			results = append(results, pollResult{r.BlockNumber, decodeAccount(r)})
		}
	}

	limits, err := p.client.allLimitMessages(ctx, p.off.limit)
	if err != nil {
		log.Warn().Err(err).Msg("hoststore: limit poll failed, retrying next tick")
	} else {
		for _, r := range limits {
			if r.BlockNumber > p.off.limit {
				p.off.limit = r.BlockNumber
			}
			results = append(results, pollResult{r.BlockNumber, decodeLimit(r)})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].blockNumber < results[j].blockNumber })
	for _, r := range results {
		p.emit(r.event)
	}
}

func (p *Poller) emit(e bridgemodel.Event) {
	p.out <- e
}
