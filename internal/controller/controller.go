// Package controller implements the relayer's event gating state machine:
// dedup, bridge status transitions, and per-account quarantine, driven off
// an inbox channel fed by the producers and writing accepted events onto an
// outbox channel consumed by the executor.
package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
	"github.com/obscura-network/bridge-relayer/internal/controllerstore"
)

// Status is the bridge's gating state.
type Status int

const (
	StatusNotReady Status = iota
	StatusActive
	StatusPaused
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	case StatusStopped:
		return "stopped"
	default:
		return "not_ready"
	}
}

// Controller is the sole owner of a controllerstore.Store: the store must
// not be touched by any other goroutine once a Controller is running.
// status is guarded by mu so that Status() can be polled concurrently
// (the status HTTP surface does this) while Run's own goroutine mutates it.
type Controller struct {
	mu     sync.RWMutex
	status Status
	store  *controllerstore.Store
	outbox chan<- bridgemodel.Event
}

// New builds a Controller in the initial NotReady state.
func New(store *controllerstore.Store, outbox chan<- bridgemodel.Event) *Controller {
	return &Controller{
		status: StatusNotReady,
		store:  store,
		outbox: outbox,
	}
}

// Status reports the current gating state. Safe to call from any goroutine.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Controller) setStatus(s Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = s
}

// Run consumes inbox until ctx is canceled or inbox is closed by every
// producer finishing. There is no retry. Sends on outbox are plain
// blocking sends: if the executor stops reading, the controller blocks
// once the outbox buffer is full; it does not detect this or panic. A
// storage error does panic, which is this component's fatal-error path.
func (c *Controller) Run(ctx context.Context, inbox <-chan bridgemodel.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-inbox:
			if !ok {
				return
			}
			c.handle(e)
		}
	}
}

// handle runs the decision procedure for a single event.
func (c *Controller) handle(e bridgemodel.Event) {
	res, err := c.store.PutEvent(e)
	if err != nil {
		panic(fmt.Sprintf("controller: putEvent: %v", err))
	}
	if res == controllerstore.Duplicate {
		log.Debug().
			Str("message_id", e.MessageID().String()).
			Str("family", e.Family().String()).
			Msg("controller: duplicate event dropped")
		return
	}

	cur := c.Status()
	if next := transition(cur, e); next != cur {
		log.Info().
			Str("from", cur.String()).
			Str("to", next.String()).
			Str("message_id", e.MessageID().String()).
			Msg("controller: status transition")
		c.setStatus(next)
		cur = next
	}

	if cur != StatusActive {
		if err := c.store.EnqueueGlobal(e); err != nil {
			panic(fmt.Sprintf("controller: enqueueGlobal: %v", err))
		}
		return
	}

	// 3a: apply the triggering event's own account-control effect first.
	c.handleAccountControl(e)

	// 3b: drain whatever the global queue holds now (which may include
	// the account queue 3a just moved into it), replaying account-control
	// for each queued item in arrival order before emitting it.
	drained, err := c.store.DrainGlobal()
	if err != nil {
		panic(fmt.Sprintf("controller: drainGlobal: %v", err))
	}
	for _, q := range drained {
		c.handleAccountControl(q)
		c.emit(q)
	}
	if err := c.store.ClearGlobal(); err != nil {
		panic(fmt.Sprintf("controller: clearGlobal: %v", err))
	}

	// 3c: the triggering event itself, last.
	if e.Family() == bridgemodel.FamilyTransfer {
		if sender, ok := e.Sender(); ok {
			blocked, err := c.store.IsBlocked(sender)
			if err != nil {
				panic(fmt.Sprintf("controller: isBlocked: %v", err))
			}
			if blocked {
				if err := c.store.EnqueueAccount(sender, e); err != nil {
					panic(fmt.Sprintf("controller: enqueueAccount: %v", err))
				}
				return
			}
		}
	}
	c.emit(e)
}

func (c *Controller) emit(e bridgemodel.Event) {
	c.outbox <- e
}

// handleAccountControl updates the quarantine map for account-control
// events; every other event kind is a no-op.
func (c *Controller) handleAccountControl(e bridgemodel.Event) {
	switch v := e.(type) {
	case bridgemodel.HostAccountPaused:
		c.mustBlock(bridgemodel.Host(v.Subject))
	case bridgemodel.HostAccountResumed:
		c.mustUnblock(bridgemodel.Host(v.Subject))
	case bridgemodel.GuestAccountPaused:
		c.mustBlock(bridgemodel.Guest(v.Subject))
	case bridgemodel.GuestAccountResumed:
		c.mustUnblock(bridgemodel.Guest(v.Subject))
	}
}

func (c *Controller) mustBlock(a bridgemodel.Address) {
	if err := c.store.BlockAccount(a); err != nil {
		panic(fmt.Sprintf("controller: blockAccount: %v", err))
	}
}

func (c *Controller) mustUnblock(a bridgemodel.Address) {
	if err := c.store.UnblockAccount(a); err != nil {
		panic(fmt.Sprintf("controller: unblockAccount: %v", err))
	}
}

// transition applies the status transition table. Unlisted combinations
// leave status unchanged.
func transition(cur Status, e bridgemodel.Event) Status {
	switch e.(type) {
	case bridgemodel.BridgePaused:
		if cur == StatusActive {
			return StatusPaused
		}
	case bridgemodel.BridgeStopped:
		if cur == StatusActive {
			return StatusStopped
		}
	case bridgemodel.BridgeResumed:
		if cur == StatusNotReady || cur == StatusPaused {
			return StatusActive
		}
	case bridgemodel.BridgeStarted:
		if cur == StatusNotReady || cur == StatusPaused || cur == StatusStopped {
			return StatusActive
		}
	}
	return cur
}
