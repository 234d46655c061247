// Command relayer is the bridge relayer daemon entrypoint: it loads
// configuration, wires the four producers into the Controller and the
// Controller into the Executor, and runs until signaled to stop. There
// are no command-line flags (spec.md §6): the binary is a pure daemon.
package main

import (
	"context"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
	"github.com/obscura-network/bridge-relayer/internal/chainio"
	"github.com/obscura-network/bridge-relayer/internal/config"
	"github.com/obscura-network/bridge-relayer/internal/controller"
	"github.com/obscura-network/bridge-relayer/internal/controllerstore"
	"github.com/obscura-network/bridge-relayer/internal/executor"
	"github.com/obscura-network/bridge-relayer/internal/httpfetch"
	"github.com/obscura-network/bridge-relayer/internal/producers/guestsub"
	"github.com/obscura-network/bridge-relayer/internal/producers/hoststore"
	"github.com/obscura-network/bridge-relayer/internal/producers/hostprobe"
	"github.com/obscura-network/bridge-relayer/internal/producers/oraclefeed"
	"github.com/obscura-network/bridge-relayer/internal/relaylog"
	"github.com/obscura-network/bridge-relayer/internal/status"
)

const (
	eventChanCapacity = 256
	executorPoolSize  = 8
)

func main() {
	relaylog.Init(os.Getenv("RELAYER_DEBUG") != "")
	log.Info().Msg("relayer: starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("relayer: configuration failed to load")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := controllerstore.New()
	if err != nil {
		log.Fatal().Err(err).Msg("relayer: failed to construct controller storage")
	}
	defer store.Close()

	inbox := make(chan bridgemodel.Event, eventChanCapacity)
	outbox := make(chan bridgemodel.Event, eventChanCapacity)

	ctrl := controller.New(store, outbox)
	statusSrv := status.New(cfg.StatusListenAddr)

	host, guest := mustBuildChainClients(ctx, cfg)
	pool := executor.NewPool(executorPoolSize, 0)
	exec := executor.New(host, guest, pool)

	runProducers(ctx, cfg, inbox)

	go func() {
		log.Info().Msg("relayer: controller running")
		ctrl.Run(ctx, inbox)
		log.Warn().Msg("relayer: controller stopped")
	}()
	go func() {
		log.Info().Msg("relayer: executor running")
		exec.Run(ctx, outbox)
		log.Warn().Msg("relayer: executor stopped")
	}()
	go func() {
		if err := statusSrv.Run(ctx); err != nil {
			log.Error().Err(err).Msg("relayer: status server exited")
		}
	}()
	go reportStatus(ctx, ctrl, statusSrv)

	log.Info().Msg("relayer: fully wired, running")
	<-ctx.Done()

	log.Info().Msg("relayer: shutting down")
	pool.Close()
}

// mustBuildChainClients constructs the host chain's signing client and the
// guest chain's submission client. Any failure here is fatal: without
// both, the Executor cannot function.
func mustBuildChainClients(ctx context.Context, cfg *config.Config) (*chainio.HostClient, chainio.GuestClient) {
	routes := hostRoutesFromConfig(cfg)

	host, err := chainio.NewHostClient(ctx, chainio.HostClientConfig{
		RPCURL:        cfg.EthAPIURL,
		PrivateKeyHex: cfg.EthValidatorPrivateKey,
		GasStrategy:   chainio.GasStrategyEIP1559,
		GasLimit:      cfg.EthGas,
		FixedGasPrice: cfg.EthGasPrice,
		Routes:        routes,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("relayer: failed to construct host chain client")
	}

	guest := chainio.NewLoggingGuestClient(cfg.SubValidatorMnemonic)
	return host, guest
}

// hostRoutesFromConfig builds the tokenIndex→contract routing table. The
// single-token shape registers its one contract under index 0, so calls
// for any other token index find no route; the multi-token shape indexes
// routes 0..3 in the {dai,cdai,usdt,usdc} order spec.md §6 lists.
func hostRoutesFromConfig(cfg *config.Config) []chainio.TokenRoute {
	if len(cfg.TokenRoutes) == 0 {
		return []chainio.TokenRoute{{TokenIndex: bigFromInt(0), ContractAddress: cfg.SingleTokenBridgeAddress}}
	}
	routes := make([]chainio.TokenRoute, 0, len(cfg.TokenRoutes))
	for i, r := range cfg.TokenRoutes {
		routes = append(routes, chainio.TokenRoute{
			TokenIndex:      bigFromInt(i),
			ContractAddress: r.BridgeAddress,
		})
	}
	return routes
}

// runProducers starts the four producers, each emitting onto inbox.
func runProducers(ctx context.Context, cfg *config.Config, inbox chan<- bridgemodel.Event) {
	hc := httpfetch.New(0, 3)

	storePoller := hoststore.New(cfg.GraphNodeAPIURL, hc, inbox)
	go storePoller.Run(ctx)

	sub := guestsub.New(cfg.SubAPIURL, inbox)
	go sub.Run(ctx)

	probeAddr := cfg.SingleTokenBridgeAddress
	if len(cfg.TokenRoutes) > 0 {
		probeAddr = cfg.TokenRoutes[0].BridgeAddress
	}
	probe, err := hostprobe.New(ctx, cfg.EthAPIURL, probeAddr, inbox)
	if err != nil {
		log.Error().Err(err).Msg("relayer: host status probe failed to start")
	} else {
		go probe.Run(ctx)
	}

	oracleURL := oracleSourceURL(cfg)
	feed := oraclefeed.New(hc, oracleURL, cfg.TokenSymbol, coingeckoID(cfg.TokenSymbol), oraclefeed.ShapeCoingecko, inbox)
	go feed.Run(ctx)
}

// reportStatus periodically copies the Controller's gating state into the
// status server's snapshot. Status() is mutex-guarded, so polling it from
// this goroutine while Run's goroutine mutates it is safe.
func reportStatus(ctx context.Context, ctrl *controller.Controller, s *status.Server) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Update(ctrl.Status().String())
		}
	}
}

func bigFromInt(i int) *big.Int { return big.NewInt(int64(i)) }

// oracleSourceURL and coingeckoID give the oracle poller a concrete
// source for the configured token_symbol; a production deployment would
// make the source URL itself configurable, but spec.md §6 only names
// token_symbol, not a source URL key.
func oracleSourceURL(cfg *config.Config) string {
	id := coingeckoID(cfg.TokenSymbol)
	return "https://api.coingecko.com/api/v3/simple/price?ids=" + id + "&vs_currencies=usd"
}

func coingeckoID(symbol string) string {
	switch symbol {
	case "ETH":
		return "ethereum"
	case "BTC":
		return "bitcoin"
	default:
		return symbol
	}
}
