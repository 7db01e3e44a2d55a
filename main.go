package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/wonko433/blackcoin-more/conf"
	"github.com/wonko433/blackcoin-more/log"
	"github.com/wonko433/blackcoin-more/model/chain"
	"github.com/wonko433/blackcoin-more/model/chainparams"
	"github.com/wonko433/blackcoin-more/model/mempool"
	"github.com/wonko433/blackcoin-more/service/mining"
)

func main() {
	cfg, err := conf.InitConfig(os.Args[1:])
	if err != nil {
		log.Error("startup: %v", err)
		os.Exit(1)
	}
	conf.Cfg = cfg

	if err := log.InitLogger(cfg.DataDir, cfg.Log.Level); err != nil {
		log.Error("startup: %v", err)
		os.Exit(1)
	}

	if cfg.P2PNet.RegTest {
		chainparams.SetRegTestParams()
	} else if cfg.P2PNet.TestNet {
		chainparams.SetTestNetParams()
	}
	params := chainparams.ActiveNetParams

	chain.InitGlobalChain(params)
	mempool.InitMempool()

	var staker *mining.Staker
	if cfg.Mining.Staking {
		staker, err = mining.StartStaker(params)
		if err != nil {
			log.Warn("staking disabled: %v", err)
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-interrupt

	log.Info("shutdown requested")
	mining.RequestShutdown()
	if staker != nil {
		staker.Stop()
	}
}
