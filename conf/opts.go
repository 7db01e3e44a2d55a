package conf

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

type Opts struct {
	DataDir string `long:"datadir" description:"specified program data dir"`

	RegTest bool `long:"regtest" description:"initiate regtest"`
	TestNet bool `long:"testnet" description:"initiate testnet"`

	BlockMaxSize      uint64 `long:"blockmaxsize" default:"0" description:"maximum serialized size of blocks created by the mining code"`
	BlockMinTxFee     string `long:"blockmintxfee" description:"lowest fee rate (in BLK/kB) for transactions to be included in block creation"`
	BlockPrioritySize uint64 `long:"blockprioritysize" default:"0" description:"bytes of highest-priority/low-fee transactions reserved at the head of created blocks"`
	BlockVersion      int32  `long:"blockversion" default:"-1" description:"override block version for created blocks (regtest only)"`
	PrintPriority     bool   `long:"printpriority" description:"log fee and priority of each transaction when mining blocks"`
	Staking           bool   `long:"staking" description:"stake your coins to support the network (default: true)"`
	NoStaking         bool   `long:"nostaking" description:"do not spawn the staking thread"`
}

func InitArgs(args []string) (*Opts, error) {
	opts := new(Opts)
	_, err := flags.ParseArgs(opts, args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	return opts, nil
}

func (opts *Opts) String() string {
	return fmt.Sprintf("datadir:%s regtest:%v testnet:%v", opts.DataDir, opts.RegTest, opts.TestNet)
}
