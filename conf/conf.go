package conf

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/wonko433/blackcoin-more/errcode"
	"github.com/wonko433/blackcoin-more/model/consensus"
	"github.com/wonko433/blackcoin-more/util/amount"
)

var Cfg *Configuration

const defaultDataDirName = "blackmore"

type Configuration struct {
	DataDir string
	P2PNet  struct {
		TestNet bool
		RegTest bool
	}
	Log struct {
		Level string
	}
	Mining struct {
		BlockMaxSize      uint64
		BlockMinTxFee     int64
		BlockPrioritySize uint64
		BlockVersion      int32
		PrintPriority     bool
		Staking           bool
	}
}

// InitConfig merges the defaults, an optional config.yml under the data
// dir, environment overrides and the command line, in that order.
func InitConfig(args []string) (*Configuration, error) {
	opts, err := InitArgs(args)
	if err != nil {
		return nil, err
	}

	viper.SetEnvPrefix("blackmore")
	viper.AutomaticEnv()
	viper.SetConfigType("yaml")

	viper.SetDefault("DataDir", defaultDataDir())
	viper.SetDefault("Log.Level", "info")
	viper.SetDefault("Mining.BlockMaxSize", consensus.DefaultMaxGeneratedBlockSize)
	viper.SetDefault("Mining.BlockMinTxFee", consensus.DefaultBlockMinTxFee)
	viper.SetDefault("Mining.BlockPrioritySize", consensus.DefaultBlockPrioritySize)
	viper.SetDefault("Mining.BlockVersion", int32(-1))
	viper.SetDefault("Mining.PrintPriority", false)
	viper.SetDefault("Mining.Staking", true)

	if opts.DataDir != "" {
		viper.SetDefault("DataDir", opts.DataDir)
	}
	if file, err := os.Open(filepath.Join(viper.GetString("DataDir"), "config.yml")); err == nil {
		defer file.Close()
		if err := viper.ReadConfig(file); err != nil {
			return nil, err
		}
	}

	config := &Configuration{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	config.P2PNet.TestNet = opts.TestNet
	config.P2PNet.RegTest = opts.RegTest

	if opts.BlockMaxSize > 0 {
		config.Mining.BlockMaxSize = opts.BlockMaxSize
	}
	if opts.BlockMinTxFee != "" {
		fee, err := amount.ParseMoney(opts.BlockMinTxFee)
		if err != nil {
			return nil, errcode.NewError(errcode.ErrorConfigInvalid, err.Error())
		}
		config.Mining.BlockMinTxFee = int64(fee)
	}
	if opts.BlockPrioritySize > 0 {
		config.Mining.BlockPrioritySize = opts.BlockPrioritySize
	}
	if opts.BlockVersion != -1 {
		config.Mining.BlockVersion = opts.BlockVersion
	}
	if opts.PrintPriority {
		config.Mining.PrintPriority = true
	}
	if opts.NoStaking {
		config.Mining.Staking = false
	} else if opts.Staking {
		config.Mining.Staking = true
	}

	return config, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + defaultDataDirName
	}
	return filepath.Join(home, "."+defaultDataDirName)
}

// SetUnitTestDataDir redirects the data dir to a throwaway temp dir.
func SetUnitTestDataDir(config *Configuration) (string, error) {
	dir, err := os.MkdirTemp("", "blackmore-test")
	if err != nil {
		return "", err
	}
	config.DataDir = dir
	return dir, nil
}
