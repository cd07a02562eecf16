package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/algo"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/notify"
	"github.com/iov-one/cosign/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	defaultAlgodAddress = "https://testnet-api.algonode.cloud"
	envPrefix           = "COSIGN"
)

// newRootCmd returns the command tree. Each tree has its own configuration
// so that commands can be executed independently in tests.
func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "cosigncli",
		Short:         "Assemble and submit multisig transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v); err != nil {
				return err
			}
			logger, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(cosign.WithLogger(commandContext(cmd), logger))
			return nil
		},
	}

	fl := root.PersistentFlags()
	fl.String("config", "", "Path to a config file (toml, yaml or json).")
	fl.String("algod-address", defaultAlgodAddress, "Address of the algod REST API.")
	fl.String("algod-token", "", "API token of the algod node.")
	fl.String("log-level", "info", "Log level: debug, info, error or none.")
	fl.Uint64("confirm-rounds", session.DefaultConfirmRounds, "Number of rounds a transaction confirmation is awaited for.")
	fl.String("explorer-url", session.DefaultExplorerURL, "Prefix of transaction explorer links. Empty disables links.")
	fl.Int("signers-inflight", 0, "Maximum number of concurrent signature requests. Zero means no limit.")

	bind(v, fl.Lookup("config"), "config")
	bind(v, fl.Lookup("algod-address"), "algod.address")
	bind(v, fl.Lookup("algod-token"), "algod.token")
	bind(v, fl.Lookup("log-level"), "log.level")
	bind(v, fl.Lookup("confirm-rounds"), "confirm.rounds")
	bind(v, fl.Lookup("explorer-url"), "explorer.url")
	bind(v, fl.Lookup("signers-inflight"), "signers.inflight")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newKeygenCmd(),
		newKeyaddrCmd(),
		newMultisigCmd(),
		newSendCmd(v),
		newCounterCmd(v),
		newVersionCmd(),
	)
	return root
}

func bind(v *viper.Viper, fl *pflag.Flag, key string) {
	if err := v.BindPFlag(key, fl); err != nil {
		// Only possible with a nil flag, which is a programming error.
		panic(err)
	}
}

// loadConfig reads the config file, if one was given.
func loadConfig(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "config file %q: %s", path, err)
	}
	return nil
}

// newLogger returns a logger writing to stderr, filtered by the configured
// level.
func newLogger(v *viper.Viper, w io.Writer) (log.Logger, error) {
	level := v.GetString("log.level")
	if level == "" || level == "none" {
		return log.NewNopLogger(), nil
	}
	allow, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), allow), nil
}

func newClient(v *viper.Viper, logger log.Logger) (*algo.Client, error) {
	return algo.NewClient(v.GetString("algod.address"), v.GetString("algod.token"), logger)
}

// newNotifier prints notifications to the user and logs them.
func newNotifier(out io.Writer, logger log.Logger) notify.Sink {
	return notify.Multi{notify.NewConsole(out), notify.NewLogSink(logger)}
}

// sessionConfig returns the session configuration derived from the
// settings.
func sessionConfig(v *viper.Viper) session.Config {
	cfg := session.DefaultConfig()
	cfg.ConfirmRounds = v.GetUint64("confirm.rounds")
	cfg.ExplorerURL = v.GetString("explorer.url")
	cfg.MaxInFlight = v.GetInt("signers.inflight")
	return cfg
}

// runtime bundles what most commands need.
type runtime struct {
	ctx      context.Context
	logger   log.Logger
	notifier notify.Sink
}

// newRuntime uses the logger carried by the command context.
func newRuntime(cmd *cobra.Command) runtime {
	ctx := commandContext(cmd)
	logger := cosign.GetLogger(ctx)
	return runtime{
		ctx:      ctx,
		logger:   logger,
		notifier: newNotifier(cmd.OutOrStdout(), logger),
	}
}

// commandContext returns the context of the command. Commands that were not
// started with Execute have none.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func defaultKeyPath() string {
	return os.Getenv("HOME") + "/.cosign.priv.key"
}
