package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Mohsinsiddi/lumen/internal/config"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/lumen/cmd.Version=1.2.3" .
var Version = "0.3.0"

var (
	cfgDir     string
	cfg        *config.Config
	verbose    bool
	walletFlag string
	netFlag    string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Chapters, lumens and LUX from the terminal",
	Long: `lumen talks to the chapter contracts on Sonic through its own wallet.

  Search chapters, read lumens, subscribe, post, bill hearers and claim LUX.
  Every call is encoded locally from the built-in method table and sent
  through the wallet, which switches to (or adds) the target chain first.

The target chain comes from config (default: sonic-blaze-testnet) and can be
overridden per invocation with --network.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbose)
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if netFlag != "" {
			cfg.Network = netFlag
		}
		if walletFlag != "" {
			cfg.DefaultWallet = walletFlag
		}
		return nil
	},
}

// setupLogging installs the terminal handler on stderr. Warnings and errors
// show by default; --verbose adds debug output.
func setupLogging(debug bool) {
	level := log.LevelWarn
	if debug {
		level = log.LevelDebug
	}
	color := isatty.IsTerminal(os.Stderr.Fd())
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, color)))
}

// Execute runs the root command. Ctrl+C cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: $"+config.EnvDir+" or ~/.lumen)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&walletFlag, "wallet", "w", "", "wallet to use instead of the default")
	rootCmd.PersistentFlags().StringVarP(&netFlag, "network", "n", "", "target chain (slug, name or chain id)")

	rootCmd.AddCommand(
		networkCmd,
		rpcCmd,
		walletCmd,
		configCmd,
		callCmd,
		sendCmd,
		methodsCmd,
		selectorCmd,
		encodeCmd,
		decodeCmd,
		chapterCmd,
		luxCmd,
		watchCmd,
	)
}
