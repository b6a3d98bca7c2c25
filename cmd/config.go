package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/lumen/internal/rpc"
	"github.com/Mohsinsiddi/lumen/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetContractCmd = &cobra.Command{
	Use:   "set-contract <factory|lux|chapter-mapper|light-source> <address>",
	Short: "Point lumen at a different deployment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, addr := args[0], args[1]
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid address %q", addr)
		}
		switch name {
		case "factory":
			cfg.Contracts.Factory = addr
		case "lux":
			cfg.Contracts.Lux = addr
		case "chapter-mapper":
			cfg.Contracts.ChapterMapper = addr
		case "light-source":
			cfg.Contracts.LightSource = addr
		default:
			return fmt.Errorf("unknown contract %q", name)
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s set to %s", name, ui.Addr(common.HexToAddress(addr).Hex()))))
		return nil
	},
}

var configSetTimeoutCmd = &cobra.Command{
	Use:   "set-timeout <seconds>",
	Short: "Set the per-request timeout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := positiveSeconds(args[0])
		if err != nil {
			return err
		}
		cfg.CallTimeout = n
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Timeout set to %ds", n)))
		return nil
	},
}

var configSetIntervalCmd = &cobra.Command{
	Use:   "set-interval <seconds>",
	Short: "Set the polling interval of 'lumen watch'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := positiveSeconds(args[0])
		if err != nil {
			return err
		}
		cfg.WatchInterval = n
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Watch interval set to %ds", n)))
		return nil
	},
}

var configSetAlgorithmCmd = &cobra.Command{
	Use:   "set-algorithm <fastest|round-robin|failover>",
	Short: "Set how an RPC endpoint is chosen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		algo, err := rpc.ParseAlgorithm(args[0])
		if err != nil {
			return err
		}
		cfg.RPCAlgorithm = string(algo)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("RPC algorithm set to %s", algo)))
		return nil
	},
}

func positiveSeconds(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive number of seconds, got %q", s)
	}
	return n, nil
}

func init() {
	configCmd.AddCommand(configListCmd, configSetContractCmd, configSetTimeoutCmd, configSetIntervalCmd, configSetAlgorithmCmd)
}
