package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/lumen/internal/config"
	"github.com/Mohsinsiddi/lumen/internal/rpc"
	"github.com/Mohsinsiddi/lumen/internal/ui"
	"github.com/spf13/cobra"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Manage RPC endpoints",
}

var rpcAddCmd = &cobra.Command{
	Use:   "add <chain> <url>",
	Short: "Add a custom RPC URL for a chain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cfg.Chains().Get(args[0])
		if err != nil {
			return err
		}
		if err := cfg.AddRPC(c.Slug(), args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Added RPC for %s: %s", ui.ChainName(c.ChainName), args[1])))
		return nil
	},
}

var rpcRemoveCmd = &cobra.Command{
	Use:   "remove <chain> <url>",
	Short: "Remove a custom RPC URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cfg.Chains().Get(args[0])
		if err != nil {
			return err
		}
		if err := cfg.RemoveRPC(c.Slug(), args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed RPC for %s: %s", c.ChainName, args[1])))
		return nil
	},
}

var rpcListCmd = &cobra.Command{
	Use:   "list [chain]",
	Short: "Benchmark the RPC endpoints of a chain",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := cfg.Network
		if len(args) == 1 {
			key = args[0]
		}
		c, err := cfg.Chains().Get(key)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.RPCSelectTimeout)
		defer cancel()

		eps := rpc.Benchmark(ctx, cfg.RPCs(c), c.ID())
		t := ui.NewTable([]ui.Column{
			{Title: "URL", Width: 40},
			{Title: "Latency", Width: 10},
			{Title: "Block", Width: 12},
			{Title: "Status", Width: 30},
		})
		for _, e := range eps {
			status := "ok"
			if !e.Healthy() {
				status = e.Err.Error()
			}
			t.AddRow(ui.Row{e.URL, e.Latency.Round(1e6).String(), fmt.Sprint(e.Block), status})
		}
		fmt.Printf("%s\n", ui.StyleTitle.Render("RPCs for "+c.ChainName))
		fmt.Println(t.Render())

		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return err
		}
		if best, err := rpc.NewPicker(algo).Pick(eps); err == nil {
			fmt.Println(ui.Meta(fmt.Sprintf("%s picks: %s", algo, best.URL)))
		}
		return nil
	},
}

func init() {
	rpcCmd.AddCommand(rpcAddCmd, rpcRemoveCmd, rpcListCmd)
}
