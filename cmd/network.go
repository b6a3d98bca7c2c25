package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/lumen/internal/network"
	"github.com/Mohsinsiddi/lumen/internal/ui"
	"github.com/Mohsinsiddi/lumen/internal/wallet"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Inspect and switch the wallet's chain",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the chains lumen can target",
	RunE: func(cmd *cobra.Command, args []string) error {
		known := map[uint64]bool{}
		for _, c := range cfg.Wallet.Chains {
			known[c.ID()] = true
		}
		t := ui.NewTable([]ui.Column{
			{Title: "Slug", Width: 22},
			{Title: "Name", Width: 22},
			{Title: "Chain ID", Width: 14},
			{Title: "Currency", Width: 9},
			{Title: "In wallet", Width: 9},
		})
		for _, c := range cfg.Chains().All() {
			in := ""
			if known[c.ID()] {
				in = "✓"
			}
			t.AddRow(ui.Row{c.Slug(), c.ChainName, chainIDLabel(c.ID()), c.NativeCurrency.Symbol, in})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta("Target: " + cfg.Network))
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <chain>",
	Short: "Set the target chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cfg.Chains().Get(args[0])
		if err != nil {
			return fmt.Errorf("%w: run 'lumen network list'", err)
		}
		cfg.Network = c.Slug()
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Target chain set to " + ui.ChainName(c.ChainName)))
		return nil
	},
}

var networkStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare the wallet's chain with the target",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := cfg.TargetChain()
		if err != nil {
			return err
		}
		wp := wallet.NewProvider(cfg.Wallet)
		state, id, err := network.NewManager(wp, target, network.WithTimeout(cfg.Timeout())).Check(cmd.Context())
		if err != nil {
			return err
		}
		current := chainIDLabel(id)
		if c, err := cfg.Chains().GetByID(id); err == nil {
			current = c.ChainName + " (" + current + ")"
		}
		status := ui.StyleSuccess.Render(state.String())
		if state != network.Matched {
			status = ui.StyleWarning.Render(state.String())
		}
		fmt.Println(ui.KeyValueBlock("Network", [][2]string{
			{"Target", target.ChainName + " (" + chainIDLabel(target.ID()) + ")"},
			{"Wallet chain", current},
			{"Known chains", fmt.Sprint(len(cfg.Wallet.Chains))},
			{"Status", status},
		}))
		return nil
	},
}

var networkEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Switch the wallet to the target chain, adding it if needed",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := ui.Run(spinOut(), "Switching network…", func() (*session, error) {
			return openSession(cmd.Context(), readOnly)
		})
		if err != nil {
			return err
		}
		defer s.Close()
		fmt.Println(ui.Success("Wallet is on " + ui.ChainName(s.chain.ChainName)))
		return nil
	},
}

func chainIDLabel(id uint64) string {
	return fmt.Sprintf("%d (0x%x)", id, id)
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd, networkStatusCmd, networkEnsureCmd)
}
