package cmd

import (
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/lumen/internal/chapter"
	"github.com/Mohsinsiddi/lumen/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var luxCmd = &cobra.Command{
	Use:   "lux",
	Short: "LUX balance, faucet and swap rewards",
}

var luxBalanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show LUX balances of an account and the light source",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), readOnly)
		if err != nil {
			return err
		}
		defer s.Close()

		var who common.Address
		if len(args) == 1 {
			if who, err = chapter.ParseAddress(args[0]); err != nil {
				return err
			}
		} else if who, err = s.me(); err != nil {
			return err
		}

		var (
			lux          = s.client.Addresses().Lux
			tok          chapter.TokenInfo
			mine, source *big.Int
		)
		_, err = ui.Run(spinOut(), "Loading balances…", func() (struct{}, error) {
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) { tok, err = s.client.TokenInfo(ctx, lux); return })
			g.Go(func() (err error) { mine, err = s.client.BalanceOf(ctx, lux, who); return })
			g.Go(func() (err error) { source, err = s.client.LightSourceBalance(ctx); return })
			return struct{}{}, g.Wait()
		})
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("LUX", [][2]string{
			{"Account", ui.Addr(who.Hex())},
			{"Balance", ui.Val(tok.Format(mine))},
			{"Light source", tok.Format(source)},
			{"Network", ui.ChainName(s.chain.ChainName)},
		}))
		return nil
	},
}

var luxRewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Show swap reward eligibility and the mint threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), readOnly)
		if err != nil {
			return err
		}
		defer s.Close()
		me, err := s.me()
		if err != nil {
			return err
		}

		var eligible, count, threshold *big.Int
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() (err error) { eligible, err = s.client.RewardEligibility(ctx, me); return })
		g.Go(func() (err error) { count, err = s.client.SwapCount(ctx); return })
		g.Go(func() (err error) { threshold, err = s.client.SwapThreshold(ctx); return })
		if err := g.Wait(); err != nil {
			return err
		}

		mintable := ui.Meta("no")
		if count.Cmp(threshold) >= 0 {
			mintable = ui.StyleSuccess.Render("yes")
		}
		fmt.Println(ui.KeyValueBlock("Swap rewards", [][2]string{
			{"Eligible swaps", ui.Val(eligible.String())},
			{"Swaps", fmt.Sprintf("%s / %s", count, threshold)},
			{"Mintable", mintable},
		}))
		return nil
	},
}

var luxClaimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim LUX from the light source faucet",
	RunE: func(cmd *cobra.Command, args []string) error {
		return transact(cmd, "LUX claimed", func(s *session) (common.Hash, error) {
			return s.client.ClaimLux(cmd.Context())
		})
	},
}

var luxClaimRewardCmd = &cobra.Command{
	Use:   "claim-reward",
	Short: "Claim your swap reward",
	RunE: func(cmd *cobra.Command, args []string) error {
		return transact(cmd, "Reward claimed", func(s *session) (common.Hash, error) {
			return s.client.ClaimReward(cmd.Context())
		})
	},
}

var luxMintRewardsCmd = &cobra.Command{
	Use:   "mint-rewards",
	Short: "Mint the reward pool once the swap threshold is reached",
	RunE: func(cmd *cobra.Command, args []string) error {
		return transact(cmd, "Rewards minted", func(s *session) (common.Hash, error) {
			return s.client.MintRewards(cmd.Context())
		})
	},
}

func init() {
	luxCmd.AddCommand(luxBalanceCmd, luxRewardsCmd, luxClaimCmd, luxClaimRewardCmd, luxMintRewardsCmd)
}
