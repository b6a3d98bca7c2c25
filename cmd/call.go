package cmd

import (
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/lumen/internal/method"
	"github.com/Mohsinsiddi/lumen/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	callReturns string
	sendValue   string
	sendYes     bool
)

var callCmd = &cobra.Command{
	Use:   "call <address|contract> <method> [args...]",
	Short: "Call a read-only contract method",
	Long: `Call a view method through the wallet's eth_call.

Built-in methods can be named by bare name when unambiguous. Any other
method needs a full signature and --returns for its output types.

Examples:
  lumen call factory getSearchedChapters "lumen"
  lumen call lux "balanceOf(address)" 0xYourAddress
  lumen call 0xChapter currentCycle
  lumen call 0xToken "owner()" --returns address`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := resolveTarget(args[0])
		if err != nil {
			return err
		}
		reg, err := method.Default()
		if err != nil {
			return err
		}
		m, err := resolveMethod(reg, args[1], callReturns, method.View)
		if err != nil {
			return err
		}
		values, err := parseArgs(m, args[2:])
		if err != nil {
			return err
		}

		s, err := openSession(cmd.Context(), readOnly)
		if err != nil {
			return err
		}
		defer s.Close()

		out, err := ui.Run(spinOut(), fmt.Sprintf("Calling %s on %s…", m.Name, s.chain.ChainName), func() ([]any, error) {
			return s.disp.Call(cmd.Context(), to, m, values...)
		})
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Contract", ui.Addr(to.Hex())},
			{"Method", ui.Val(m.Signature)},
			{"Selector", m.Selector.Hex()},
			{"Network", s.chain.ChainName},
		}
		for _, p := range resultPairs(m, out) {
			pairs = append(pairs, [2]string{p[0], ui.Val(p[1])})
		}
		fmt.Println(ui.KeyValueBlock("Contract Call", pairs))
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <address|contract> <method> [args...]",
	Short: "Send a state-changing contract call from the selected wallet",
	Long: `Encode a call and submit it with eth_sendTransaction. The wallet signs it
with the key of the selected wallet after switching to the target chain.

Examples:
  lumen send lux "approve(address,uint256)" 0xChapter 1000000000000000000
  lumen send 0xChapter luminate "gm" 0
  lumen send light-source claim 0xLux`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := resolveTarget(args[0])
		if err != nil {
			return err
		}
		reg, err := method.Default()
		if err != nil {
			return err
		}
		m, err := resolveMethod(reg, args[1], "", method.NonPayable)
		if err != nil {
			return err
		}
		values, err := parseArgs(m, args[2:])
		if err != nil {
			return err
		}
		var value *big.Int
		if sendValue != "" {
			var ok bool
			if value, ok = new(big.Int).SetString(sendValue, 0); !ok || value.Sign() < 0 {
				return fmt.Errorf("invalid --value %q", sendValue)
			}
		}

		s, err := openSession(cmd.Context(), signing)
		if err != nil {
			return err
		}
		defer s.Close()

		if !sendYes && !ui.Confirm(cmd.InOrStdin(), spinOut(), fmt.Sprintf("Send %s to %s on %s?", m.Signature, to.Hex(), s.chain.ChainName)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		hash, err := ui.Run(spinOut(), "Sending transaction…", func() (common.Hash, error) {
			return s.disp.SendTransaction(cmd.Context(), to, m, value, values...)
		})
		if err != nil {
			return err
		}
		s.sent("Transaction sent", hash)
		return nil
	},
}

func init() {
	callCmd.Flags().StringVar(&callReturns, "returns", "", "output types for a signature lumen does not know, e.g. \"address,uint256\"")
	sendCmd.Flags().StringVar(&sendValue, "value", "", "native value in wei")
	sendCmd.Flags().BoolVarP(&sendYes, "yes", "y", false, "skip the confirmation prompt")
}
