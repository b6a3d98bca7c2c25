package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/lumen/internal/abi"
	"github.com/Mohsinsiddi/lumen/internal/contract"
	"github.com/Mohsinsiddi/lumen/internal/method"
	"github.com/Mohsinsiddi/lumen/internal/ui"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var (
	methodsContract string
	decodeOutput    string
	encodeWords     bool
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the built-in contract methods and their selectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := method.Default()
		if err != nil {
			return err
		}
		found := false
		for _, c := range reg.Contracts() {
			if methodsContract != "" && methodsContract != c.ID {
				continue
			}
			found = true
			fmt.Println(ui.StyleTitle.Render(fmt.Sprintf("%s (%s)", c.Name, c.ID)))
			if c.Description != "" {
				fmt.Println(ui.Meta(c.Description))
			}
			for _, m := range reg.ForContract(c.ID) {
				fmt.Printf("  %s  %s\n", ui.Addr(m.Selector.Hex()), m.String())
			}
			fmt.Println()
		}
		if !found {
			ids := make([]string, 0, len(reg.Contracts()))
			for _, c := range reg.Contracts() {
				ids = append(ids, c.ID)
			}
			return fmt.Errorf("unknown contract kind %q (want one of %s)", methodsContract, strings.Join(ids, ", "))
		}
		fmt.Println(ui.Meta(fmt.Sprintf("%d methods", reg.Len())))
		return nil
	},
}

var selectorCmd = &cobra.Command{
	Use:   "selector <signature-or-selector>",
	Short: "Compute or look up a 4-byte method selector",
	Long: `Compute a 4-byte selector from a signature, or look up a selector among
the built-in methods.

Examples:
  lumen selector "transfer(address to, uint256 amount)"   # → 0xa9059cbb
  lumen selector 0x095ea7b3                               # → approve(address,uint256)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := method.Default()
		if err != nil {
			return err
		}
		input := args[0]
		if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
			sel, err := parseSelector(input)
			if err != nil {
				return err
			}
			m, err := reg.LookupSelector(sel)
			if err != nil {
				return err
			}
			fmt.Println(ui.KeyValueBlock("Selector Lookup", [][2]string{
				{"Selector", ui.Addr(sel.Hex())},
				{"Method", ui.Val(m.String())},
			}))
			return nil
		}

		name, types, err := method.ParseSignature(normalizeSignature(input))
		if err != nil {
			return err
		}
		sig := method.CanonicalSignature(name, types)
		pairs := [][2]string{
			{"Signature", sig},
			{"Selector", ui.Val(method.SelectorOf(sig).Hex())},
		}
		if m, err := reg.Lookup(sig); err == nil {
			pairs = append(pairs, [2]string{"Built-in", m.String()})
		}
		fmt.Println(ui.KeyValueBlock("Method Selector", pairs))
		return nil
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <method> [args...]",
	Short: "Encode calldata for a method",
	Long: `Encode selector, head and tail for a method call without sending it.

Examples:
  lumen encode "transfer(address,uint256)" 0xd8da6bf26964af9d7eed9e03e53415d37aa96045 1000
  lumen encode getSearchedChapters lumen
  lumen encode "f(string[])" '["a","bc"]' --words`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := method.Default()
		if err != nil {
			return err
		}
		m, err := resolveMethod(reg, args[0], "", method.NonPayable)
		if err != nil {
			return err
		}
		values, err := parseArgs(m, args[1:])
		if err != nil {
			return err
		}
		payload, err := contract.BuildCall(m, values)
		if err != nil {
			return err
		}
		if !encodeWords {
			fmt.Println(payload.Hex())
			return nil
		}
		fmt.Println(ui.Meta("selector ") + ui.Addr(m.Selector.Hex()) + ui.Meta("  "+m.Signature))
		fmt.Print(abi.HexWords(payload.Arguments()))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode calldata, or return data with --output",
	Long: `Decode calldata of a built-in method, or eth_call return data when
--output names the types.

Examples:
  lumen decode 0xa9059cbb000000…
  lumen decode 0x0000…0020 --output "string"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := hexutil.Decode(args[0])
		if err != nil {
			return fmt.Errorf("invalid hex: %w", err)
		}

		if decodeOutput != "" {
			_, types, err := method.ParseSignature(normalizeSignature("out(" + decodeOutput + ")"))
			if err != nil {
				return err
			}
			values, err := abi.Decode(data, types)
			if err != nil {
				return err
			}
			pairs := make([][2]string, len(values))
			for i, v := range values {
				pairs[i] = [2]string{fmt.Sprintf("[%d] %s", i, types[i]), ui.Val(abi.Format(v))}
			}
			fmt.Println(ui.KeyValueBlock("Return Data", pairs))
			return nil
		}

		reg, err := method.Default()
		if err != nil {
			return err
		}
		m, values, err := contract.DecodeCall(reg, data)
		if err != nil {
			return err
		}
		pairs := [][2]string{
			{"Method", ui.Val(m.Signature)},
			{"Selector", ui.Addr(m.Selector.Hex())},
		}
		for i, v := range values {
			label := m.Inputs[i].Name
			if label == "" {
				label = fmt.Sprintf("[%d]", i)
			}
			pairs = append(pairs, [2]string{label + " " + m.Inputs[i].Type.String(), ui.Val(abi.Format(v))})
		}
		fmt.Println(ui.KeyValueBlock("Calldata", pairs))
		return nil
	},
}

// parseSelector reads a 0x-prefixed 4-byte selector.
func parseSelector(s string) (method.Selector, error) {
	var sel method.Selector
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil || len(b) != method.SelectorSize {
		return sel, fmt.Errorf("invalid selector %q: want 0x followed by 8 hex digits", s)
	}
	copy(sel[:], b)
	return sel, nil
}

func init() {
	methodsCmd.Flags().StringVar(&methodsContract, "contract", "", "only list one contract kind (chapter, mapper, factory, lightsource, erc20)")
	encodeCmd.Flags().BoolVar(&encodeWords, "words", false, "print one 32-byte word per line")
	decodeCmd.Flags().StringVar(&decodeOutput, "output", "", "decode return data with these types, e.g. \"address,uint256\"")
}
