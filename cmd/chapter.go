package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mohsinsiddi/lumen/internal/chapter"
	"github.com/Mohsinsiddi/lumen/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	chapterPick     bool
	lumensCount     uint64
	subscribeCycles uint64
	deployInterval  string
	deployFee       string
	deployToken     string
	deployElect     string
	billKey         string
	billCell        uint64
	billOwnKeys     string
)

var chapterCmd = &cobra.Command{
	Use:     "chapter",
	Aliases: []string{"ch"},
	Short:   "Search, read, subscribe to and run chapters",
}

// --- reads ---

var chapterSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find chapters by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), readOnly)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := ui.Run(spinOut(), fmt.Sprintf("Searching %q…", args[0]), func() ([]chapter.SearchResult, error) {
			return s.client.Search(cmd.Context(), args[0])
		})
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println(ui.Meta("No chapters match " + strconv.Quote(args[0])))
			return nil
		}

		if chapterPick {
			items := make([]ui.PickerItem, len(results))
			for i, r := range results {
				items[i] = ui.PickerItem{Label: r.Name, SubLabel: r.Address.Hex(), Value: r.Address.Hex()}
			}
			picked, err := ui.PickItem("Chapters matching "+strconv.Quote(args[0]), items)
			if err != nil || picked == "" {
				return err
			}
			return showInfo(cmd, s, common.HexToAddress(picked))
		}

		t := ui.NewTable([]ui.Column{{Title: "Name", Width: 30}, {Title: "Address", Width: 44}})
		for _, r := range results {
			t.AddRow(ui.Row{ui.Val(r.Name), ui.Addr(r.Address.Hex())})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d chapter(s)", len(results))))
		return nil
	},
}

var chapterInfoCmd = &cobra.Command{
	Use:   "info <chapter>",
	Short: "Show a chapter's name, fee, billing clock and hearers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context(), readOnly)
		if err != nil {
			return err
		}
		defer s.Close()
		return showInfo(cmd, s, addr)
	},
}

func showInfo(cmd *cobra.Command, s *session, addr common.Address) error {
	info, err := ui.Run(spinOut(), "Loading chapter…", func() (*chapter.Info, error) {
		return s.client.Info(cmd.Context(), addr)
	})
	if err != nil {
		return err
	}
	fmt.Println(ui.KeyValueBlock(info.Name, infoPairs(info)))
	return nil
}

func infoPairs(info *chapter.Info) [][2]string {
	next := "due now"
	if !info.Next.Due() {
		next = "in " + seconds(info.Next.Remaining.Uint64())
	}
	pairs := [][2]string{
		{"Address", ui.Addr(info.Address.Hex())},
		{"Elect", ui.Addr(info.Elect.Hex())},
		{"Fee", ui.Val(info.Token.Format(info.Fee))},
		{"Interval", seconds(info.Next.Interval.Uint64())},
		{"Next bill", next},
		{"Cycle", info.Cycle.String()},
		{"Hearers", info.Hearers.String()},
		{"Cycle profit", info.Token.Format(info.CycleProfit())},
		{"Pending fees", info.Token.Format(info.PendingFees())},
		{"Laggards", strconv.Itoa(info.Laggards)},
	}
	if info.Image != "" {
		pairs = append(pairs, [2]string{"Image", ui.Meta(info.Image)})
	}
	switch {
	case info.IsElect:
		pairs = append(pairs, [2]string{"You", ui.StyleSuccess.Render("elect")})
	case info.IsSubscribed:
		pairs = append(pairs, [2]string{"You", ui.StyleSuccess.Render("hearer")})
	}
	return pairs
}

// seconds renders a duration in whole seconds as weeks, days and hours.
func seconds(n uint64) string {
	switch {
	case n == 0:
		return "0s"
	case n%chapter.Month == 0:
		return plural(n/chapter.Month, "month")
	case n%chapter.Week == 0:
		return plural(n/chapter.Week, "week")
	}
	return (time.Duration(n) * time.Second).String()
}

func plural(n uint64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

var chapterLumensCmd = &cobra.Command{
	Use:   "lumens <chapter>",
	Short: "Show the latest lumens of a chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context(), readOnly)
		if err != nil {
			return err
		}
		defer s.Close()

		lumens, err := ui.Run(spinOut(), "Loading lumens…", func() ([]chapter.Lumen, error) {
			return s.client.Latest(cmd.Context(), addr, lumensCount)
		})
		if err != nil {
			return err
		}
		if len(lumens) == 0 {
			fmt.Println(ui.Meta("No lumens yet."))
			return nil
		}
		for _, l := range lumens {
			fmt.Println(ui.Post(lumenHeader(l), l.DataEntry, 280))
		}
		return nil
	},
}

func lumenHeader(l chapter.Lumen) string {
	h := fmt.Sprintf("#%d  %s", l.Index, l.Time().UTC().Format(time.DateTime))
	if l.Encrypted() {
		h += "  sealed for cycle " + l.Cycle.String()
	}
	return h
}

var chapterSubscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "List the chapters the selected wallet hears",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), readOnly)
		if err != nil {
			return err
		}
		defer s.Close()

		subs, err := ui.Run(spinOut(), "Loading subscriptions…", func() ([]chapter.Subscription, error) {
			return s.client.Subscriptions(cmd.Context())
		})
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			fmt.Println(ui.Meta("Not subscribed to any chapter."))
			return nil
		}
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 24},
			{Title: "Chapter", Width: 14},
			{Title: "Fee", Width: 16},
			{Title: "Approved", Width: 16},
			{Title: "Cycles left", Width: 11},
		})
		for _, sub := range subs {
			t.AddRow(ui.Row{
				ui.Val(sub.Name),
				ui.Addr(ui.TruncateAddr(sub.Chapter.Hex())),
				sub.Token.Format(sub.Fee),
				sub.Token.Format(sub.Allowance),
				sub.CyclesLeft().String(),
			})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var chapterLaggardsCmd = &cobra.Command{
	Use:   "laggards <chapter>",
	Short: "List hearers that missed a bill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context(), readOnly)
		if err != nil {
			return err
		}
		defer s.Close()

		laggards, err := s.client.Laggards(cmd.Context(), addr)
		if err != nil {
			return err
		}
		if len(laggards) == 0 {
			fmt.Println(ui.Success("No laggards."))
			return nil
		}
		for _, a := range laggards {
			fmt.Println("  " + ui.Addr(a.Hex()))
		}
		fmt.Println(ui.Meta(fmt.Sprintf("%d laggard(s)", len(laggards))))
		return nil
	},
}

var chapterHearerCmd = &cobra.Command{
	Use:   "hearer <chapter> <address>",
	Short: "Show a chapter's record of one hearer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		who, err := chapter.ParseAddress(args[1])
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context(), readOnly)
		if err != nil {
			return err
		}
		defer s.Close()

		h, err := s.client.Hearer(cmd.Context(), addr, who)
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("Hearer", [][2]string{
			{"Address", ui.Addr(h.Address.Hex())},
			{"Active", strconv.FormatBool(h.Active)},
			{"Joined cycle", h.Cycle.String()},
			{"Own key", ui.Meta(ui.TruncateAddr(h.OwnKey))},
		}))
		return nil
	},
}

// --- writes ---

// transact sends one transaction with a spinner and prints its link.
func transact(cmd *cobra.Command, what string, send func(*session) (common.Hash, error)) error {
	s, err := openSession(cmd.Context(), signing)
	if err != nil {
		return err
	}
	defer s.Close()
	hash, err := ui.Run(spinOut(), what+"…", func() (common.Hash, error) { return send(s) })
	if err != nil {
		return err
	}
	s.sent(what, hash)
	return nil
}

var chapterSubscribeCmd = &cobra.Command{
	Use:   "subscribe <chapter>",
	Short: "Approve fee × cycles and hear a chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context(), signing)
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := ui.Run(spinOut(), "Subscribing…", func() (*chapter.SubscribeResult, error) {
			return s.client.Subscribe(cmd.Context(), addr, subscribeCycles)
		})
		if res != nil {
			s.sent("Approved "+res.Amount.String(), res.Approve)
		}
		if err != nil {
			return err
		}
		s.sent(fmt.Sprintf("Hearing for %d cycle(s)", subscribeCycles), res.Hear)
		return nil
	},
}

var chapterCyclesCmd = &cobra.Command{
	Use:   "cycles <chapter> <n>",
	Short: "Re-approve a subscription for exactly n more cycles",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", chapter.ErrInvalidCycles, args[1])
		}
		return transact(cmd, fmt.Sprintf("Approved %d cycle(s)", n), func(s *session) (common.Hash, error) {
			return s.client.SetCycles(cmd.Context(), addr, n)
		})
	},
}

var chapterUnsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <chapter>",
	Short: "Stop hearing a chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		return transact(cmd, "Silenced", func(s *session) (common.Hash, error) {
			return s.client.Silence(cmd.Context(), addr)
		})
	},
}

var chapterPostCmd = &cobra.Command{
	Use:   "post <chapter> <text>",
	Short: "Publish a lumen to a chapter you elect",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		return transact(cmd, "Lumen posted", func(s *session) (common.Hash, error) {
			return s.client.Luminate(cmd.Context(), addr, args[1])
		})
	},
}

var chapterNameCmd = &cobra.Command{
	Use:   "name <chapter> <name>",
	Short: "Rename a chapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		if err := chapter.ValidateName(args[1]); err != nil {
			return err
		}
		return transact(cmd, "Name set", func(s *session) (common.Hash, error) {
			return s.client.SetName(cmd.Context(), addr, args[1])
		})
	},
}

var chapterImageCmd = &cobra.Command{
	Use:   "image <chapter> <url>",
	Short: "Set a chapter's image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		return transact(cmd, "Image set", func(s *session) (common.Hash, error) {
			return s.client.SetImage(cmd.Context(), addr, args[1])
		})
	},
}

var chapterDeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a new chapter through the factory",
	Long: `Deploy a chapter billing --fee of --token every --interval.

Examples:
  lumen chapter deploy --fee 2 --interval "1 month"
  lumen chapter deploy --fee 0.5 --interval "2 weeks" --token 0xToken`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := chapter.ParseInterval(deployInterval)
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context(), signing)
		if err != nil {
			return err
		}
		defer s.Close()

		token := s.client.Addresses().Lux
		if deployToken != "" {
			if token, err = chapter.ParseAddress(deployToken); err != nil {
				return err
			}
		}
		elect, err := s.me()
		if err != nil {
			return err
		}
		if deployElect != "" {
			if elect, err = chapter.ParseAddress(deployElect); err != nil {
				return err
			}
		}
		tok, err := s.client.TokenInfo(cmd.Context(), token)
		if err != nil {
			return err
		}
		fee, err := chapter.ParseAmount(deployFee, tok.Decimals)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("New chapter", [][2]string{
			{"Elect", ui.Addr(elect.Hex())},
			{"Fee", ui.Val(tok.Format(fee))},
			{"Interval", seconds(interval)},
		}))
		if !ui.Confirm(cmd.InOrStdin(), spinOut(), "Deploy?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		hash, err := ui.Run(spinOut(), "Deploying…", func() (common.Hash, error) {
			return s.client.Deploy(cmd.Context(), elect, interval, fee, token)
		})
		if err != nil {
			return err
		}
		s.sent("Chapter deployed", hash)
		return nil
	},
}

var chapterBillCmd = &cobra.Command{
	Use:   "bill <chapter>",
	Short: "Bill one cell of hearers and publish the next cycle key",
	Long: `Bill one cell of hearers. --key is the next cycle key and --own-keys the
comma-separated keys sealed for each hearer of the cell, in cell order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		var own []string
		if billOwnKeys != "" {
			own = strings.Split(billOwnKeys, ",")
		}
		return transact(cmd, fmt.Sprintf("Cell %d billed", billCell), func(s *session) (common.Hash, error) {
			return s.client.NextCycleBill(cmd.Context(), addr, billKey, billCell, own)
		})
	},
}

var chapterReElectCmd = &cobra.Command{
	Use:   "re-elect <chapter> <new-elect>",
	Short: "Hand a chapter to a new elect",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := chapter.ParseAddress(args[0])
		if err != nil {
			return err
		}
		next, err := chapter.ParseAddress(args[1])
		if err != nil {
			return err
		}
		if !ui.ConfirmDanger(cmd.InOrStdin(), spinOut(), fmt.Sprintf("Give %s to %s? You lose control of it.", addr.Hex(), next.Hex())) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		return transact(cmd, "Re-elected", func(s *session) (common.Hash, error) {
			return s.client.ReElect(cmd.Context(), addr, next)
		})
	},
}

func init() {
	chapterSearchCmd.Flags().BoolVarP(&chapterPick, "pick", "p", false, "pick a result interactively and show it")
	chapterLumensCmd.Flags().Uint64VarP(&lumensCount, "count", "c", 2, "number of lumens, newest first")
	chapterSubscribeCmd.Flags().Uint64Var(&subscribeCycles, "cycles", 1, "billing cycles to approve")
	chapterDeployCmd.Flags().StringVar(&deployInterval, "interval", "1 month", `fee interval: "N weeks", "N months" or seconds`)
	chapterDeployCmd.Flags().StringVar(&deployFee, "fee", "", "fee per interval in whole tokens, e.g. 2 or 0.5")
	chapterDeployCmd.Flags().StringVar(&deployToken, "token", "", "fee token (default: LUX)")
	chapterDeployCmd.Flags().StringVar(&deployElect, "elect", "", "owner of the chapter (default: the selected wallet)")
	_ = chapterDeployCmd.MarkFlagRequired("fee")
	chapterBillCmd.Flags().StringVar(&billKey, "key", "", "next cycle key")
	chapterBillCmd.Flags().Uint64Var(&billCell, "cell", 0, "cell index")
	chapterBillCmd.Flags().StringVar(&billOwnKeys, "own-keys", "", "comma-separated sealed keys, one per hearer of the cell")
	_ = chapterBillCmd.MarkFlagRequired("key")

	chapterCmd.AddCommand(
		chapterSearchCmd,
		chapterInfoCmd,
		chapterLumensCmd,
		chapterSubscriptionsCmd,
		chapterLaggardsCmd,
		chapterHearerCmd,
		chapterSubscribeCmd,
		chapterCyclesCmd,
		chapterUnsubscribeCmd,
		chapterPostCmd,
		chapterNameCmd,
		chapterImageCmd,
		chapterDeployCmd,
		chapterBillCmd,
		chapterReElectCmd,
	)
}
