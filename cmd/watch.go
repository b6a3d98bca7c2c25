package cmd

import (
	"fmt"
	"time"

	"github.com/Mohsinsiddi/lumen/internal/chapter"
	"github.com/Mohsinsiddi/lumen/internal/ui"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the fees of the chapters you hear",
	Long: `Poll every chapter the selected wallet hears and report fee changes
until interrupted. The first poll only records the current fees.

Examples:
  lumen watch
  lumen watch --interval 1m`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), readOnly)
		if err != nil {
			return err
		}
		defer s.Close()
		if _, err := s.me(); err != nil {
			return err
		}

		interval := watchInterval
		if interval <= 0 {
			interval = cfg.Interval()
		}
		fmt.Println(ui.Meta(fmt.Sprintf("Watching fees on %s every %s. Ctrl+C to stop.", s.chain.ChainName, interval)))

		w := s.client.NewFeeWatcher()
		w.Run(cmd.Context(), interval, func(c chapter.FeeChange) {
			fmt.Printf("%s  %s  %s → %s\n",
				ui.Meta(time.Now().Format(time.TimeOnly)),
				ui.Addr(c.Chapter.Hex()),
				c.Old, ui.Val(c.New.String()))
		}, func(err error) {
			log.Warn("Fee poll failed", "err", err)
		})
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (default: config watch_interval)")
}
