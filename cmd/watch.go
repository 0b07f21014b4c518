package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"digame/internal/app/chat"
	"digame/internal/tui"
)

var flagShowIDs bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream new messages and presence changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&flagShowIDs, "ids", false, "print message ids, for send --reply-to")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	views := make(chan chat.View, 1)
	poller := chat.NewPoller(env.client, cfg.PollInterval, func(v chat.View) {
		select {
		case views <- v:
		case <-ctx.Done():
		}
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		poller.Run(ctx)
		return nil
	})

	g.Go(func() error {
		out := cmd.OutOrStdout()
		tracker := tui.NewTracker()
		status := ""

		for {
			select {
			case v := <-views:
				if s := tui.Status(v); s != status {
					status = s
					fmt.Fprintf(out, "-- %s\n", s)
				}
				for _, m := range tracker.Unseen(v.Messages) {
					if flagShowIDs {
						fmt.Fprintf(out, "%s\n", m.ID)
					}
					for _, line := range tui.Lines(m) {
						fmt.Fprintln(out, line)
					}
				}

			case <-ctx.Done():
				return nil
			}
		}
	})

	return g.Wait()
}
