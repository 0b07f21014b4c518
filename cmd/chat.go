package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"digame/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	if flagVerbose {
		// stderr would draw over the screen.
		flagVerbose = false
	}

	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.requireUser(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	return tui.NewApp(env.client, cfg.PollInterval).Run(ctx)
}
