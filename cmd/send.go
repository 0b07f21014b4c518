package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"digame/internal/pkg/errs"
	"digame/internal/tui"
)

var flagReplyTo string

var sendCmd = &cobra.Command{
	Use:   "send <text>...",
	Short: "Send one message",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&flagReplyTo, "reply-to", "r", "", "id of the message to quote")
}

func runSend(cmd *cobra.Command, args []string) error {
	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.requireUser(); err != nil {
		return err
	}

	if flagReplyTo != "" {
		if err := env.client.Sync(cmd.Context()); err != nil {
			return errs.NewError(errs.ErrStoreUnavailable)
		}

		found := false
		for _, m := range env.client.Snapshot().Messages {
			if m.ID == flagReplyTo {
				if err := env.client.SetReply(m); err != nil {
					return err
				}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("message %s is not in the last messages", flagReplyTo)
		}
	}

	env.client.SetInput(strings.Join(args, " "))

	msg, err := env.client.Send(cmd.Context())
	if err != nil {
		return err
	}
	if msg == nil {
		return errs.NewError(errs.ErrInvalidParams)
	}

	for _, line := range tui.Lines(*msg) {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
