package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"digame/internal/app/docstore"
	"digame/internal/pkg/logx"
)

var newBinCmd = &cobra.Command{
	Use:   "new-bin <server-url>",
	Short: "Create a fresh chat document on a digame bin server and print its URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runNewBin,
}

func init() {
	rootCmd.AddCommand(newBinCmd)
}

func runNewBin(cmd *cobra.Command, args []string) error {
	logx.InitGlobalLogger(cfg.IsDevelopment(), nil)

	url, err := docstore.CreateBin(cmd.Context(), args[0], cfg.RequestTimeout)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
