package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"digame/internal/app/avatar"
)

var (
	flagPassword string
	flagAvatar   string
)

var registerCmd = &cobra.Command{
	Use:   "register <nickname>",
	Short: "Create an account in the shared document and sign in",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login <nickname>",
	Short: "Sign in with an existing account",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the local session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the signed-in nickname",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVarP(&flagPassword, "password", "p", "", "password (prompted when omitted)")
	}
	registerCmd.Flags().StringVar(&flagAvatar, "avatar", "", "image file used as profile picture")
}

func runRegister(cmd *cobra.Command, args []string) error {
	pic := ""
	if flagAvatar != "" {
		var err error
		if pic, err = avatar.FromFile(flagAvatar); err != nil {
			return fmt.Errorf("read avatar: %w", err)
		}
	}

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	reg, err := env.client.Register(cmd.Context(), args[0], password, pic)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", reg.Nickname)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	reg, err := env.client.Login(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", reg.Nickname)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.client.Logout(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	if me := env.client.CurrentUser(); me != nil {
		fmt.Fprintln(cmd.OutOrStdout(), me.Nickname)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
	return nil
}

// readPassword returns --password, or prompts for it without echo on a terminal.
func readPassword(cmd *cobra.Command) (string, error) {
	if flagPassword != "" {
		return flagPassword, nil
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
