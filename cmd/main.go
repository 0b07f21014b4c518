/*
Package main is the entry point of digame, a small group chat kept in one shared JSON document.

The client commands (register, login, logout, whoami, send, watch, chat) talk to the document
store configured by DIGAME_STORE_URL and keep the signed-in session in a local pebble store.
The serve command hosts a compatible document store.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"digame/internal/app/chat"
	"digame/internal/app/docstore"
	"digame/internal/app/session"
	"digame/internal/configs"
	"digame/internal/pkg/errs"
	"digame/internal/pkg/logx"
)

const (
	// LogFileName is the client log file, kept in the session directory.
	LogFileName = "digame.log"

	// SessionSubdir holds the pebble session store inside the session directory.
	SessionSubdir = "session"
)

var rootCmd = &cobra.Command{
	Use:               "digame",
	Short:             "diga-me: a tiny polling group chat",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

var (
	flagStoreURL   string
	flagSessionDir string
	flagVerbose    bool

	cfg *configs.AppConfig
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagStoreURL, "store-url", "", "document URL (overrides DIGAME_STORE_URL)")
	flags.StringVar(&flagSessionDir, "session-dir", "", "session and log directory (overrides DIGAME_SESSION_DIR)")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "log to stderr instead of the log file")

	rootCmd.AddCommand(
		registerCmd,
		loginCmd,
		logoutCmd,
		whoamiCmd,
		sendCmd,
		watchCmd,
		chatCmd,
		serveCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "digame:", userMessage(err))
		os.Exit(1)
	}
}

func loadConfig(_ *cobra.Command, _ []string) error {
	loaded, err := configs.LoadConfig(
		configs.WithStoreURL(flagStoreURL),
		configs.WithSessionDir(flagSessionDir),
	)
	if err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// userMessage prefers the user-facing text of coded errors.
func userMessage(err error) string {
	if customErr, ok := errs.AsCustomError(err); ok {
		return customErr.Message
	}
	return err.Error()
}

// clientEnv is what every client command needs: the chat client and its session store.
type clientEnv struct {
	client   *chat.Client
	sessions *session.Store
	logFile  *os.File
}

// openClient initializes client logging, opens the session store and restores the session.
func openClient() (*clientEnv, error) {
	if err := os.MkdirAll(cfg.SessionDir, 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	env := &clientEnv{}

	if flagVerbose {
		logx.InitGlobalLogger(cfg.IsDevelopment(), nil)
	} else {
		f, err := os.OpenFile(filepath.Join(cfg.SessionDir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		env.logFile = f
		logx.InitGlobalLogger(cfg.IsDevelopment(), f)
	}

	sessions, err := session.Open(filepath.Join(cfg.SessionDir, SessionSubdir))
	if err != nil {
		env.Close()
		return nil, err
	}
	env.sessions = sessions

	store := docstore.NewHTTPStore(cfg.StoreURL, cfg.RequestTimeout)
	env.client = chat.NewClient(store, sessions)

	if _, err := env.client.Restore(); err != nil {
		env.Close()
		return nil, err
	}

	return env, nil
}

// requireUser fails when nobody is signed in.
func (e *clientEnv) requireUser() error {
	if e.client.CurrentUser() == nil {
		return errs.NewError(errs.ErrNotAuthenticated)
	}
	return nil
}

// Close releases the session store and the log file.
func (e *clientEnv) Close() {
	if e.sessions != nil {
		if err := e.sessions.Close(); err != nil {
			logx.Warn("Failed to close session store.", "error", err.Error())
		}
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}
