// Package main implements reporterctl, a command line client for The
// Reporter API. It keeps a login session on disk and drives the same
// endpoints the web client uses.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bojo500/the-reporter/internal/client"
)

var (
	serverURL   string
	sessionPath string
)

func newClient() (*client.Client, *client.SessionStore, error) {
	store, err := client.NewSessionStore(sessionPath)
	if err != nil {
		return nil, nil, err
	}
	return client.New(serverURL, store), store, nil
}

func main() {
	root := &cobra.Command{
		Use:   "reporterctl",
		Short: "Command line client for The Reporter",
		Long: `reporterctl talks to The Reporter API: register and verify accounts,
log in, open shifts, submit shift reports, and export the report table.`,
		SilenceUsage: true,
	}

	defaultServer := os.Getenv("REPORTER_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:3000"
	}

	root.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "base URL of the API server")
	root.PersistentFlags().StringVar(&sessionPath, "session", "", "path of the session file (default: user config dir)")

	root.AddCommand(
		newRegisterCmd(),
		newVerifyEmailCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newShiftsCmd(),
		newReportCmd(),
		newExportCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
