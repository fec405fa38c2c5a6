package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect the stored session cookie",
}

var sessionCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the stored session cookie is still accepted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		cookie, err := a.settings.SessionCookie(cmd.Context())
		if err != nil {
			return err
		}
		if cookie == "" {
			return fmt.Errorf("no session cookie set; run: netoverlap settings set li_at_cookie <value>")
		}

		valid, err := a.session.Check(cmd.Context(), cookie)
		if err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("session expired; update the li_at_cookie setting")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session is valid")
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionCheckCmd)
	rootCmd.AddCommand(sessionCmd)
}
