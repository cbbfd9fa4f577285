package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the relay is up",
	RunE: func(cmd *cobra.Command, _ []string) error {
		hs, err := newClient().Health(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", hs.Status, hs.Timestamp.Format(time.RFC3339Nano))
		return nil
	},
}
