package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch and activate a new remote value set",
	Long: `Refresh fetches the remote configuration endpoint once and prints the
size of the resulting snapshot. It requires --remote-url.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	if remoteURL == "" {
		return fmt.Errorf("refresh requires --remote-url")
	}

	eng, closeFn, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := eng.Refresh(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("refreshed: %d keys resolved\n", eng.Snapshot().Len())
	return nil
}
