package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the resolved value of one key",
	Long: `Get prints only the resolved value, suitable for shell substitution.
A key that resolves to nothing exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	r := eng.Resolve(args[0])
	if r.Value.IsAbsent() {
		return fmt.Errorf("key %q did not resolve to a value", args[0])
	}
	fmt.Println(r.Value.String())
	return nil
}
