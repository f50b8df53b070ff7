package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [key]",
	Short: "Print resolved configuration values",
	Long: `Resolve prints the effective value of one key, or of every resolved
key when no argument is given, together with its kind and provenance.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if len(args) == 1 {
		r := eng.Resolve(args[0])
		fmt.Printf("%s\t%s\t%s\t%s\n", args[0], r.Value.Kind(), r.Provenance, r.Value.String())
		return nil
	}

	snap := eng.Snapshot()
	keys := snap.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		r := snap.Get(k)
		fmt.Printf("%s\t%s\t%s\t%s\n", k, r.Value.Kind(), r.Provenance, r.Value.String())
	}
	return nil
}
