package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.eggybyte.com/flagx/core/value"
)

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Manage persisted local overrides",
	Long: `Override manages the locally persisted layer that dominates both
remote and default values. Raw values decode through the same heuristic
applied to remote data, so "true" becomes a bool and "42" an int.`,
}

var overrideSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist an override for a key",
	Args:  cobra.ExactArgs(2),
	RunE:  runOverrideSet,
}

var overrideClearCmd = &cobra.Command{
	Use:   "clear <key>",
	Short: "Remove the override for a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runOverrideClear,
}

var overrideClearAllCmd = &cobra.Command{
	Use:   "clear-all",
	Short: "Remove every persisted override",
	Args:  cobra.NoArgs,
	RunE:  runOverrideClearAll,
}

func init() {
	overrideCmd.AddCommand(overrideSetCmd)
	overrideCmd.AddCommand(overrideClearCmd)
	overrideCmd.AddCommand(overrideClearAllCmd)
	rootCmd.AddCommand(overrideCmd)
}

func runOverrideSet(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	key, raw := args[0], args[1]
	v := value.Decode(raw)
	if err := eng.SetOverride(cmd.Context(), key, v); err != nil {
		return err
	}

	r := eng.Resolve(key)
	fmt.Printf("%s\t%s\t%s\t%s\n", key, r.Value.Kind(), r.Provenance, r.Value.String())
	return nil
}

func runOverrideClear(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	key := args[0]
	if err := eng.ClearOverride(cmd.Context(), key); err != nil {
		return err
	}

	r := eng.Resolve(key)
	fmt.Printf("%s\t%s\t%s\t%s\n", key, r.Value.Kind(), r.Provenance, r.Value.String())
	return nil
}

func runOverrideClearAll(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := eng.ClearAllOverrides(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("all overrides cleared")
	return nil
}
