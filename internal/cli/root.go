// Package cli wires the blastr commands together.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blastr",
	Short: "Compute the blast radius of a code change",
	Long: `blastr analyzes the impact of a change between two revisions of a
repository. It parses the diff, resolves the changed lines to their
enclosing symbol definitions through an lsproxy language server, and
walks the referenced-by relation outward until no new symbols appear.

The result is the blast radius: every symbol whose behavior can be
affected by the change, with the reference edges connecting them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(radiusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the slog logger commands share. Debug level is gated
// on --verbose; output always goes to stderr so stdout stays clean for
// report artifacts.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
