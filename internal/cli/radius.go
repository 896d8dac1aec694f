package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/blastr/internal/analysis"
	"github.com/sprite-ai/blastr/internal/lsproxy"
)

var radiusCmd = &cobra.Command{
	Use:   "radius [repo-dir] <rev-a> <rev-b>",
	Short: "Trace the blast radius against a running lsproxy",
	Long: `Trace the blast radius of a change in a local working tree using an
lsproxy that is already serving it. Nothing is cloned, checked out, or
started; the working tree is diffed between the two revisions as-is.

Examples:
  blastr radius HEAD~1 HEAD
  blastr radius ~/src/widgets main HEAD --server http://localhost:4444/v1
  blastr radius . main HEAD --strategy innermost --tui`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runRadius,
}

func init() {
	radiusCmd.Flags().String("server", lsproxy.DefaultBaseURL, "base URL of the running lsproxy")
	radiusCmd.Flags().StringP("strategy", "s", "all", "symbol match strategy: all, innermost, or first")
	radiusCmd.Flags().StringP("out", "o", "", "directory for report artifacts (skipped when empty)")
	radiusCmd.Flags().Bool("tui", false, "browse the result interactively")
	radiusCmd.Flags().String("trace", "", "write a JSONL traversal trace to this path")
	radiusCmd.Flags().Duration("timeout", 30*time.Second, "per-request timeout for the symbol service")
}

func runRadius(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	ctx := cmd.Context()

	repoDir := "."
	if len(args) == 3 {
		repoDir = args[0]
		args = args[1:]
	}
	revA, revB := args[0], args[1]

	strategyFlag, _ := cmd.Flags().GetString("strategy")
	strategy, err := analysis.ParseMatchStrategy(strategyFlag)
	if err != nil {
		return err
	}

	cfg := lsproxy.DefaultConfig()
	cfg.BaseURL, _ = cmd.Flags().GetString("server")
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}

	client := lsproxy.New(cfg, logger)

	tracePath, _ := cmd.Flags().GetString("trace")
	rec, closeTrace, err := openRecorder(tracePath)
	if err != nil {
		return err
	}
	defer closeTrace()

	g, rawDiff, err := radiusPipeline(ctx, client, strategy, repoDir, revA, revB, rec, logger)
	if err != nil {
		return err
	}

	if outDir, _ := cmd.Flags().GetString("out"); outDir != "" {
		if err := writeArtifacts(g, rawDiff, outDir); err != nil {
			return err
		}
	}

	interactive, _ := cmd.Flags().GetBool("tui")
	return presentGraph(g, interactive)
}
