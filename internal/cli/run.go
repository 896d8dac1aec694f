package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/blastr/internal/analysis"
	"github.com/sprite-ai/blastr/internal/diff"
	"github.com/sprite-ai/blastr/internal/lsproxy"
)

var runCmd = &cobra.Command{
	Use:   "run <repo-url|path> <rev-a> <rev-b>",
	Short: "Run the full blast-radius pipeline for a change",
	Long: `Run the full pipeline: fetch the repository, check out the base
revision, start an lsproxy container over the working tree, diff the two
revisions, and trace the blast radius of every changed line.

Remote URLs are cloned into a temporary directory; local paths are used
in place (the base revision is checked out, so the working tree must be
clean). Pass --server to target an already running lsproxy instead of
starting a container.

Examples:
  blastr run https://github.com/acme/widgets main feature/retry
  blastr run . HEAD~3 HEAD --tui
  blastr run ~/src/widgets v1.2.0 v1.3.0 --server http://localhost:4444/v1`,
	Args: cobra.ExactArgs(3),
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("server", "", "base URL of a running lsproxy (skips the container)")
	runCmd.Flags().String("image", "agenticlabs/lsproxy:latest", "lsproxy container image")
	runCmd.Flags().Int("port", 4444, "host port for the lsproxy container")
	runCmd.Flags().StringP("strategy", "s", "all", "symbol match strategy: all, innermost, or first")
	runCmd.Flags().StringP("out", "o", "blastr-out", "directory for report artifacts")
	runCmd.Flags().Bool("tui", false, "browse the result interactively")
	runCmd.Flags().String("trace", "", "write a JSONL traversal trace to this path")
	runCmd.Flags().Duration("timeout", 30*time.Second, "per-request timeout for the symbol service")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	ctx := cmd.Context()

	repoArg, revA, revB := args[0], args[1], args[2]

	strategyFlag, _ := cmd.Flags().GetString("strategy")
	strategy, err := analysis.ParseMatchStrategy(strategyFlag)
	if err != nil {
		return err
	}

	repoDir, cleanup, err := prepareWorkspace(repoArg, revA)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := lsproxy.DefaultConfig()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}

	serverURL, _ := cmd.Flags().GetString("server")
	if serverURL != "" {
		cfg.BaseURL = serverURL
	}

	client := lsproxy.New(cfg, logger)

	if serverURL == "" {
		runnerCfg := lsproxy.DefaultRunnerConfig(repoDir)
		runnerCfg.Image, _ = cmd.Flags().GetString("image")
		runnerCfg.Port, _ = cmd.Flags().GetInt("port")

		runner, err := lsproxy.StartContainer(ctx, runnerCfg, client, logger)
		if err != nil {
			return err
		}
		defer runner.Close()
	}

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

	outDir, _ := cmd.Flags().GetString("out")
	if err := writeArtifacts(g, rawDiff, outDir); err != nil {
		return err
	}

	interactive, _ := cmd.Flags().GetBool("tui")
	return presentGraph(g, interactive)
}

// prepareWorkspace resolves the repo argument into a working tree with
// the base revision checked out. Remote URLs are cloned into a temp dir
// that the returned cleanup removes.
func prepareWorkspace(repoArg, revA string) (string, func(), error) {
	noop := func() {}

	if isRemoteURL(repoArg) {
		dir, err := os.MkdirTemp("", "blastr-repo-*")
		if err != nil {
			return "", noop, fmt.Errorf("creating temp dir: %w", err)
		}
		cleanup := func() { _ = os.RemoveAll(dir) }

		if err := diff.Clone(repoArg, dir); err != nil {
			cleanup()
			return "", noop, err
		}
		if err := diff.Checkout(dir, revA); err != nil {
			cleanup()
			return "", noop, err
		}
		return dir, cleanup, nil
	}

	if _, err := os.Stat(repoArg); err != nil {
		return "", noop, fmt.Errorf("repo path %s: %w", repoArg, err)
	}
	if err := diff.Checkout(repoArg, revA); err != nil {
		return "", noop, err
	}
	return repoArg, noop, nil
}

func isRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "git@")
}
