package lsproxy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// RunnerConfig describes how to launch the lsproxy container for a
// workspace.
type RunnerConfig struct {
	Image        string        // container image, e.g. "agenticlabs/lsproxy:latest"
	Port         int           // host port mapped to the service's 4444
	Workspace    string        // host directory mounted at /mnt/workspace
	LogPath      string        // where container output is written
	StartTimeout time.Duration // how long WaitReady polls before giving up
}

// DefaultRunnerConfig returns the launch settings the CLI uses unless
// flags override them.
func DefaultRunnerConfig(workspace string) RunnerConfig {
	return RunnerConfig{
		Image:        "agenticlabs/lsproxy:latest",
		Port:         4444,
		Workspace:    workspace,
		LogPath:      "lsproxy.log",
		StartTimeout: 120 * time.Second,
	}
}

// Runner owns a running lsproxy container process.
type Runner struct {
	cmd     *exec.Cmd
	logFile *os.File
	log     *slog.Logger
}

// StartContainer launches the lsproxy container and blocks until the
// service answers its workspace listing, or fails after the configured
// start timeout.
func StartContainer(ctx context.Context, cfg RunnerConfig, client *Client, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logFile, err := os.Create(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("creating container log: %w", err)
	}

	logger.Info("starting lsproxy container",
		slog.String("image", cfg.Image), slog.String("workspace", cfg.Workspace))

	cmd := exec.Command("docker", "run", "--rm",
		"-v", cfg.Workspace+":/mnt/workspace",
		"-p", fmt.Sprintf("%d:4444", cfg.Port),
		cfg.Image)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("starting container: %w", err)
	}

	r := &Runner{cmd: cmd, logFile: logFile, log: logger}

	logger.Info("waiting for lsproxy to index the workspace")
	if err := client.WaitReady(ctx, cfg.StartTimeout); err != nil {
		r.Close()
		return nil, err
	}

	logger.Info("lsproxy is running")
	return r, nil
}

// Close terminates the container process and closes its log.
func (r *Runner) Close() {
	if r.cmd != nil && r.cmd.Process != nil {
		r.log.Info("shutting down lsproxy container")
		_ = r.cmd.Process.Kill()
		_ = r.cmd.Wait()
	}
	if r.logFile != nil {
		_ = r.logFile.Close()
	}
}
