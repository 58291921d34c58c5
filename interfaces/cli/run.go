package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/workflow-go/application"
	"github.com/felixgeelhaar/workflow-go/domain/workflow"
	"github.com/felixgeelhaar/workflow-go/infrastructure/config"
	badgerstore "github.com/felixgeelhaar/workflow-go/infrastructure/storage/badger"
)

// runOptions holds options for the run command.
type runOptions struct {
	configPath    string
	goal          string
	maxIterations int
	knowledgePath string
	storeDir      string
	retries       int
	jsonOutput    bool
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [goal]",
		Short: "Run a workflow for the specified goal",
		Long: `Run a workflow against the provider selected in the configuration file.

The workflow iterates until the model reports completion, asks for
clarification, or the iteration budget is exhausted. Each turn's state is
snapshotted, so a failed run keeps everything produced up to its last
successful turn.

Examples:
  # Run with a config file and a goal
  workflow run -c settings.yaml "Write a CSV parsing library in Python"

  # Run with a knowledge document available for searches
  workflow run -c settings.yaml --knowledge notes.md "Summarize our protocol decisions"

  # Persist run snapshots on disk and retry transient provider failures
  workflow run -c settings.yaml --store-dir ./runs --retries 3 "Test goal"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.goal = args[0]
			return a.runWorkflow(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", 0, "Maximum workflow turns (default 20)")
	cmd.Flags().StringVar(&opts.knowledgePath, "knowledge", "", "Path to a knowledge document for searches")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "Directory for on-disk run snapshots (default in-memory)")
	cmd.Flags().IntVar(&opts.retries, "retries", 0, "Retry attempts per turn for transient failures (default none)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the final state as JSON")

	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// runWorkflow executes the workflow with the given options.
func (a *App) runWorkflow(ctx context.Context, opts *runOptions) error {
	settings, err := config.NewLoader().Load(opts.configPath, config.WithEnvExpansion(true))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var ragContent string
	if opts.knowledgePath != "" {
		data, err := os.ReadFile(opts.knowledgePath)
		if err != nil {
			return fmt.Errorf("failed to read knowledge document: %w", err)
		}
		ragContent = string(data)
	}

	state, err := workflow.New(opts.goal, opts.maxIterations)
	if err != nil {
		return err
	}

	driverOpts := []application.Option{}
	if opts.storeDir != "" {
		store, err := badgerstore.NewStore(badgerstore.Config{Dir: opts.storeDir})
		if err != nil {
			return fmt.Errorf("failed to open snapshot store: %w", err)
		}
		defer store.Close()
		driverOpts = append(driverOpts, application.WithStore(store))
	}
	if opts.retries > 0 {
		driverOpts = append(driverOpts, application.WithTurnRetry(opts.retries, time.Second))
	}

	driver := application.NewDriver(driverOpts...)

	result, runErr := driver.Run(ctx, state, *settings, ragContent)
	if result != nil {
		if err := a.printResult(result, opts.jsonOutput); err != nil {
			return err
		}
	}
	if runErr != nil && !errors.Is(runErr, workflow.ErrBudgetExhausted) {
		return runErr
	}
	return nil
}

// printResult renders the final state for the user.
func (a *App) printResult(result *application.RunResult, jsonOutput bool) error {
	if jsonOutput {
		data, err := result.State.MarshalIndent()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(data))
		return nil
	}

	state := result.State
	fmt.Fprintf(a.stdout, "Run %s finished with status %s after %d turn(s).\n", result.RunID, state.Status, result.Turns)

	switch state.Status {
	case workflow.StatusCompleted:
		fmt.Fprintf(a.stdout, "\n%s\n", state.FinalResultMarkdown)
		if state.FinalResultSummary != "" {
			fmt.Fprintf(a.stdout, "\nSummary: %s\n", state.FinalResultSummary)
		}
	case workflow.StatusNeedsClarification:
		fmt.Fprintf(a.stdout, "\nThe model needs clarification: %s\n", state.State.Notes)
	case workflow.StatusRunning:
		fmt.Fprintf(a.stdout, "\nIteration budget exhausted. Last progress: %s\n", state.State.Progress)
	case workflow.StatusError:
		fmt.Fprintf(a.stdout, "\nThe run failed. Last notes: %s\n", state.State.Notes)
	}
	return nil
}
