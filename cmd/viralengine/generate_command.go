package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"viralengine/internal/api"
	"viralengine/internal/engine"
	"viralengine/internal/jobs"
	"viralengine/internal/logging"
	"viralengine/internal/pipeline"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var topics []string
	var voiceID string
	var duration int
	var style string
	var pollInterval time.Duration
	var quiet bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one video per topic and wait for the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(topics) == 0 {
				return fmt.Errorf("at least one --topic is required")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: os.Stderr,
			})
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			eng, err := engine.New(cfg, pipeline.NewExecutors(cfg), logger)
			if err != nil {
				return err
			}
			if err := eng.Start(); err != nil {
				return err
			}
			defer eng.Stop()

			for _, topic := range topics {
				job, err := eng.Submit(cmd.Context(), jobs.Request{
					Topic:    topic,
					VoiceID:  voiceID,
					Duration: duration,
					Style:    style,
				})
				if err != nil {
					return fmt.Errorf("submit %q: %w", topic, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Accepted job %s for %q\n", job.ID, topic)
			}

			watchJobs(cmd.Context(), cmd.OutOrStdout(), eng, pollInterval, quiet)

			statuses := eng.Status().List()
			fmt.Fprintln(cmd.OutOrStdout(), renderJobTable(statuses))
			for _, status := range statuses {
				if status.Error != "" {
					return fmt.Errorf("%d of %d jobs failed", countFailed(statuses), len(statuses))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&topics, "topic", "t", nil, "Video topic (repeatable)")
	cmd.Flags().StringVar(&voiceID, "voice", "", "Voice identifier for the narration")
	cmd.Flags().IntVar(&duration, "duration", 0, "Target video length in seconds (default 60)")
	cmd.Flags().StringVar(&style, "style", "", "Presentation style (default engaging)")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", time.Second, "How often to print job progress")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output; print only the final table")
	_ = cmd.MarkFlagRequired("voice")

	return cmd
}

// watchJobs prints progress lines until every job reaches a terminal state.
// It relies on engine.Wait for the authoritative end of processing; the
// ticker only drives display.
func watchJobs(ctx context.Context, out io.Writer, eng *engine.Engine, interval time.Duration, quiet bool) {
	done := make(chan struct{})
	go func() {
		eng.Wait()
		close(done)
	}()

	if quiet || interval <= 0 {
		<-done
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastStep := make(map[string]string)
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, status := range eng.Status().Active() {
				line := formatProgressLine(status)
				if lastStep[status.ID] == line {
					continue
				}
				lastStep[status.ID] = line
				fmt.Fprintln(out, line)
			}
		}
	}
}

func formatProgressLine(status api.JobStatus) string {
	return fmt.Sprintf("%s  %3d%%  %-18s  %s", shortID(status.ID), status.Progress, status.Status, status.CurrentStep)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func countFailed(statuses []api.JobStatus) int {
	failed := 0
	for _, status := range statuses {
		if status.Status == string(jobs.StatusFailed) {
			failed++
		}
	}
	return failed
}
