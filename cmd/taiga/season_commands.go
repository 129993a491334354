package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/config"
	"github.com/Venipa/taiga/internal/discover"
	"github.com/Venipa/taiga/internal/logging"
	"github.com/Venipa/taiga/internal/seasondoc"
	"github.com/Venipa/taiga/internal/transfer"
	"github.com/Venipa/taiga/internal/watch"
)

func newSeasonCommand(ctx *commandContext) *cobra.Command {
	seasonCmd := &cobra.Command{
		Use:   "season",
		Short: "Load, review, and inspect season lists",
	}

	seasonCmd.AddCommand(newSeasonLoadCommand(ctx))
	seasonCmd.AddCommand(newSeasonReviewCommand(ctx))
	seasonCmd.AddCommand(newSeasonShowCommand(ctx))
	seasonCmd.AddCommand(newSeasonRefreshCheckCommand(ctx))
	seasonCmd.AddCommand(newSeasonExportCommand(ctx))
	seasonCmd.AddCommand(newSeasonWatchCommand(ctx))

	return seasonCmd
}

type loadSummary struct {
	Season   string `json:"season"`
	Ready    bool   `json:"ready"`
	Count    int    `json:"count"`
	FromFile bool   `json:"from_file"`
}

// loadOrFallback loads the season file, falling back to a library-only list
// when the file is not available yet.
func (s *session) loadOrFallback(ctx context.Context, season anime.Season) (bool, error) {
	err := s.seasons.LoadSeason(ctx, season)
	if err == nil {
		return true, nil
	}
	if !isNotReady(err) {
		return false, err
	}
	if err := s.seasons.LoadSeasonFromMemory(ctx, season); err != nil {
		return false, err
	}
	return false, nil
}

func newSeasonLoadCommand(ctx *commandContext) *cobra.Command {
	var wait bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "load <season>",
		Short: "Load a season file into the library, downloading it when missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := parseSeasonArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(true, func(s *session) error {
				if !s.seasons.IsAvailable(season) {
					logging.WarnWithContext(s.logger, "season outside the configured range", "season_out_of_range",
						logging.Season(season),
						logging.String(logging.FieldErrorHint, "adjust seasons.earliest or seasons.latest"),
						logging.String(logging.FieldImpact, "season data may not exist remotely"),
					)
				}

				done := make(chan transfer.Result, 1)
				s.dispatcher.SetOnComplete(func(r transfer.Result) {
					select {
					case done <- r:
					default:
					}
				})

				err := s.seasons.LoadSeason(cmd.Context(), season)
				if isNotReady(err) && wait {
					err = waitAndReload(cmd.Context(), s, season, done, timeout)
				}
				summary := loadSummary{Season: season.String(), Ready: err == nil}
				if err != nil && !isNotReady(err) {
					return err
				}
				if err == nil {
					summary.FromFile = true
					summary.Count = len(s.seasons.Items())
				}

				return ctx.emit(cmd, summary, func(out io.Writer) error {
					if !summary.Ready {
						fmt.Fprintf(out, "Season data for %s is not available locally; download requested.\n", summary.Season)
						return nil
					}
					fmt.Fprintf(out, "Loaded %d titles for %s\n", summary.Count, summary.Season)
					return nil
				})
			})
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for a requested download and load the season once it arrives")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "How long --wait waits for the download")
	return cmd
}

func waitAndReload(ctx context.Context, s *session, season anime.Season, done <-chan transfer.Result, timeout time.Duration) error {
	if s.cfg.Seasons.RemoteLocation == "" {
		return discover.ErrNotReady
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case result := <-done:
		if result.Err != nil {
			return fmt.Errorf("download season data: %w", result.Err)
		}
	case <-timer.C:
		return fmt.Errorf("timed out after %s waiting for season data: %w", timeout, discover.ErrNotReady)
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.seasons.LoadSeason(ctx, season)
}

type reviewSummary struct {
	Season  string       `json:"season"`
	Removed []int64      `json:"removed"`
	Added   []int64      `json:"added"`
	Items   []recordView `json:"items"`
}

func newSeasonReviewCommand(ctx *commandContext) *cobra.Command {
	var showNSFW bool

	cmd := &cobra.Command{
		Use:   "review <season>",
		Short: "Re-apply the season interval and content filter to a season list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := parseSeasonArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(true, func(s *session) error {
				if _, err := s.loadOrFallback(cmd.Context(), season); err != nil {
					return err
				}
				result, err := s.seasons.Review(cmd.Context(), s.seasons.Policy(!showNSFW))
				if err != nil {
					return err
				}
				records, err := s.seasons.Records(cmd.Context())
				if err != nil {
					return err
				}

				summary := reviewSummary{Season: season.String(), Removed: idList(result.Removed), Added: idList(result.Added)}
				for _, item := range records {
					summary.Items = append(summary.Items, newRecordView(item, s.registry))
				}
				return ctx.emit(cmd, summary, func(out io.Writer) error {
					fmt.Fprintf(out, "%s: %d titles (%d removed, %d added)\n",
						summary.Season, len(records), len(result.Removed), len(result.Added))
					if len(records) > 0 {
						fmt.Fprintln(out, renderTable(out, recordHeaders, recordRows(records), recordAligns))
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().BoolVar(&showNSFW, "show-nsfw", false, "Include titles flagged as mature")
	return cmd
}

func newSeasonShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <season>",
		Short: "Print the titles of a season",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := parseSeasonArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(true, func(s *session) error {
				fromFile, err := s.loadOrFallback(cmd.Context(), season)
				if err != nil {
					return err
				}
				if fromFile {
					if _, err := s.seasons.Review(cmd.Context(), s.seasons.Policy(s.cfg.Discover.HideNSFW)); err != nil {
						return err
					}
				}
				records, err := s.seasons.Records(cmd.Context())
				if err != nil {
					return err
				}
				views := make([]recordView, 0, len(records))
				for _, item := range records {
					views = append(views, newRecordView(item, s.registry))
				}
				return ctx.emit(cmd, views, func(out io.Writer) error {
					if len(records) == 0 {
						fmt.Fprintf(out, "No titles for %s\n", season)
						return nil
					}
					fmt.Fprintln(out, renderTable(out, recordHeaders, recordRows(records), recordAligns))
					return nil
				})
			})
		},
	}
}

func newSeasonRefreshCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-check <season>",
		Short: "Report whether the season's titles lack start dates or synopses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := parseSeasonArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(true, func(s *session) error {
				if _, err := s.loadOrFallback(cmd.Context(), season); err != nil {
					return err
				}
				needed, err := s.seasons.NeedsRefresh(cmd.Context())
				if err != nil {
					return err
				}
				payload := map[string]any{"season": season.String(), "refresh_required": needed}
				return ctx.emit(cmd, payload, func(out io.Writer) error {
					fmt.Fprintf(out, "Refresh required: %s\n", yesNo(needed))
					return nil
				})
			})
		},
	}
}

func newSeasonExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <season> <out.xml>",
		Short: "Write the season list as a season data file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := parseSeasonArg(args[0])
			if err != nil {
				return err
			}
			target, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}
			return ctx.withSession(true, func(s *session) error {
				if _, err := s.loadOrFallback(cmd.Context(), season); err != nil {
					return err
				}
				doc, err := s.seasons.Export(cmd.Context())
				if err != nil {
					return err
				}
				if err := seasondoc.WriteFile(target, doc); err != nil {
					return err
				}
				payload := map[string]any{"season": season.String(), "path": target, "count": len(doc.Anime)}
				return ctx.emit(cmd, payload, func(out io.Writer) error {
					fmt.Fprintf(out, "Exported %d titles to %s\n", len(doc.Anime), target)
					return nil
				})
			})
		},
	}
}

func newSeasonWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <season>",
		Short: "Reload the season whenever its data file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := parseSeasonArg(args[0])
			if err != nil {
				return err
			}
			runCtx := cmd.Context()
			return ctx.withSession(true, func(s *session) error {
				out := cmd.OutOrStdout()
				reload := func() {
					err := s.seasons.LoadSeason(runCtx, season)
					switch {
					case isNotReady(err):
						fmt.Fprintf(out, "Waiting for %s season data...\n", season)
						return
					case err != nil:
						logging.ErrorWithContext(s.logger, "season reload failed", "season_reload_failed", logging.Error(err))
						return
					}
					if _, err := s.seasons.Review(runCtx, s.seasons.Policy(s.cfg.Discover.HideNSFW)); err != nil {
						logging.ErrorWithContext(s.logger, "season review failed", "season_review_failed", logging.Error(err))
						return
					}
					fmt.Fprintf(out, "%s: %d titles\n", season, len(s.seasons.Items()))
				}

				reload()
				w := &watch.Watcher{
					Dir:    s.cfg.Paths.SeasonDir,
					Match:  watch.MatchName(season.FileName()),
					Logger: s.logger,
				}
				err := w.Run(runCtx, func(string) { reload() })
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
}

func idList(ids []anime.ID) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = append(out, int64(id))
	}
	return out
}
