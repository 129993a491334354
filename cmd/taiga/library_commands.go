package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/library"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and edit library records",
	}

	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibrarySetCommand(ctx))
	libraryCmd.AddCommand(newLibraryRemoveCommand(ctx))

	return libraryCmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List library records in insertion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(false, func(s *session) error {
				items, err := s.store.All(cmd.Context())
				if err != nil {
					return err
				}
				views := make([]recordView, 0, len(items))
				for _, item := range items {
					views = append(views, newRecordView(item, s.registry))
				}
				return ctx.emit(cmd, views, func(out io.Writer) error {
					if len(items) == 0 {
						fmt.Fprintln(out, "Library is empty")
						return nil
					}
					fmt.Fprintln(out, renderTable(out, recordHeaders, recordRows(items), recordAligns))
					return nil
				})
			})
		},
	}
}

func newLibrarySetCommand(ctx *commandContext) *cobra.Command {
	var start, synopsis, rating, genres string

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Set the start date, synopsis, rating, or genres of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("start") && !flags.Changed("synopsis") && !flags.Changed("rating") && !flags.Changed("genres") {
				return errors.New("nothing to set (use --start, --synopsis, --rating, or --genres)")
			}
			var date anime.Date
			if flags.Changed("start") && strings.TrimSpace(start) != "" {
				date, err = anime.ParseDate(start)
				if err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}

			return ctx.withSession(true, func(s *session) error {
				item, err := s.store.FindByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("record %d: %w", id, library.ErrNotFound)
				}
				if flags.Changed("start") {
					item.DateStart = date
				}
				if flags.Changed("synopsis") {
					text := synopsis
					item.Synopsis = &text
				}
				if flags.Changed("rating") {
					item.AgeRating = strings.TrimSpace(rating)
				}
				if flags.Changed("genres") {
					item.Genres = splitList(genres)
				}
				if err := s.store.UpdateExisting(cmd.Context(), id, item); err != nil {
					return err
				}
				if err := s.store.Save(cmd.Context()); err != nil {
					return err
				}
				return ctx.emit(cmd, newRecordView(item, s.registry), func(out io.Writer) error {
					fmt.Fprintf(out, "Updated record %d (%s)\n", id, item.Title)
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, empty clears)")
	cmd.Flags().StringVar(&synopsis, "synopsis", "", "Synopsis text")
	cmd.Flags().StringVar(&rating, "rating", "", "Age rating (e.g. PG-13, Rx)")
	cmd.Flags().StringVar(&genres, "genres", "", "Comma separated genres")
	return cmd
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a record from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(true, func(s *session) error {
				if err := s.store.Delete(cmd.Context(), id); err != nil {
					if errors.Is(err, library.ErrNotFound) {
						return fmt.Errorf("record %d not found", id)
					}
					return err
				}
				if err := s.store.Save(cmd.Context()); err != nil {
					return err
				}
				payload := map[string]any{"removed": int64(id)}
				return ctx.emit(cmd, payload, func(out io.Writer) error {
					fmt.Fprintf(out, "Removed record %d\n", id)
					return nil
				})
			})
		},
	}
}

func parseRecordID(value string) (anime.ID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", value)
	}
	return anime.ID(id), nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
