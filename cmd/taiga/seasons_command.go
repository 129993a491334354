package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

type availableSeason struct {
	Season string `json:"season"`
	File   string `json:"file"`
	Local  bool   `json:"local"`
}

func newSeasonsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seasons",
		Short: "List the seasons available for browsing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(false, func(s *session) error {
				var list []availableSeason
				for _, season := range s.seasons.Available() {
					name := season.FileName()
					_, err := os.Stat(s.cfg.SeasonPath(name))
					if err != nil && !errors.Is(err, fs.ErrNotExist) {
						return fmt.Errorf("inspect season file %s: %w", name, err)
					}
					list = append(list, availableSeason{Season: season.String(), File: name, Local: err == nil})
				}

				return ctx.emit(cmd, list, func(out io.Writer) error {
					rows := make([][]string, 0, len(list))
					for _, entry := range list {
						rows = append(rows, []string{entry.Season, entry.File, yesNo(entry.Local)})
					}
					fmt.Fprintln(out, renderTable(out, []string{"Season", "File", "Local"}, rows, nil))
					return nil
				})
			})
		},
	}
}
