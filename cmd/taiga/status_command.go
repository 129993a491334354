package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Venipa/taiga/internal/preflight"
)

type statusReport struct {
	ConfigPath    string             `json:"config_path,omitempty"`
	ActiveService string             `json:"active_service"`
	LibraryPath   string             `json:"library_path"`
	Records       int                `json:"records"`
	Checks        []preflight.Result `json:"checks"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show library size and run readiness checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(false, func(s *session) error {
				count, err := s.store.Count(cmd.Context())
				if err != nil {
					return err
				}
				report := statusReport{
					ConfigPath:    ctx.configPath,
					ActiveService: s.registry.Name(s.registry.Active()),
					LibraryPath:   s.store.Path(),
					Records:       count,
					Checks:        preflight.RunAll(cmd.Context(), s.cfg),
				}

				err = ctx.emit(cmd, report, func(out io.Writer) error {
					if report.ConfigPath != "" {
						fmt.Fprintf(out, "Config: %s\n", report.ConfigPath)
					}
					fmt.Fprintf(out, "Active service: %s\n", report.ActiveService)
					fmt.Fprintf(out, "Library: %s (%d records)\n", report.LibraryPath, report.Records)
					rows := make([][]string, 0, len(report.Checks))
					for _, check := range report.Checks {
						rows = append(rows, []string{check.Name, statusLabel(check.Passed), check.Detail})
					}
					fmt.Fprintln(out, renderTable(out, []string{"Check", "Status", "Detail"}, rows, nil))
					return nil
				})
				if err != nil {
					return err
				}
				if !preflight.AllPassed(report.Checks) {
					return errors.New("one or more readiness checks failed")
				}
				return nil
			})
		},
	}
}

func statusLabel(passed bool) string {
	if passed {
		return "ok"
	}
	return "failed"
}
