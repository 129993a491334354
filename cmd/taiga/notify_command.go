package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Venipa/taiga/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Notifications.NtfyTopic == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Notifications are not configured (set notifications.ntfy_topic)")
				return nil
			}
			sendCtx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			if err := notifications.NewService(cfg).TestNotification(sendCtx); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
