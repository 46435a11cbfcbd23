package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/CrestNiraj12/tripshare/domain"
	core "github.com/CrestNiraj12/tripshare/feed"
	"github.com/CrestNiraj12/tripshare/tui/common"
)

func newFeedCmd() *cobra.Command {
	var (
		limit   int
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print one shuffled feed and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			cfg, logger, err := loadEnv()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
			defer cancelTimeout()

			svc, err := buildServices(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			userID, err := svc.currentUserID(ctx)
			if err != nil {
				return err
			}
			v, err := svc.assembler.Load(ctx, userID)
			if err != nil {
				return err
			}
			printFeed(cmd.OutOrStdout(), v, limit)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many trips (0 for all)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "give up after this long")
	return cmd
}

// printFeed writes a finished view as plain text.
func printFeed(w io.Writer, v core.View, limit int) {
	trips := v.Trips()
	if v.Empty() {
		fmt.Fprintln(w, "No trips shared yet.")
		fmt.Fprintln(w, "Be the first to share your adventure!")
		return
	}
	if limit > 0 && limit < len(trips) {
		trips = trips[:limit]
	}
	for _, t := range trips {
		fmt.Fprintln(w, formatTrip(t, v.IsLiked(t.ID)))
	}
}

func formatTrip(t domain.Trip, liked bool) string {
	heart := "♡"
	if liked {
		heart = "♥"
	}
	line := fmt.Sprintf("%s %3d  %s", heart, t.LikesCount, common.Truncate(t.Title, 48))
	if t.Destination != "" {
		line += " · " + t.Destination
	}
	if t.AuthorUsername != "" {
		line += " (@" + t.AuthorUsername + ")"
	}
	if summary := common.FirstLine(t.Content); summary != "" {
		line += "\n      " + common.Truncate(summary, 72)
	}
	return line
}
