package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/tripshare/infra/events"
	"github.com/CrestNiraj12/tripshare/session"
	"github.com/CrestNiraj12/tripshare/tui"
	"github.com/CrestNiraj12/tripshare/tui/feed"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadEnv()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	svc, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.identity.Watch(ctx); err != nil {
		logger.Warn("session watch disabled", zap.Error(err))
	}

	sess := session.New()
	boot := session.NewBootstrapper(svc.identity, svc.account, sess, logger.Named("session"))

	root := tui.NewApp(tui.Deps{
		Feed: feed.Deps{
			Assembler: svc.assembler,
			Likes:     svc.likes,
			Notifier:  svc.notifier(),
			WebURL:    cfg.WebURL,
			Logger:    logger.Named("tui"),
		},
	}, sess.Get())

	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := sess.Subscribe(func(st session.State) {
		p.Send(tui.SessionMsg{State: st})
	})
	defer unsubscribe()

	if svc.bus != nil {
		stop, err := svc.bus.Subscribe(func(_ context.Context, ev events.LikeChanged) {
			p.Send(tui.LikesChangedMsg{UserID: ev.LikerID})
		})
		if err != nil {
			logger.Warn("like events subscription failed", zap.Error(err))
		} else {
			defer func() { _ = stop() }()
		}
	}

	// The first resolution hits the network; the feed renders meanwhile.
	stopBoot := make(chan func(), 1)
	go func() { stopBoot <- boot.Start(ctx) }()

	_, runErr := p.Run()
	cancel()
	(<-stopBoot)()

	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("running ui: %w", runErr)
	}
	return nil
}
