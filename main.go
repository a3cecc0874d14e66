package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pulsett/app/client/speechkit"
	"pulsett/app/config"
	"pulsett/app/service/api"
	"pulsett/app/service/engine"
	"pulsett/app/service/intent"
	"pulsett/app/service/mcpserver"
	"pulsett/app/service/outbox"
	"pulsett/app/service/queue"
	"pulsett/app/service/reply"
	"pulsett/app/service/sentiment"
	"pulsett/app/service/session"
	"pulsett/app/util/mylog"
	"pulsett/app/util/randpick"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := pflag.StringP("config", "c", config.DefaultPath, "path to the YAML config")
	mcpMode := pflag.Bool("mcp", false, "serve MCP tools over stdio instead of HTTP")
	pflag.Parse()

	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.ProvideValue(di, randpick.New(cfg.Reply.Seed))
	do.Provide(di, speechkit.NewClient)
	do.Provide(di, sentiment.New)
	do.Provide(di, intent.New)
	do.Provide(di, session.New)
	do.Provide(di, outbox.New)
	do.Provide(di, func(i *do.Injector) (reply.Notifier, error) {
		return do.MustInvoke[*outbox.Service](i), nil
	})
	do.Provide(di, reply.New)
	do.Provide(di, queue.New)
	do.Provide(di, engine.New)
	do.Provide(di, api.New)
	do.Provide(di, mcpserver.New)

	matcher := do.MustInvoke[*intent.Matcher](di)
	slog.Info("Service started",
		"resolver", matcher.Kind(),
		"intents_degraded", matcher.Degraded(),
		"mcp", *mcpMode,
	)

	group, groupCtx := errgroup.WithContext(appCtx)

	group.Go(func() error {
		do.MustInvoke[*engine.Service](di).Run(groupCtx)
		return nil
	})

	group.Go(func() error {
		defer cancel()

		if *mcpMode {
			return do.MustInvoke[*mcpserver.Service](di).Run(groupCtx)
		}

		return do.MustInvoke[*api.Service](di).Run(groupCtx)
	})

	if err = group.Wait(); err != nil {
		slog.Error("Service stopped with error", "error", err)
	}

	log.Info("Shutting down...")
}
