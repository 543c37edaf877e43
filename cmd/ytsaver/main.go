package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/vm-affekt/ytsaver/internal/config"
	"github.com/vm-affekt/ytsaver/internal/logging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(config.DefaultPaths...)
	if err != nil {
		fmt.Printf("ERROR! %v\n", err)
		os.Exit(1)
	}

	logger, mode, err := logging.Build(cfg.Mode, cfg.LogFilePath)
	if err != nil {
		fmt.Printf("ERROR! %v. Empty MODE will be treated as 'debug'!\n", err)
		os.Exit(1)
	}
	if cfg.LogFilePath == "" {
		fmt.Fprintln(os.Stderr, "[WARN] No LOG_FILE_PATH specified! Using 'stderr' only.")
	}
	logging.SetLogger(logger)
	zap.RedirectStdLog(logger)
	log := logger.Sugar()
	defer log.Sync()

	log.Infof("[YTSAVER] Application is running. Environment mode=%q", mode)
	if cfg.FileUsed != "" {
		log.Infof("Used config file path: %v", cfg.FileUsed)
	} else {
		log.Infof("No config file found. Environment variables with %s_ prefix will be used as config.", config.EnvPrefix)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{cfg: cfg, debugMode: mode == logging.ModeDebug}
	app := &cli.App{
		Name:  "ytsaver",
		Usage: "download videos in the highest available resolution",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Value:   cfg.DownloadDir,
				Usage:   "save downloaded videos to `DIR`",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "bot",
				Usage:  "serve downloads through the Telegram bot",
				Action: r.bot,
			},
			{
				Name:   "shell",
				Usage:  "read video links from stdin, one per line",
				Action: r.shell,
			},
			{
				Name:      "get",
				Usage:     "download the videos given as arguments",
				ArgsUsage: "URL...",
				Action:    r.get,
			},
		},
		HideHelpCommand: true,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err.Error())
	}
}
