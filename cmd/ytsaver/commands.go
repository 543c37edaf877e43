package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"github.com/vm-affekt/ytsaver/internal/app"
	"github.com/vm-affekt/ytsaver/internal/config"
	"github.com/vm-affekt/ytsaver/internal/console"
	"github.com/vm-affekt/ytsaver/internal/dialogs"
	"github.com/vm-affekt/ytsaver/internal/downloader"
	"github.com/vm-affekt/ytsaver/internal/logging"
	"github.com/vm-affekt/ytsaver/internal/metrics"
	"github.com/vm-affekt/ytsaver/internal/progress"
	"github.com/vm-affekt/ytsaver/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

type runner struct {
	cfg       config.Config
	debugMode bool
}

// service builds the download service and, when METRICS_ADDR is set, serves
// its metrics until ctx is done.
func (r *runner) service(c *cli.Context) *downloader.Service {
	opts := []downloader.Option{downloader.WithTargetDir(c.String("target"))}
	if r.cfg.MetricsAddr != "" {
		m := metrics.New()
		go serveMetrics(c.Context, r.cfg.MetricsAddr, m)
		opts = append(opts, downloader.WithRecorder(m))
	}
	return downloader.New(downloader.NewClient(), opts...)
}

func (r *runner) bot(c *cli.Context) error {
	ctx := c.Context
	log := logging.FromContextS(ctx)
	if r.cfg.TelegramAPIKey == "" {
		return errors.New("TELEGRAM_API_KEY can't be empty")
	}
	if r.cfg.DownloadTimeout == 0 {
		log.Warn("DOWNLOAD_TIMEOUT is zero! Downloads are not limited in time.")
	}

	container := dialogs.NewContainer(r.service(c), r.cfg.DownloadTimeout)
	msgProc := telegram.NewMsgProcessor(r.cfg.TelegramAPIKey, r.debugMode, container)
	if err := msgProc.StartLongPolling(r.cfg.TelegramLongPollingTimeout); err != nil {
		return fmt.Errorf("failed to start long polling listener: %w", err)
	}
	log.Info("Long polling started. Bot is ready!")

	<-ctx.Done()
	log.Infof("Signal received: %v. Shutdown server...", ctx.Err())
	shutdownCtx, cancel := context.WithTimeout(logging.CopyContext(ctx, context.Background()), shutdownTimeout)
	defer cancel()
	if err := msgProc.Shutdown(shutdownCtx); err != nil {
		log.Warnf("Failed to shutdown gracefully: %v", err)
	}
	log.Info("Shutdown work is over. Bye :-)")
	return nil
}

func (r *runner) shell(c *cli.Context) error {
	fmt.Println("Ссылка на видео:")
	sh := console.New(r.service(c), os.Stdin, os.Stdout, app.WithTimeout(r.cfg.DownloadTimeout))
	if err := sh.Run(c.Context); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (r *runner) get(c *cli.Context) error {
	links := c.Args().Slice()
	if len(links) == 0 {
		return cli.Exit("at least one video link is required", 2)
	}
	service := r.service(c)
	var failed int
	for _, link := range links {
		outcome := r.getOne(c.Context, service, link)
		if !outcome.IsSuccess() {
			failed++
		}
		fmt.Println(app.OutcomeStatus(outcome))
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d downloads failed", failed, len(links)), 1)
	}
	return nil
}

func (r *runner) getOne(ctx context.Context, service app.DownloadService, link string) app.Outcome {
	if r.cfg.DownloadTimeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, r.cfg.DownloadTimeout)
		defer cancel()
	}
	bar := progressbar.DefaultBytes(-1, "downloading")
	defer bar.Finish()
	counter := progress.NewCounter(0).OnWrite(func(downloaded, contentLen int64) {
		if contentLen > 0 && bar.GetMax() != int(contentLen) {
			bar.ChangeMax(int(contentLen))
		}
		_ = bar.Set(int(downloaded))
	})
	return service.Run(ctx, app.NewDownloadRequest(link), &barTracker{Counter: counter, bar: bar})
}

// barTracker shows the video title as the progress bar description.
type barTracker struct {
	*progress.Counter
	bar *progressbar.ProgressBar
}

func (t *barTracker) OnResolved(title string) {
	t.bar.Describe(title)
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics) {
	log := logging.FromContextS(ctx)
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Infof("Serving metrics on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("Metrics server failed: %v", err)
	}
}
