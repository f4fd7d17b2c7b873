package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"calevent/internal/capture"
	"calevent/internal/feed"
	appLog "calevent/internal/log"
	"calevent/internal/web"
)

var (
	serveListen  string
	serveCapture bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calendar page and API, refreshing feeds on the cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "HTTP listen address (overrides config if set)")
	serveCmd.Flags().BoolVar(&serveCapture, "capture", false, "re-capture preview.png after every feed refresh")
}

func runServe() error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListen != "" {
		conf.Listen = serveListen
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	refresher := feed.NewRefresher(feed.NewLoader(conf, nil))
	if serveCapture {
		refresher.OnUpdate = func(feed.Snapshot) {
			// Capture runs against our own listener; let it settle first.
			go func() {
				time.Sleep(time.Second)
				if err := capture.CalendarPNG(ctx, captureOptions(conf, "")); err != nil {
					appLog.Error("preview capture failed", err)
				}
			}()
		}
	}
	if err := refresher.Start(ctx, conf.RefreshCron); err != nil {
		return err
	}
	defer refresher.Stop()

	srv := &http.Server{
		Addr:              conf.Listen,
		Handler:           web.NewServer(conf, refresher).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		appLog.Info("signal received, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("http shutdown failed", err)
	}
	appLog.Info("calevent exiting")
	return nil
}
