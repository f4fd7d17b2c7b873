package main

import (
	"net/http/httptest"

	"github.com/spf13/cobra"

	"calevent/internal/capture"
	"calevent/internal/config"
	"calevent/internal/feed"
	"calevent/internal/web"
)

var (
	snapshotURL       string
	snapshotOutput    string
	snapshotWidth     int
	snapshotHeight    int
	snapshotNoSandbox bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture the calendar page as a PNG",
	Long: "Capture the calendar page as a PNG. Without --url the feeds are fetched once " +
		"and the page is served from an in-process server for the capture.",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		url := snapshotURL
		if url == "" {
			refresher := feed.NewRefresher(feed.NewLoader(conf, nil))
			if err := refresher.Refresh(ctx); err != nil {
				return err
			}
			srv := httptest.NewServer(web.NewServer(withoutAuth(conf), refresher).Handler())
			defer srv.Close()
			url = srv.URL + "/calendar"
		}

		return capture.CalendarPNG(ctx, captureOptions(conf, url))
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "", "page to capture (default: render in-process)")
	snapshotCmd.Flags().StringVar(&snapshotOutput, "output", "", "PNG path (default: preview_path from config)")
	snapshotCmd.Flags().IntVar(&snapshotWidth, "width", capture.DefaultWidth, "viewport width")
	snapshotCmd.Flags().IntVar(&snapshotHeight, "height", capture.DefaultHeight, "viewport height")
	snapshotCmd.Flags().BoolVar(&snapshotNoSandbox, "no-sandbox", false, "disable the Chromium sandbox")
}

// captureOptions builds capture options from config and flags. An empty
// url captures the configured listener.
func captureOptions(conf *config.Config, url string) capture.Options {
	opts := capture.Options{
		URL:        url,
		OutputPath: conf.PreviewPath,
		Width:      snapshotWidth,
		Height:     snapshotHeight,
		NoSandbox:  snapshotNoSandbox,
	}
	if opts.URL == "" {
		opts.URL = "http://" + conf.Listen + "/calendar"
		if conf.BasicAuth != nil {
			opts.Username = conf.BasicAuth.Username
			opts.Password = conf.BasicAuth.Password
		}
	}
	if snapshotOutput != "" {
		opts.OutputPath = snapshotOutput
	}
	return opts
}

// withoutAuth copies conf with Basic Auth off for the in-process server.
func withoutAuth(conf *config.Config) *config.Config {
	c := *conf
	c.BasicAuth = nil
	return &c
}
