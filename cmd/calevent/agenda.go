package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"calevent/internal/agenda"
	"calevent/internal/feed"
	"calevent/internal/render"
	"calevent/internal/term"
)

var (
	agendaView  string
	agendaWidth int
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Fetch the feeds once and print the current view to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgenda(cmd.Context())
	},
}

func init() {
	agendaCmd.Flags().StringVar(&agendaView, "view", "", "day, week or month (overrides config if set)")
	agendaCmd.Flags().IntVar(&agendaWidth, "width", 0, "pad event lines to this width")
}

func runAgenda(ctx context.Context) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	if agendaView != "" {
		conf.Display.View = agendaView
		conf.Normalize()
	}

	snap, err := feed.NewLoader(conf, nil).Load(ctx)
	if err != nil {
		return err
	}

	start, days := agenda.Window(time.Now(), conf.Display.View, conf.WeekStart, snap.Location)
	p := term.Printer{
		Context:  render.FromConfig(conf),
		ShowDate: conf.Display.ShowDate,
		Width:    agendaWidth,
	}
	return p.Fprint(os.Stdout, agenda.Build(snap.Events, start, days, snap.Location))
}
