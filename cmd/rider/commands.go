package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"rider/internal/config"
	"rider/internal/mylogger"
	riderservice "rider/internal/rider-service"
	"rider/internal/rider-service/adapters/driven/places"
	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/services"

	"github.com/urfave/cli/v3"
)

var ErrExactlyOneFragment = errors.New("exactly one fragment required")

func newApp(out io.Writer, open func(url string) error) *cli.Command {
	return &cli.Command{
		Name:  "rider",
		Usage: "ride request form service",
		Commands: []*cli.Command{
			serveCommand(),
			requestCommand(out, open),
			suggestCommand(out),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP service",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			mylog, err := mylogger.New(cfg.Log.Level)
			if err != nil {
				return err
			}

			return riderservice.Execute(ctx, mylog, cfg)
		},
	}
}

func requestCommand(out io.Writer, open func(url string) error) *cli.Command {
	return &cli.Command{
		Name:  "request",
		Usage: "compose a ride request message and open the messaging link",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Usage: "start location"},
			&cli.StringFlag{Name: "destination", Usage: "destination location"},
			&cli.StringFlag{Name: "at", Usage: "date and time, e.g. 2024-05-01T10:00", Required: true},
			&cli.StringFlag{Name: "vehicle", Value: string(model.VehicleAuto), Usage: "Auto, Toto, Taxi or Car"},
			&cli.StringFlag{Name: "lang", Value: string(model.LocaleEN), Usage: "en or bn"},
			&cli.BoolFlag{Name: "no-open", Usage: "print the link without opening a browser"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			vehicle, ok := model.ParseVehicleType(cmd.String("vehicle"))
			if !ok {
				return fmt.Errorf("unknown vehicle %q", cmd.String("vehicle"))
			}
			locale, err := services.NewLocaleService().Choose(cmd.String("lang"))
			if err != nil {
				return err
			}
			loc, err := time.LoadLocation(cfg.App.Timezone)
			if err != nil {
				return err
			}

			composer := services.NewComposer(cfg.Messaging.BaseURL, cfg.Messaging.Recipient, loc)
			link, err := composer.Compose(model.FormState{
				Start:       cmd.String("start"),
				Destination: cmd.String("destination"),
				ScheduledAt: cmd.String("at"),
				VehicleType: vehicle,
			}, locale)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, link)
			if cmd.Bool("no-open") {
				return nil
			}
			return open(link)
		},
	}
}

func suggestCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "list autocomplete suggestions from a running rider service",
		ArgsUsage: "<fragment>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "proxy", Value: "http://localhost:3000", Usage: "base URL of the rider service"},
			&cli.DurationFlag{Name: "timeout", Value: 5 * time.Second, Usage: "request timeout"},
			&cli.BoolFlag{Name: "verbose", Usage: "log proxy failures"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return ErrExactlyOneFragment
			}

			mylog := mylogger.Discard()
			if cmd.Bool("verbose") {
				mylog = mylogger.NewWithWriter(mylogger.LevelDebug, out)
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			proxy := places.NewProxyClient(cmd.String("proxy"), nil)
			list := services.NewSuggestionService(mylog, proxy).FetchSuggestions(ctx, cmd.Args().First())

			for _, s := range list {
				fmt.Fprintf(out, "%s\t%s\n", s.ID, s.Label)
			}
			return nil
		},
	}
}
