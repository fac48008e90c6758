package api

import (
	"context"
	"time"

	"github.com/travigo/driverportal/pkg/api/routes"
	"github.com/travigo/driverportal/pkg/elastic_client"
	"github.com/travigo/driverportal/pkg/portal"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Provides the driver portal web page and API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "listen",
						Value:   ":8080",
						Usage:   "listen target for the web server",
						EnvVars: []string{"DRIVERPORTAL_LISTEN"},
					},
					portal.ConfigFlag,
				},
				Action: func(c *cli.Context) error {
					driverPortal, err := portal.Setup(c.Context, c.String("config"))
					if err != nil {
						return err
					}

					defer func() {
						ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
						defer cancel()

						elastic_client.WaitUntilQueueEmpty(ctx)
					}()

					return SetupServer(c.String("listen"), &routes.Portal{
						Service:     driverPortal.Service,
						Repository:  driverPortal.Repository,
						PageRefresh: driverPortal.Config.Registry.PageRefresh.Duration,
					})
				},
			},
		},
	}
}
