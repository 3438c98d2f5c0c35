package commands

import (
	"github.com/greeddj/go-hge/cmd/go-hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/finder"
	"github.com/greeddj/go-hge/internal/progress"
	"github.com/urfave/cli/v2"
)

// Update returns the CLI command that refreshes the mirrors and the index.
func Update() *cli.Command {
	flags := helpers.CommonFlags()
	flags = append(flags, helpers.MirrorFlags()...)

	return &cli.Command{
		Name:    "update",
		Aliases: []string{"u"},
		Usage:   "Download newer EDDB dumps and rebuild the index when needed",
		Flags:   flags,
		Action: func(c *cli.Context) error {
			cfg, err := config.Build(c)
			if err != nil {
				return helpers.ConfigError(err)
			}
			p := progress.New(cfg.Verbose, cfg.Quiet)
			defer p.Close()
			return finder.Update(c.Context, cfg, helpers.NewRuntime(cfg, p))
		},
	}
}
