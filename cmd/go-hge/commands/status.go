package commands

import (
	"github.com/greeddj/go-hge/cmd/go-hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/finder"
	"github.com/greeddj/go-hge/internal/progress"
	"github.com/urfave/cli/v2"
)

// Status returns the CLI command that reports snapshot and index freshness.
func Status() *cli.Command {
	flags := helpers.CommonFlags()
	flags = append(flags, helpers.MirrorFlags()...)

	return &cli.Command{
		Name:  "status",
		Usage: "Show local snapshots, the index and whether the mirrors hold newer data",
		Flags: flags,
		Action: func(c *cli.Context) error {
			cfg, err := config.Build(c)
			if err != nil {
				return helpers.ConfigError(err)
			}
			p := progress.New(cfg.Verbose, cfg.Quiet)
			defer p.Close()
			return finder.Status(c.Context, cfg, helpers.NewRuntime(cfg, p), p)
		},
	}
}
