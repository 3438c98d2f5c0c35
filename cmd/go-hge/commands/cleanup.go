package commands

import (
	"github.com/greeddj/go-hge/cmd/go-hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/cleanup"
	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/progress"
	"github.com/urfave/cli/v2"
)

// Cleanup returns the CLI command that removes cached files.
func Cleanup() *cli.Command {
	flags := helpers.CommonFlags()
	flags = append(flags, helpers.CleanupFlags()...)

	return &cli.Command{
		Name:    "cleanup",
		Aliases: []string{"c"},
		Usage:   "Remove the response cache, and with --all the snapshots and the index",
		Flags:   flags,
		Action: func(c *cli.Context) error {
			cfg, err := config.Build(c)
			if err != nil {
				return helpers.ConfigError(err)
			}
			p := progress.New(cfg.Verbose, cfg.Quiet)
			defer p.Close()
			return cleanup.Start(c.Context, cfg, helpers.NewRuntime(cfg, p))
		},
	}
}
