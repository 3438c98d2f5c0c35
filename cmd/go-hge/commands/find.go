package commands

import (
	"github.com/greeddj/go-hge/cmd/go-hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/finder"
	"github.com/greeddj/go-hge/internal/progress"
	"github.com/urfave/cli/v2"
)

// Find returns the CLI command that lists nearby systems with HGE states.
func Find() *cli.Command {
	flags := helpers.CommonFlags()
	flags = append(flags, helpers.EDSMFlags()...)
	flags = append(flags, helpers.MirrorFlags()...)
	flags = append(flags, helpers.SearchFlags()...)

	return &cli.Command{
		Name:    "find",
		Aliases: []string{"f"},
		Usage:   "Find nearby systems whose faction states yield G5 materials",
		Flags:   flags,
		Action: func(c *cli.Context) error {
			cfg, err := config.Build(c)
			if err != nil {
				return helpers.ConfigError(err)
			}
			p := progress.New(cfg.Verbose, cfg.Quiet)
			defer p.Close()
			runtime := helpers.NewRuntime(cfg, p)
			return finder.Find(c.Context, cfg, runtime, p)
		},
	}
}
