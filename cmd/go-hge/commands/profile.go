package commands

import (
	"os"

	"github.com/greeddj/go-hge/cmd/go-hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/finder"
	"github.com/greeddj/go-hge/internal/hge/prompt"
	"github.com/greeddj/go-hge/internal/progress"
	"github.com/urfave/cli/v2"
)

// Profile returns the CLI command that saves the commander's EDSM profile.
func Profile() *cli.Command {
	flags := helpers.CommonFlags()
	flags = append(flags, helpers.EDSMFlags()...)

	return &cli.Command{
		Name:    "profile",
		Aliases: []string{"p"},
		Usage:   "Set the commander name and EDSM API key",
		Flags:   flags,
		Action: func(c *cli.Context) error {
			cfg, err := config.Build(c)
			if err != nil {
				return helpers.ConfigError(err)
			}
			// no spinner while the prompt owns the terminal
			p := progress.NewWithWriter(os.Stdout, cfg.Verbose, cfg.Quiet, false)
			defer p.Close()
			ask := func(current *config.Profile) (*config.Profile, error) {
				return prompt.Profile(os.Stdin, os.Stdout, current)
			}
			return finder.SetupProfile(c.Context, cfg, helpers.NewRuntime(cfg, p), ask)
		},
	}
}
