package helpers

import (
	hge "github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/urfave/cli/v2"
)

// CommonFlags defines shared CLI flags for all commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "Verbose output",
			EnvVars: []string{"GO_HGE_VERBOSE"},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Quiet mode, not working with verbose",
			EnvVars: []string{"GO_HGE_QUIET"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Directory holding snapshots, the index, the response cache and the profile",
			Value:   defaultDataDir(),
			EnvVars: []string{"GO_HGE_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to a TOML config file (default <data-dir>/go-hge.toml)",
			EnvVars: []string{"GO_HGE_CONFIG"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "HTTP client timeout for EDSM requests",
			Value:   defaultTimeout,
			EnvVars: []string{"GO_HGE_TIMEOUT"},
		},
	}
}

// EDSMFlags defines CLI flags for the EDSM API.
func EDSMFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "edsm-server",
			Usage:   "EDSM base URL",
			Value:   hge.EDSMServer,
			EnvVars: []string{"GO_HGE_EDSM_SERVER"},
		},
	}
}

// MirrorFlags defines CLI flags for the EDDB mirrors and the index.
func MirrorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "systems-url",
			Usage:   "URL of the EDDB populated systems dump",
			Value:   hge.EDDBSystemsURL,
			EnvVars: []string{"GO_HGE_SYSTEMS_URL"},
		},
		&cli.StringFlag{
			Name:    "factions-url",
			Usage:   "URL of the EDDB factions dump",
			Value:   hge.EDDBFactionsURL,
			EnvVars: []string{"GO_HGE_FACTIONS_URL"},
		},
		&cli.DurationFlag{
			Name:    "mirror-timeout",
			Usage:   "HTTP client timeout for EDDB dump downloads",
			Value:   defaultMirrorTimeout,
			EnvVars: []string{"GO_HGE_MIRROR_TIMEOUT"},
		},
		&cli.BoolFlag{
			Name:    "offline",
			Usage:   "Use local snapshots without checking the mirrors",
			EnvVars: []string{"GO_HGE_OFFLINE"},
		},
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Rebuild the index and revalidate cached responses",
			EnvVars: []string{"GO_HGE_FORCE"},
		},
	}
}

// SearchFlags defines CLI flags for nearby-systems searches.
func SearchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:    "radius",
			Aliases: []string{"r"},
			Usage:   "Search radius in light years (max 100)",
			Value:   defaultRadius,
			EnvVars: []string{"GO_HGE_RADIUS"},
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of systems shown",
			Value:   defaultLimit,
			EnvVars: []string{"GO_HGE_LIMIT"},
		},
		&cli.Int64Flag{
			Name:    "min-population",
			Usage:   "Skip systems at or below this population",
			Value:   defaultMinPopulation,
			EnvVars: []string{"GO_HGE_MIN_POPULATION"},
		},
		&cli.StringFlag{
			Name:    "material",
			Aliases: []string{"m"},
			Usage:   "Only show systems yielding this G5 material",
			EnvVars: []string{"GO_HGE_MATERIAL"},
		},
		&cli.StringFlag{
			Name:    "system",
			Aliases: []string{"s"},
			Usage:   "Search around this system instead of the commander position",
			EnvVars: []string{"GO_HGE_SYSTEM"},
		},
		&cli.DurationFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Repeat the search at this interval until interrupted (min 10s)",
			EnvVars: []string{"GO_HGE_WATCH"},
		},
		&cli.BoolFlag{
			Name:    "no-cache",
			Usage:   "Disable the EDSM response cache",
			EnvVars: []string{"GO_HGE_NO_CACHE"},
		},
	}
}

// CleanupFlags defines CLI flags for the cleanup command.
func CleanupFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Also remove the EDDB snapshots and the index",
			EnvVars: []string{"GO_HGE_CLEANUP_ALL"},
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "List files without removing them",
		},
	}
}
