package helpers

import (
	"os"
	"path/filepath"

	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/fetch"
	hge "github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/infra"
	"github.com/greeddj/go-hge/internal/progress"
)

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "go-hge")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(defaultHomeDir, dirSuffix)
	}
	return filepath.Join(home, dirSuffix)
}

// NewRuntime wires the logger and HTTP clients for one command run.
// Log lines go through p so they do not tear the spinner line.
func NewRuntime(cfg *config.Config, p *progress.Progress) *infra.Infra {
	logger := infra.NewLogger(p, cfg.Verbose, cfg.Quiet)
	runtime := infra.New(
		p,
		logger,
		fetch.New(cfg.MirrorTimeout),
		fetch.NewLimited(cfg.Timeout, hge.EDSMRequestsPerSecond, hge.EDSMRequestBurst),
	)
	runtime.DebugConfig(cfg)
	return runtime
}

// ConfigError prints err before a command had a chance to build its
// progress output and returns it unchanged.
func ConfigError(err error) error {
	progress.NewWithWriter(os.Stderr, false, false, false).Errorf("%s", err.Error())
	return err
}
