package infra

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/output"
)

// Infra holds runtime dependencies such as IO, logging and HTTP clients.
type Infra struct {
	Output output.Printer
	Logger *slog.Logger
	// HTTP downloads the EDDB dumps.
	HTTP *http.Client
	// EDSM is paced by a rate limiter.
	EDSM *http.Client
	Now  func() time.Time
}

// New builds Infra with the default clock.
func New(out output.Printer, logger *slog.Logger, httpClient, edsmClient *http.Client) *Infra {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if edsmClient == nil {
		edsmClient = httpClient
	}
	return &Infra{
		Output: out,
		Logger: logger,
		HTTP:   httpClient,
		EDSM:   edsmClient,
		Now:    time.Now,
	}
}

// NewLogger builds the slog logger every component receives.
func NewLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DebugConfig logs which settings were sourced from the config file.
func (i *Infra) DebugConfig(cfg *config.Config) {
	if i == nil || i.Output == nil || cfg == nil || cfg.ConfigFileUsed == "" {
		return
	}
	i.Output.Debugf("config %s: loaded", cfg.ConfigFileUsed)
	for _, key := range cfg.FileOverrides {
		i.Output.Debugf("config %s: %s", cfg.ConfigFileUsed, key)
	}
}
