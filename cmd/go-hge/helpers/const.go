package helpers

import "time"

const (
	dirSuffix            = ".local/share/go-hge"
	defaultHomeDir       = "/root"
	defaultTimeout       = 30 * time.Second
	defaultMirrorTimeout = 10 * time.Minute
	defaultRadius        = 40.0
	defaultLimit         = 10
	defaultMinPopulation = 0
)
