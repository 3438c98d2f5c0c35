package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/store"
	"gopkg.in/yaml.v3"
)

// Profile identifies the commander whose position is looked up on EDSM.
type Profile struct {
	Commander string `yaml:"commander"`
	APIKey    string `yaml:"api_key"`
}

// Validate reports whether both fields are set.
func (p *Profile) Validate() error {
	if p == nil {
		return helpers.ErrProfileMissing
	}
	if strings.TrimSpace(p.Commander) == "" || strings.TrimSpace(p.APIKey) == "" {
		return helpers.ErrProfileIncomplete
	}
	return nil
}

// LoadProfile reads the profile at path. A missing file yields ErrProfileMissing.
func LoadProfile(path string) (*Profile, error) {
	//nolint:gosec // path is derived from the data directory.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, helpers.ErrProfileMissing
		}
		return nil, err
	}
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed parse %s: %w", path, err)
	}
	profile.Commander = strings.TrimSpace(profile.Commander)
	profile.APIKey = strings.TrimSpace(profile.APIKey)
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &profile, nil
}

// SaveProfile writes the profile readable by the owner only.
func SaveProfile(path string, profile *Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(profile)
	if err != nil {
		return err
	}
	return store.WriteFileAtomic(path, data, helpers.SecretFileMod)
}
