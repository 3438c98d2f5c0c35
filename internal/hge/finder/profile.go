package finder

import (
	"context"
	"errors"
	"fmt"

	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/infra"
)

// Prompter asks for a profile, prefilled from current when not nil.
type Prompter func(current *config.Profile) (*config.Profile, error)

// SetupProfile asks for the commander name and API key, checks them with
// a position lookup and saves them.
func SetupProfile(ctx context.Context, cfg *config.Config, runtime *infra.Infra, ask Prompter) (err error) {
	defer func() {
		if err != nil && !errors.Is(err, helpers.ErrPromptCancelled) {
			runtime.Output.PersistentPrintf("❌ Error: %s", err.Error())
		}
	}()

	current, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil && !errors.Is(err, helpers.ErrProfileMissing) {
		runtime.Logger.Warn("ignoring unreadable profile", "path", cfg.ProfilePath, "err", err)
	}
	profile, err := ask(current)
	if err != nil {
		return err
	}

	sess, err := openSession(cfg, runtime, "profile")
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sess.close(runtime))
	}()

	runtime.Output.Printf("🛰️ check profile with EDSM")
	pos, err := newLocator(cfg, runtime, sess.store).Position(ctx, profile)
	if err != nil {
		return fmt.Errorf("profile check failed: %w", err)
	}
	if err := config.SaveProfile(cfg.ProfilePath, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	location := pos.System
	if pos.Stale {
		location += " (last known)"
	}
	runtime.Output.PersistentPrintf("✅ Profile saved for CMDR %s, currently in %s", profile.Commander, location)
	return nil
}
