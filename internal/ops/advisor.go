package ops

import (
	"context"
	"time"

	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/llm"
	"github.com/sproutnotes/sprout/internal/settings"
)

// Advisor resolves the configured completion provider at call time, so
// a settings change takes effect on the next completion without any
// re-wiring.
type Advisor struct {
	Settings *settings.Manager

	// Timeout bounds a single completion call; 0 means no extra bound
	// beyond the provider's own guard.
	Timeout time.Duration

	// Factory overrides provider construction; tests inject fakes
	// here. Nil uses llm.ForSettings.
	Factory func(idea.Settings) (llm.Provider, error)
}

// Complete performs one completion against the currently configured
// provider.
func (a *Advisor) Complete(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	factory := a.Factory
	if factory == nil {
		factory = llm.ForSettings
	}

	provider, err := factory(a.Settings.Get())
	if err != nil {
		return "", err
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	return provider.Complete(ctx, prompt, opts)
}
