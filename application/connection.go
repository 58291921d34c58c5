package application

import (
	"context"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
	"github.com/felixgeelhaar/workflow-go/infrastructure/logging"
)

// TestProviderConnection probes the active provider's endpoint with the
// configured credentials. It returns true when the probe succeeds and an
// error when the endpoint is unreachable, the credentials are rejected, or
// the settings are incomplete.
func (c *Controller) TestProviderConnection(ctx context.Context, settings domainprovider.LLMSettings) (bool, error) {
	cfg, err := settings.Active()
	if err != nil {
		return false, err
	}

	adapter, err := c.registry.Lookup(settings.Provider)
	if err != nil {
		return false, err
	}

	if err := adapter.TestConnection(ctx, cfg); err != nil {
		logging.Warn().
			Add(logging.Provider(settings.Provider)).
			Add(logging.ErrorField(err)).
			Msg("provider connection test failed")
		return false, err
	}

	logging.Info().
		Add(logging.Provider(settings.Provider)).
		Msg("provider connection test succeeded")
	return true, nil
}
