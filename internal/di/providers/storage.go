package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/cellarapp/cellar-server/internal/config"
	"github.com/cellarapp/cellar-server/internal/logger"
	"github.com/cellarapp/cellar-server/internal/media/labels"
)

// ProvideLabelStorage provides the label image storage.
func ProvideLabelStorage(i do.Injector) (*labels.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := labels.NewStorage(cfg.Storage.DataPath)
	if err != nil {
		return nil, fmt.Errorf("label storage: %w", err)
	}

	log.Info("Label storage initialized")

	return storage, nil
}
