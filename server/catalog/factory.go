package catalog

import (
	"context"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/catalog/iceberg"
	"github.com/gear6io/hivebridge/server/config"
	"github.com/gear6io/hivebridge/server/metastore"
	"github.com/rs/zerolog"
)

// CatalogInterface is a Client owning resources that must be released
type CatalogInterface interface {
	Client
	Close() error
}

// NewClient creates the catalog client selected by the configuration
func NewClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (CatalogInterface, error) {
	catalogType := cfg.GetCatalogType()

	switch catalogType {
	case config.CatalogTypeMetastore:
		store, err := metastore.NewStore(cfg.Metastore.Path, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CatalogTypeIceberg:
		client, err := iceberg.NewClient(ctx, cfg.Catalog.URI)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, errors.New(ErrUnsupportedCatalogType, "unsupported catalog type", nil).AddContext("catalog_type", catalogType)
	}
}
