package serving

import (
	"fmt"

	"github.com/healthsense/predictor/pkg/common/config"
	"github.com/healthsense/predictor/pkg/common/database"
	"github.com/healthsense/predictor/pkg/common/kafka"
	"github.com/healthsense/predictor/pkg/common/logger"
	"github.com/healthsense/predictor/pkg/gateway/httpclient"
	"github.com/healthsense/predictor/pkg/serving/artifacts"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Infra bundles the optional backing services a prediction service may use.
// Fields for disabled features stay nil.
type Infra struct {
	Store     *artifacts.Store
	Repo      *Repository
	Publisher Publisher

	redis    *redis.Client
	db       *gorm.DB
	producer *kafka.Producer
}

// NewInfra connects what cfg enables. The artifact cache degrades to direct
// downloads when Redis is unreachable; an enabled registry must connect.
func NewInfra(cfg *config.Config) (*Infra, error) {
	infra := &Infra{}

	var cache artifacts.Cache
	if cfg.ArtifactCacheEnabled {
		client, err := database.NewRedis(cfg)
		if err != nil {
			logger.Log.WithError(err).Warn("Artifact cache disabled")
		} else {
			infra.redis = client
			cache = artifacts.NewRedisCache(client, "artifacts:")
		}
	}
	infra.Store = artifacts.NewStore(httpclient.NewResty(cfg.DownloadTimeout), cache, cfg.ArtifactCacheTTL)

	if cfg.RegistryEnabled {
		db, err := database.NewPostgres(cfg)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.db = db
		infra.Repo = NewRepository(db)
		if err := infra.Repo.AutoMigrate(); err != nil {
			infra.Close()
			return nil, fmt.Errorf("migrating artifact registry: %w", err)
		}
	}

	if cfg.EventsEnabled {
		infra.producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
		infra.Publisher = infra.producer
	}
	return infra, nil
}

// History returns the registry for the ops routes, or nil when disabled.
func (i *Infra) History() LoadHistory {
	if i.Repo == nil {
		return nil
	}
	return i.Repo
}

// Fatal closes the backing connections, then logs err and exits.
func (i *Infra) Fatal(err error, msg string) {
	i.Close()
	logger.Log.WithError(err).Fatal(msg)
}

// Close is safe to call more than once.
func (i *Infra) Close() {
	if i.producer != nil {
		if err := i.producer.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close event producer")
		}
		i.producer = nil
		i.Publisher = nil
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close redis")
		}
		i.redis = nil
	}
	if err := database.ClosePostgres(i.db); err != nil {
		logger.Log.WithError(err).Warn("Failed to close postgres")
	}
	i.db = nil
}
