package serving

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/healthsense/predictor/pkg/serving/artifacts"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ArtifactLoad records one artifact a service instance loaded at startup.
type ArtifactLoad struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	Service   string            `gorm:"column:service;index" json:"service"`
	Hostname  string            `gorm:"column:hostname" json:"hostname"`
	Name      string            `gorm:"column:name" json:"name"`
	Kind      string            `gorm:"column:kind" json:"kind"`
	Type      string            `gorm:"column:type" json:"type"`
	Version   string            `gorm:"column:version" json:"version,omitempty"`
	Origin    string            `gorm:"column:origin" json:"origin"`
	Path      string            `gorm:"column:path" json:"path"`
	SHA256    string            `gorm:"column:sha256" json:"sha256"`
	SizeBytes int               `gorm:"column:size_bytes" json:"size_bytes"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	LoadedAt  time.Time         `gorm:"column:loaded_at;index" json:"loaded_at"`
}

// TableName overrides gorm naming.
func (ArtifactLoad) TableName() string {
	return "artifact_loads"
}

// Repository stores artifact load history.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ArtifactLoad{})
}

// DefaultHistoryLimit caps history queries that do not set a limit.
const DefaultHistoryLimit = 50

// LoadHistory lists recorded artifact loads, newest first.
type LoadHistory interface {
	Recent(ctx context.Context, service string, limit int) ([]ArtifactLoad, error)
}

func (r *Repository) RecordLoads(ctx context.Context, service, hostname string, loaded []artifacts.Loaded, metadata map[string]interface{}) error {
	rows := newArtifactLoads(service, hostname, loaded, metadata)
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func newArtifactLoads(service, hostname string, loaded []artifacts.Loaded, metadata map[string]interface{}) []ArtifactLoad {
	rows := make([]ArtifactLoad, 0, len(loaded))
	for _, l := range loaded {
		rows = append(rows, ArtifactLoad{
			ID:        uuid.New(),
			Service:   service,
			Hostname:  hostname,
			Name:      l.Name,
			Kind:      l.Kind,
			Type:      l.Type,
			Version:   l.Version,
			Origin:    l.Origin,
			Path:      l.Path,
			SHA256:    l.SHA256,
			SizeBytes: l.Size,
			Metadata:  datatypes.JSONMap(metadata),
			LoadedAt:  l.LoadedAt,
		})
	}
	return rows
}

// Recent returns the most recent loads of a service up to limit.
func (r *Repository) Recent(ctx context.Context, service string, limit int) ([]ArtifactLoad, error) {
	var loads []ArtifactLoad
	err := recentQuery(r.db.WithContext(ctx), service, limit).Find(&loads).Error
	return loads, err
}

func recentQuery(tx *gorm.DB, service string, limit int) *gorm.DB {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return tx.Model(&ArtifactLoad{}).
		Where("service = ?", service).
		Order("loaded_at DESC").
		Limit(limit)
}
