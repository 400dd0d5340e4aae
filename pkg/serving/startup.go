// Package serving holds the pieces both prediction services share at startup:
// artifact bookkeeping and lifecycle announcements.
package serving

import (
	"context"
	"os"

	"github.com/healthsense/predictor/pkg/common/logger"
	"github.com/healthsense/predictor/pkg/observability/metrics"
	"github.com/healthsense/predictor/pkg/serving/artifacts"
)

const EventArtifactsLoaded = "artifacts.loaded"

// Publisher is satisfied by the kafka producer.
type Publisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// Inventory is the read-only list of artifacts a service started with.
type Inventory struct {
	service string
	loaded  []artifacts.Loaded
}

func NewInventory(service string) *Inventory {
	return &Inventory{service: service}
}

// Add is only called during startup, before the server accepts requests.
func (i *Inventory) Add(l artifacts.Loaded) {
	i.loaded = append(i.loaded, l)
	logger.Log.WithFields(map[string]interface{}{
		"artifact": l.Name,
		"kind":     l.Kind,
		"type":     l.Type,
		"origin":   l.Origin,
		"sha256":   l.SHA256,
		"size":     l.Size,
	}).Info("Artifact loaded")
}

func (i *Inventory) Service() string {
	return i.service
}

func (i *Inventory) Loaded() []artifacts.Loaded {
	out := make([]artifacts.Loaded, len(i.loaded))
	copy(out, i.loaded)
	return out
}

// Announce records the inventory in the registry and publishes a lifecycle
// event. Both sinks are optional; their failures are logged, never fatal.
func Announce(ctx context.Context, inv *Inventory, repo *Repository, publisher Publisher, m *metrics.Metrics, metadata map[string]interface{}) {
	for _, l := range inv.loaded {
		m.MarkArtifact(l.Name, l.Kind)
	}

	hostname, _ := os.Hostname()
	if repo != nil {
		if err := repo.RecordLoads(ctx, inv.service, hostname, inv.loaded, metadata); err != nil {
			logger.Log.WithError(err).Warn("Failed to record artifact loads")
		}
	}

	if publisher != nil {
		names := make([]map[string]interface{}, 0, len(inv.loaded))
		for _, l := range inv.loaded {
			names = append(names, map[string]interface{}{
				"name":    l.Name,
				"type":    l.Type,
				"version": l.Version,
				"sha256":  l.SHA256,
				"origin":  l.Origin,
			})
		}
		data := map[string]interface{}{
			"hostname":  hostname,
			"artifacts": names,
		}
		for k, v := range metadata {
			data[k] = v
		}
		if err := publisher.PublishEvent(ctx, EventArtifactsLoaded, inv.service, data); err != nil {
			logger.Log.WithError(err).Warn("Failed to publish lifecycle event")
		}
	}
}
