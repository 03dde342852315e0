package kvsession

import (
	"github.com/redis/go-redis/v9"

	"github.com/mwalds/kvsession/kv"
	"github.com/mwalds/kvsession/kv/redisstore"
)

// Builder assembles a [Manager]. Construction is allocation-only; no I/O
// happens until the Manager's methods run.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config    Config
	store     kv.Store
	redis     redis.UniversalClient
	auditSink AuditSink
	built     bool
}

// New creates a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration wholesale. The config is
// cloned on ingest; later mutations of cfg do not leak into the Manager.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the signing secret without replacing the rest of the
// configuration.
func (b *Builder) WithSecret(secret []byte) *Builder {
	buf := make([]byte, len(secret))
	copy(buf, secret)
	b.config.Signing.Secret = buf
	return b
}

// WithStore sets the key-value backend session payloads are persisted to.
func (b *Builder) WithStore(store kv.Store) *Builder {
	b.store = store
	return b
}

// WithRedis is a convenience for the common backend: Build wraps the client
// in a [redisstore.Store] with the default prefix. WithStore takes precedence
// when both are set.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the sink audit events are dispatched to and enables
// auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles metrics collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Load latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and produces the Manager. A Builder can
// only be used once.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, ErrBuilderReused
	}

	cfg := normalizeConfig(b.config)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil && b.redis != nil {
		store = redisstore.New(b.redis, "", false)
	}
	if store == nil {
		return nil, ErrStoreMissing
	}

	b.built = true

	return &Manager{
		config:  cfg,
		store:   store,
		metrics: NewMetrics(cfg.Metrics),
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
	}, nil
}
