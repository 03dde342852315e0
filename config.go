package kvsession

import (
	"crypto/rand"
	"crypto/sha256"
	"hash"
	"io"
)

// Config defines a public type used by kvsession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Keys    KeyConfig
	Signing SigningConfig
	Cleanup CleanupConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
KEY CONFIG
====================================
*/

// KeyConfig controls session key minting.
//
// Bits is the random-identifier width; 64 bits makes guessing infeasible
// while uniqueness stays probabilistic (collisions fall through to the
// store's overwrite semantics). RandomSource is injectable for deterministic
// tests and defaults to crypto/rand.
type KeyConfig struct {
	Bits         int
	RandomSource io.Reader
}

/*
====================================
SIGNING CONFIG
====================================
*/

// SigningConfig carries the process-wide secret and hash algorithm used to
// sign session keys into client-facing tokens. Rotating the secret
// invalidates every previously issued token; there is no migration path.
type SigningConfig struct {
	Secret []byte
	Hash   func() hash.Hash
}

/*
====================================
CLEANUP CONFIG
====================================
*/

// CleanupConfig controls the expired-session sweep schedule used by
// [Manager.StartJanitor]. Schedule accepts robfig/cron specs, including the
// @every shorthand.
type CleanupConfig struct {
	Schedule string
}

// AuditConfig defines a public type used by kvsession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by kvsession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

const (
	defaultKeyBits         = 64
	minKeyBits             = 16
	maxKeyBits             = 1024
	defaultCleanupSchedule = "@every 1h"
	defaultAuditBuffer     = 256
)

// DefaultConfig returns the configuration the Builder starts from: 64-bit
// keys from crypto/rand, HMAC-SHA256 signing, hourly sweep schedule, audit
// and metrics disabled. The signing secret has no default and must be set.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Keys: KeyConfig{
			Bits:         defaultKeyBits,
			RandomSource: rand.Reader,
		},
		Signing: SigningConfig{
			Hash: sha256.New,
		},
		Cleanup: CleanupConfig{
			Schedule: defaultCleanupSchedule,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: defaultAuditBuffer,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Signing.Secret != nil {
		out.Signing.Secret = make([]byte, len(cfg.Signing.Secret))
		copy(out.Signing.Secret, cfg.Signing.Secret)
	}
	return out
}

// normalizeConfig fills zero values with defaults; validateConfig rejects
// what cannot be defaulted.
func normalizeConfig(cfg Config) Config {
	if cfg.Keys.Bits == 0 {
		cfg.Keys.Bits = defaultKeyBits
	}
	if cfg.Keys.RandomSource == nil {
		cfg.Keys.RandomSource = rand.Reader
	}
	if cfg.Signing.Hash == nil {
		cfg.Signing.Hash = sha256.New
	}
	if cfg.Cleanup.Schedule == "" {
		cfg.Cleanup.Schedule = defaultCleanupSchedule
	}
	if cfg.Audit.BufferSize <= 0 {
		cfg.Audit.BufferSize = defaultAuditBuffer
	}
	return cfg
}

func validateConfig(cfg Config) error {
	if len(cfg.Signing.Secret) == 0 {
		return ErrSecretMissing
	}
	if cfg.Keys.Bits < minKeyBits || cfg.Keys.Bits > maxKeyBits {
		return ErrKeyBitsInvalid
	}
	return nil
}
