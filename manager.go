package kvsession

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mwalds/kvsession/internal/keygen"
	"github.com/mwalds/kvsession/internal/payload"
	"github.com/mwalds/kvsession/internal/token"
	"github.com/mwalds/kvsession/kv"
)

// Manager orchestrates the session lifecycle: committing in-memory sessions
// to the key-value store behind signed tokens, loading them back, destroying
// them, and sweeping expired entries.
//
// Manager methods are safe to call from multiple goroutines; individual
// [Session] values are not.
type Manager struct {
	config  Config
	store   kv.Store
	metrics *Metrics
	audit   *auditDispatcher
}

// NewSession creates an empty session with no backing store key. The first
// Commit assigns one.
func (m *Manager) NewSession() *Session {
	return newSession("")
}

// Commit writes the session mapping to the store under a freshly minted key
// and returns the signed token for the transport layer. A zero expiresAt
// means the session never expires.
//
// Every commit mints a new key; the entry written by a previous commit stays
// behind until its expiry passes and the sweep reclaims it. Store I/O
// failures propagate to the caller unmodified — no retries happen here.
//
//	Performance: 1 store Put.
func (m *Manager) Commit(ctx context.Context, s *Session, expiresAt time.Time) (string, error) {
	if m == nil || m.store == nil {
		return "", ErrManagerNotReady
	}
	if s == nil {
		s = newSession("")
	}

	tok, err := m.commit(ctx, s, expiresAt)
	if err != nil {
		m.metrics.Inc(MetricCommitFailure)
		m.emit(ctx, AuditEvent{
			EventType:  AuditCommit,
			SessionKey: s.key,
			Success:    false,
			Error:      err.Error(),
		})
		return "", err
	}

	m.metrics.Inc(MetricCommitSuccess)
	m.emit(ctx, AuditEvent{
		EventType:  AuditCommit,
		SessionKey: s.key,
		Success:    true,
	})
	return tok, nil
}

func (m *Manager) commit(ctx context.Context, s *Session, expiresAt time.Time) (string, error) {
	data, err := payload.Encode(s.data)
	if err != nil {
		return "", err
	}

	var epoch int64
	if !expiresAt.IsZero() {
		epoch = expiresAt.UTC().Unix()
	}

	key, err := keygen.Generate(m.config.Keys.RandomSource, epoch, m.config.Keys.Bits)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	stored, err := m.store.Put(ctx, key, data)
	if err != nil {
		return "", err
	}

	mac := token.Sign(m.config.Signing.Secret, stored, m.config.Signing.Hash)
	s.key = stored

	return token.Join(stored, mac), nil
}

// CommitTTL is Commit with a relative lifetime. A non-positive ttl commits a
// non-expiring session.
func (m *Manager) CommitTTL(ctx context.Context, s *Session, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return m.Commit(ctx, s, time.Time{})
	}
	return m.Commit(ctx, s, time.Now().Add(ttl))
}

// Load turns a client-supplied token back into a session.
//
// Invalid input degrades silently: a malformed token, a bad signature, an
// embedded expiry in the past, a missing store entry, or an undecodable
// payload all yield a usable empty session and a nil error. Whenever the
// signature verified, the returned session is tagged with the embedded key so
// a later Destroy or Commit stays consistent. Only store I/O failures other
// than not-found return a non-nil error, and those propagate unmodified.
//
//	Performance: 1 store Get on the valid path.
func (m *Manager) Load(ctx context.Context, tok string) (*Session, error) {
	if m == nil || m.store == nil {
		return nil, ErrManagerNotReady
	}
	start := time.Now()

	s, outcome, err := m.load(ctx, tok)
	if err != nil {
		m.emit(ctx, AuditEvent{
			EventType: AuditLoad,
			Success:   false,
			Error:     err.Error(),
		})
		return nil, err
	}

	m.metrics.Inc(outcome)
	m.metrics.Observe(MetricLoadLatency, time.Since(start))
	m.emit(ctx, AuditEvent{
		EventType:  AuditLoad,
		SessionKey: s.key,
		Success:    outcome == MetricLoadValid,
		Metadata:   map[string]string{"outcome": loadOutcomeName(outcome)},
	})
	return s, nil
}

func (m *Manager) load(ctx context.Context, tok string) (*Session, MetricID, error) {
	key, mac, ok := token.Split(tok)
	if !ok {
		return newSession(""), MetricTokenMalformed, nil
	}

	if !token.Verify(m.config.Signing.Secret, key, mac, m.config.Signing.Hash) {
		return newSession(""), MetricSignatureMismatch, nil
	}

	// Signature checks out; from here on the session carries the key even
	// when the payload is gone, so destroy/re-commit stay consistent.
	s := newSession(key)

	if exp, shaped := keygen.Expiry(key); shaped && exp != 0 && time.Now().Unix() >= exp {
		// Expired but not yet swept. The store still holds the entry;
		// verification, not the store, is what invalidates it.
		return s, MetricKeyExpired, nil
	}

	data, err := m.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return s, MetricPayloadMissing, nil
	}
	if err != nil {
		return nil, 0, err
	}

	values, err := payload.Decode(data)
	if err != nil {
		return s, MetricPayloadCorrupt, nil
	}

	s.data = values
	return s, MetricLoadValid, nil
}

// Refresh re-keys a session: the old store entry is deleted and the current
// mapping committed under a fresh key, invalidating the previously issued
// token immediately instead of waiting for the sweep. Useful after privilege
// changes (login, logout-elsewhere) to cut off fixated tokens.
func (m *Manager) Refresh(ctx context.Context, s *Session, expiresAt time.Time) (string, error) {
	if m == nil || m.store == nil {
		return "", ErrManagerNotReady
	}
	if s == nil || s.key == "" {
		return "", ErrNoBackingKey
	}

	if err := m.deleteAbsorbingNotFound(ctx, s.key); err != nil {
		return "", err
	}
	return m.Commit(ctx, s, expiresAt)
}

// Destroy invalidates a session completely: the in-memory mapping is cleared
// and the store entry removed. The session must have a backing key — it was
// loaded from the store or committed at least once — otherwise this is a
// usage error.
//
// Destroy is idempotent: destroying an already-destroyed session is a no-op.
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	if m == nil || m.store == nil {
		return ErrManagerNotReady
	}
	if s == nil || s.key == "" {
		return ErrNoBackingKey
	}

	s.Clear()

	if err := m.deleteAbsorbingNotFound(ctx, s.key); err != nil {
		m.emit(ctx, AuditEvent{
			EventType:  AuditDestroy,
			SessionKey: s.key,
			Success:    false,
			Error:      err.Error(),
		})
		return err
	}

	m.metrics.Inc(MetricDestroy)
	m.emit(ctx, AuditEvent{
		EventType:  AuditDestroy,
		SessionKey: s.key,
		Success:    true,
	})
	return nil
}

// Cleanup sweeps the store, deleting every session-shaped key whose embedded
// expiry is non-zero and in the past. Keys of other shapes are ignored — the
// store may hold unrelated entries.
//
// The sweep is best-effort and non-atomic: it is safe to run concurrently
// with request traffic, and racing with a concurrent load simply hands that
// client an empty session on its next validation.
func (m *Manager) Cleanup(ctx context.Context) error {
	if m == nil || m.store == nil {
		return ErrManagerNotReady
	}

	keys, err := m.store.Keys(ctx)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	var scanned, deleted uint64

	for _, key := range keys {
		exp, shaped := keygen.Expiry(key)
		if !shaped {
			continue
		}
		scanned++

		if exp == 0 || now < exp {
			continue
		}
		if err := m.deleteAbsorbingNotFound(ctx, key); err != nil {
			return err
		}
		deleted++
	}

	m.metrics.Inc(MetricCleanupRun)
	m.metrics.Add(MetricCleanupScanned, scanned)
	m.metrics.Add(MetricCleanupDeleted, deleted)
	m.emit(ctx, AuditEvent{
		EventType: AuditCleanup,
		Success:   true,
		Metadata: map[string]string{
			"scanned": strconv.FormatUint(scanned, 10),
			"deleted": strconv.FormatUint(deleted, 10),
		},
	})
	return nil
}

// deleteAbsorbingNotFound deletes a store entry, treating not-found as
// success. Absorption is uniform for Get and Delete; everything else
// propagates.
func (m *Manager) deleteAbsorbingNotFound(ctx context.Context, key string) error {
	err := m.store.Delete(ctx, key)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	return nil
}

// MetricsSnapshot returns a point-in-time copy of the manager's counters.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// AuditDropped reports audit events discarded due to dispatcher backpressure.
func (m *Manager) AuditDropped() uint64 {
	if m == nil {
		return 0
	}
	return m.audit.Dropped()
}

// Close flushes and stops the audit dispatcher. The Manager must not be used
// afterwards.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.audit.Close()
}

func (m *Manager) emit(ctx context.Context, event AuditEvent) {
	if m.audit == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	m.audit.Emit(ctx, event)
}

func loadOutcomeName(id MetricID) string {
	switch id {
	case MetricLoadValid:
		return "valid"
	case MetricTokenMalformed:
		return "malformed"
	case MetricSignatureMismatch:
		return "signature_mismatch"
	case MetricKeyExpired:
		return "expired"
	case MetricPayloadMissing:
		return "payload_missing"
	case MetricPayloadCorrupt:
		return "payload_corrupt"
	default:
		return "unknown"
	}
}
