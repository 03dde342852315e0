package kvsession

import "errors"

var (
	// ErrSecretMissing is returned by Build when no signing secret is configured.
	ErrSecretMissing = errors.New("signing secret missing")
	// ErrStoreMissing is returned by Build when neither a store nor a Redis client is configured.
	ErrStoreMissing = errors.New("no key-value store configured")
	// ErrKeyBitsInvalid is returned by Build for random-id bit widths outside the supported range.
	ErrKeyBitsInvalid = errors.New("invalid session key bit width")
	// ErrKeyGeneration wraps random source failures during key minting. This is
	// a fatal configuration problem, never absorbed.
	ErrKeyGeneration = errors.New("session key generation failed")
	// ErrNoBackingKey is returned by Destroy for sessions that were never
	// loaded from or committed to the store. Destroying such a session is a
	// usage error.
	ErrNoBackingKey = errors.New("session has no backing store key")
	// ErrManagerNotReady is returned when operations run against a zero or nil Manager.
	ErrManagerNotReady = errors.New("manager not initialized")
	// ErrBuilderReused is returned when Build is called twice on the same Builder.
	ErrBuilderReused = errors.New("builder already used")
)
