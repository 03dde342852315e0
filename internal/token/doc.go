// Package token signs store keys into client-facing tokens and verifies them
// back. A token is <store-key>_<hex-mac>; the MAC binds the key to the server
// secret so identifiers cannot be forged or modified.
package token
