// Package keygen mints and parses session store keys of the form
// <random-hex>_<expiry-hex>.
package keygen
