// Package config loads, normalizes, and validates the standuphub TOML
// configuration, providing defaults that reproduce the published index.
package config
