package config

import "errors"

// ErrNotConfigured marks an optional backend whose env vars are absent.
var ErrNotConfigured = errors.New("not configured")
