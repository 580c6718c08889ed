// Package lifecycle holds shared timing constants for fx start/stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every OnStart/OnStop hook so a stuck dependency cannot hang shutdown.
const DefaultTimeout = 10 * time.Second
