// Package studio implements the content operations behind the MCP tools:
// channel profiles, script batches, hooks, trend reports, analytics,
// repurposing and subtitle generation. Persistence goes through the
// collection store, generation through the engine gateway; both are injected
// via engine.Init.
package studio

import (
	"time"
)

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
