// Package devicecache is an optional, write-only export of resolved
// devices to Redis, grounded on the AppDBClient pattern in
// pkg/newtron/device/sonic/appldb.go (a thin struct wrapping a
// *redis.Client plus a background context). Unlike AppDBClient, nothing
// in this module ever reads the cache back: GetDevice always resolves
// fresh against the in-memory database, per spec.md §4.5's requirement
// that resolution stay deterministic and side-effect-free. This is
// strictly an export hook for external tooling (dashboards, debug
// consoles) that want a point-in-time snapshot of what a device
// resolved to, without linking the whole DSL parser.
package devicecache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/logging"
)

// EnvAddr is the environment variable that enables the cache; Exporter
// is a no-op when it is unset, so callers can construct one
// unconditionally.
const EnvAddr = "REDIS_ADDR"

// Exporter writes resolved device snapshots to Redis. The zero value is
// inert; use NewFromEnv to pick up REDIS_ADDR.
type Exporter struct {
	client *redis.Client
	ctx    context.Context
}

// NewFromEnv returns an Exporter wired to REDIS_ADDR, or an inert
// Exporter if the variable is unset.
func NewFromEnv() *Exporter {
	addr := os.Getenv(EnvAddr)
	if addr == "" {
		return &Exporter{}
	}
	return &Exporter{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ctx:    context.Background(),
	}
}

// Enabled reports whether this Exporter is backed by a live client.
func (e *Exporter) Enabled() bool {
	return e != nil && e.client != nil
}

// Close releases the underlying connection, if any.
func (e *Exporter) Close() error {
	if !e.Enabled() {
		return nil
	}
	return e.client.Close()
}

// snapshotKey mirrors the sonic package's colon-joined key convention
// (ROUTE_TABLE:<vrf>:<prefix>), here "device:<vid>:<pid>:<sorted,tags>".
func snapshotKey(ids devicesdb.HidIds, tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	return fmt.Sprintf("device:%04x:%04x:%s", ids.VID, ids.PID, strings.Join(sorted, ","))
}

// inputSnapshot is the JSON-serializable shape of one resolved input,
// independent of devicesdb's internal representation.
type inputSnapshot struct {
	Label string `json:"label,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// Export writes a point-in-time snapshot of a resolved device's name and
// label set under a key derived from ids and tags. Errors are logged and
// swallowed: a cache export must never fail a caller's resolution path.
// A nil or disabled Exporter is a no-op.
func (e *Exporter) Export(ids devicesdb.HidIds, tags []string, name string, labels map[string]string, icons map[string]string) {
	if !e.Enabled() {
		return
	}
	snapshot := struct {
		Name   string                   `json:"name"`
		Inputs map[string]inputSnapshot `json:"inputs"`
	}{
		Name:   name,
		Inputs: make(map[string]inputSnapshot, len(labels)),
	}
	for input, label := range labels {
		snapshot.Inputs[input] = inputSnapshot{Label: label, Icon: icons[input]}
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		logging.Logger.WithField("device", ids).WithError(err).Warn("marshaling device cache snapshot")
		return
	}
	key := snapshotKey(ids, tags)
	if err := e.client.Set(e.ctx, key, payload, 0).Err(); err != nil {
		logging.Logger.WithField("key", key).WithError(err).Warn("writing device cache snapshot")
	}
}
