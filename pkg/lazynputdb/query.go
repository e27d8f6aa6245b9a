// Package lazynputdb is the public entry point of the module: parse one or
// more DSL sources into a database, then query resolved devices. Grounded
// on pkg/spec.Loader's role as the single constructed facade instance
// owning all loaded state (no package-level globals), generalized from a
// one-shot Load() to incremental parse* calls since this DSL's sources
// are meant to be merged across multiple files/streams over a process's
// lifetime.
package lazynputdb

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lazynput/lazynputdb/internal/dbhash"
	"github.com/lazynput/lazynputdb/internal/dberr"
	"github.com/lazynput/lazynputdb/internal/devicecache"
	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/logging"
	"github.com/lazynput/lazynputdb/internal/parser"
	"github.com/lazynput/lazynputdb/internal/resolver"
	"github.com/lazynput/lazynputdb/internal/strhash"
)

// defaultSourceName is the filename ParseDefault searches for, in the OS
// user-config directory and then the current working directory.
const defaultSourceName = "lazynputdb.txt"

// Query owns a live database and the process-wide global config tags
// (spec.md §5: both lifecycles are "init-on-set, teardown with the
// facade"). The zero value is not usable; construct with New.
type Query struct {
	db         *devicesdb.DB
	globalTags []string
	seenNames  map[strhash.Hash]string // hash -> first literal seen, for HashCollisions
	collisions []string
	cache      *devicecache.Exporter
}

// New returns an empty, ready-to-use Query. If REDIS_ADDR is set, every
// GetDevice call also writes a point-in-time snapshot of its result to
// Redis via internal/devicecache; resolution itself never reads from it.
func New() *Query {
	return &Query{
		db:        devicesdb.New(),
		seenNames: make(map[strhash.Hash]string),
		cache:     devicecache.NewFromEnv(),
	}
}

// Close releases any resources the Query opened, such as a devicecache
// connection.
func (q *Query) Close() error {
	return q.cache.Close()
}

// SetGlobalTags replaces the set of config tags merged into every
// GetDevice call's active tag set, per spec.md §6.
func (q *Query) SetGlobalTags(tags []string) {
	q.globalTags = append([]string(nil), tags...)
}

// ParseStream parses src and, only on full success, merges it into the
// live database (spec.md §4.4's transactional-install invariant). sink
// may be nil for silent diagnostics.
func (q *Query) ParseStream(src io.Reader, sink dberr.Sink) bool {
	p := parser.New(src, q.db, sink)
	ok := p.Parse()
	if ok {
		q.trackNames()
	}
	return ok
}

// ParseFile opens path and parses it as a stream.
func (q *Query) ParseFile(path string, sink dberr.Sink) bool {
	f, err := os.Open(path)
	if err != nil {
		if sink != nil {
			sink.Errorf(0, "opening %s: %v", path, err)
		}
		return false
	}
	defer f.Close()
	logging.WithSource(path).Debug("parsing file")
	return q.ParseStream(f, sink)
}

// ParseDefault searches the OS user-config directory
// (os.UserConfigDir, e.g. $XDG_CONFIG_HOME or ~/.config on Linux) and
// then the current working directory for "lazynputdb.txt", grounded on
// the teacher's SpecDir default-path pattern in pkg/spec/loader.go.
func (q *Query) ParseDefault(sink dberr.Sink) bool {
	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, defaultSourceName)
		if _, err := os.Stat(candidate); err == nil {
			return q.ParseFile(candidate, sink)
		}
	}
	if _, err := os.Stat(defaultSourceName); err == nil {
		return q.ParseFile(defaultSourceName, sink)
	}
	if sink != nil {
		sink.Errorf(0, "no %s found in user config dir or working directory", defaultSourceName)
	}
	return false
}

// HasDevice reports whether ids is a known device in the live database.
func (q *Query) HasDevice(ids devicesdb.HidIds) bool {
	return q.db.HasDevice(ids)
}

// GetDevice resolves ids against the union of the process's global tags
// and extraTags, deduplicated (spec.md §8's resolver-determinism
// invariant: only the *set* of tags matters). A missing device yields a
// falsy (empty) Device, never an error.
func (q *Query) GetDevice(ids devicesdb.HidIds, extraTags ...string) *Device {
	seen := make(map[string]bool, len(q.globalTags)+len(extraTags))
	var tags []string
	for _, t := range q.globalTags {
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	for _, t := range extraTags {
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	resolved := resolver.Resolve(q.db, ids, tags)
	if q.cache.Enabled() {
		labels := make(map[string]string, len(resolved.Inputs))
		icons := make(map[string]string, len(resolved.Inputs))
		for h, info := range resolved.Inputs {
			name := q.StringFromHash(h)
			labels[name] = info.Label.Ascii
			icons[name] = info.Label.UTF8
		}
		q.cache.Export(ids, tags, resolved.Name, labels, icons)
	}
	return newDevice(resolved)
}

// StringFromHash reverse-looks-up a fully-qualified "interface.input"
// hash to its literal name, or "" if unknown.
func (q *Query) StringFromHash(h devicesdb.Hash) string {
	return q.db.NameOfHash[h]
}

// InterfaceInputType reverse-looks-up an interface input's declared type
// by its fully-qualified hash, or InputNil if unknown.
func (q *Query) InterfaceInputType(h devicesdb.Hash) devicesdb.InterfaceInputType {
	full := q.db.NameOfHash[h]
	dot := strings.IndexByte(full, '.')
	if dot < 0 {
		return devicesdb.InputNil
	}
	if t, ok := q.db.Interfaces[strhash.Sum(full[:dot])][strhash.Sum(full[dot+1:])]; ok {
		return t
	}
	return devicesdb.InputNil
}

// DeviceIDs returns every declared device's HID id pair, for tooling that
// needs to walk the whole database rather than resolve one device.
func (q *Query) DeviceIDs() []devicesdb.HidIds {
	ids := make([]devicesdb.HidIds, 0, len(q.db.Devices))
	for id := range q.db.Devices {
		ids = append(ids, id)
	}
	return ids
}

// Interfaces returns every declared interface's name, mapped to its
// input names and declared types, for tooling like `dump-interfaces`
// that needs the whole schema rather than one device's resolved view.
// Names are recovered from the recorded "interface.input" names, so an
// interface that declares no inputs is not listed.
func (q *Query) Interfaces() map[string]map[string]devicesdb.InterfaceInputType {
	out := make(map[string]map[string]devicesdb.InterfaceInputType, len(q.db.Interfaces))
	for _, full := range q.db.NameOfHash {
		dot := strings.IndexByte(full, '.')
		if dot < 0 {
			continue
		}
		ifaceName, inputName := full[:dot], full[dot+1:]
		t, ok := q.db.Interfaces[strhash.Sum(ifaceName)][strhash.Sum(inputName)]
		if !ok {
			continue
		}
		if out[ifaceName] == nil {
			out[ifaceName] = make(map[string]devicesdb.InterfaceInputType)
		}
		out[ifaceName][inputName] = t
	}
	return out
}

// SourceChecksum returns a content checksum of path, suitable for
// cache-busting a caller that memoizes ParseFile results. It does not
// parse or validate the file; a missing file returns ok == false.
func (q *Query) SourceChecksum(path string) (sum string, ok bool) {
	return dbhash.FileChecksum(path)
}

// trackNames records every known "interface.input" name this process has
// seen, for the debug-only HashCollisions diagnostic. It can only observe
// collisions across separate ParseStream calls: within one stream, two
// colliding literals already overwrite each other in NameOfHash before
// this runs, per spec.md §9's documented accepted risk around 32-bit
// hash identity.
func (q *Query) trackNames() {
	for h, name := range q.db.NameOfHash {
		prior, ok := q.seenNames[h]
		if !ok {
			q.seenNames[h] = name
			continue
		}
		if prior != name {
			q.collisions = append(q.collisions, prior, name)
			q.seenNames[h] = name
		}
	}
}

// HashCollisions surfaces any two distinct "interface.input" identifiers
// this process has observed across separate parses that fold to the same
// 32-bit Hash, grounded on the original implementation's debug-build
// assertions around hash identity, exposed here as an opt-in diagnostic
// instead of a panic.
func (q *Query) HashCollisions() []string {
	return append([]string(nil), q.collisions...)
}
