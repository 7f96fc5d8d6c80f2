package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"mex/internal/macro"
	"mex/internal/token"
)

// Increment when the payload format changes.
const cacheSchemaVersion uint16 = 1

// Cache stores expansion outputs on disk, keyed by a digest of the registry
// definitions plus the macro name and argument trees. Expansion can reach any
// definition through nested invocations, so the fingerprint covers the whole
// registry; redefining a macro changes the key and the stale entry is simply
// never looked up again. Thread-safe for concurrent workers.
type Cache struct {
	mu  sync.RWMutex
	dir string
	fp  [sha256.Size]byte
}

type cachePayload struct {
	Schema uint16
	Macro  string
	Trees  []token.Tree
}

// OpenCache initializes the cache directory and fingerprints the registry the
// cache will serve.
func OpenCache(dir string, reg *macro.Registry) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fp, err := fingerprint(reg)
	if err != nil {
		return nil, err
	}
	return &Cache{dir: dir, fp: fp}, nil
}

// fingerprint digests every definition in name order.
func fingerprint(reg *macro.Registry) ([sha256.Size]byte, error) {
	h := sha256.New()
	for _, name := range reg.Names() {
		def, _ := reg.Lookup(name)
		raw, err := msgpack.Marshal(def)
		if err != nil {
			return [sha256.Size]byte{}, err
		}
		h.Write([]byte(name))
		h.Write(raw)
	}
	var fp [sha256.Size]byte
	h.Sum(fp[:0])
	return fp, nil
}

func (c *Cache) pathFor(name string, args []token.Tree) (string, bool) {
	raw, err := msgpack.Marshal(cachePayload{Macro: name, Trees: args})
	if err != nil {
		return "", false
	}
	h := sha256.New()
	h.Write(c.fp[:])
	h.Write(raw)
	sum := h.Sum(nil)
	return filepath.Join(c.dir, hex.EncodeToString(sum)+".mp"), true
}

// Put serializes an expansion result. Failures are silent: the cache is an
// optimization and the caller already holds the result.
func (c *Cache) Put(name string, args, out []token.Tree) {
	if c == nil {
		return
	}
	p, ok := c.pathFor(name, args)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return
	}
	tmp := f.Name()
	enc := msgpack.NewEncoder(f)
	err = enc.Encode(cachePayload{Schema: cacheSchemaVersion, Macro: name, Trees: out})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return
	}
	// atomic replace
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
	}
}

// Get loads a cached result. Hygiene marks in the payload belong to the run
// that produced it, so every distinct mark is re-keyed through the engine's
// allocator before the trees are handed out; replayed identities then never
// collide with marks allocated live in this process.
func (c *Cache) Get(engine *macro.Engine, name string, args []token.Tree) ([]token.Tree, bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.pathFor(name, args)
	if !ok {
		return nil, false
	}
	c.mu.RLock()
	raw, err := os.ReadFile(p)
	c.mu.RUnlock()
	if err != nil {
		return nil, false
	}
	var payload cachePayload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	if payload.Schema != cacheSchemaVersion || payload.Macro != name {
		return nil, false
	}
	remap := make(map[token.Mark]token.Mark)
	return remapMarks(payload.Trees, engine, remap), true
}

func remapMarks(trees []token.Tree, engine *macro.Engine, remap map[token.Mark]token.Mark) []token.Tree {
	out := make([]token.Tree, len(trees))
	for i, t := range trees {
		if t.IsLeaf() {
			if m := t.Leaf.Mark; m != token.NoMark {
				fresh, ok := remap[m]
				if !ok {
					fresh = engine.FreshMark()
					remap[m] = fresh
				}
				t.Leaf.Mark = fresh
			}
		} else {
			t.Kids = remapMarks(t.Kids, engine, remap)
		}
		out[i] = t
	}
	return out
}
