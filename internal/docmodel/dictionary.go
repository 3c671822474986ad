package docmodel

import (
	"crypto/sha256"

	"github.com/cespare/xxhash/v2"
)

// Dictionary maps code_id -> payload text, preserving first-insertion order
// (spec §3, §4.D Stage 3: "first-writer wins per hash").
type Dictionary struct {
	order   []Hash
	entries map[Hash]string
	// prefilter holds a cheap 64-bit xxhash of every payload already
	// inserted. It lets Put() skip the SHA-256 computation for a payload
	// that is byte-identical to one already seen, the way mebo's
	// internal/hash package guards its own codec from recomputing a
	// collision-resistant digest on every insert.
	prefilter map[uint64][]Hash
}

// NewDictionary returns an empty, order-preserving dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		entries:   make(map[Hash]string),
		prefilter: make(map[uint64][]Hash),
	}
}

// HashPayload computes the 32-byte content hash of a cell payload.
// Deterministic: equal strings produce equal hashes.
func HashPayload(payload string) Hash {
	return Hash(sha256.Sum256([]byte(payload)))
}

// Put inserts payload if its hash is not already present (first-writer
// wins) and returns its code_id.
func (d *Dictionary) Put(payload string) Hash {
	xh := xxhash.Sum64String(payload)
	for _, candidate := range d.prefilter[xh] {
		if d.entries[candidate] == payload {
			return candidate
		}
	}
	h := HashPayload(payload)
	if _, ok := d.entries[h]; !ok {
		d.entries[h] = payload
		d.order = append(d.order, h)
		d.prefilter[xh] = append(d.prefilter[xh], h)
	}
	return h
}

// Get looks up a payload by code_id.
func (d *Dictionary) Get(h Hash) (string, bool) {
	v, ok := d.entries[h]
	return v, ok
}

// Len returns the number of distinct entries.
func (d *Dictionary) Len() int { return len(d.order) }

// Entries returns the dictionary as an ordered slice of (hash, payload)
// pairs, matching insertion order (spec §4.C: "order preservation
// required").
func (d *Dictionary) Entries() []DictEntry {
	out := make([]DictEntry, 0, len(d.order))
	for _, h := range d.order {
		out = append(out, DictEntry{CodeID: h, Payload: d.entries[h]})
	}
	return out
}

// Retain drops every entry whose code_id is not in keep, preserving the
// relative order of the survivors (spec §3 invariant 2: "no unused
// entries" after the budget/dedup pass).
func (d *Dictionary) Retain(keep map[Hash]struct{}) {
	newOrder := make([]Hash, 0, len(keep))
	newPrefilter := make(map[uint64][]Hash)
	for _, h := range d.order {
		if _, ok := keep[h]; !ok {
			delete(d.entries, h)
			continue
		}
		newOrder = append(newOrder, h)
		xh := xxhash.Sum64String(d.entries[h])
		newPrefilter[xh] = append(newPrefilter[xh], h)
	}
	d.order = newOrder
	d.prefilter = newPrefilter
}

// DictEntry is one (code_id, payload) pair in insertion order.
type DictEntry struct {
	CodeID  Hash
	Payload string
}

// FromEntries rebuilds a Dictionary from an ordered entry list, as used by
// the codec on decode.
func FromEntries(entries []DictEntry) *Dictionary {
	d := NewDictionary()
	for _, e := range entries {
		d.entries[e.CodeID] = e.Payload
		d.order = append(d.order, e.CodeID)
		xh := xxhash.Sum64String(e.Payload)
		d.prefilter[xh] = append(d.prefilter[xh], e.CodeID)
	}
	return d
}
