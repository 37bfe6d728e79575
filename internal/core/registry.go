package core

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Registry is the immutable in-memory index built by Load.
// It is safe for concurrent use; nothing mutates it after Load returns.
type Registry struct {
	id       uuid.UUID
	source   string
	loadedAt time.Time
	stats    LoadStats

	records  map[int]Record
	codes    []int          // all codes, ascending
	children map[int][]int  // parent code -> child codes, ascending
	counties map[int]County // county number -> county marker
}

func newRegistry(records map[int]Record, source string) *Registry {
	reg := &Registry{
		id:       uuid.New(),
		source:   source,
		loadedAt: time.Now(),
		records:  records,
		codes:    make([]int, 0, len(records)),
		children: make(map[int][]int),
		counties: make(map[int]County),
	}

	for code := range records {
		reg.codes = append(reg.codes, code)
	}
	sort.Ints(reg.codes)

	// Codes are visited in ascending order, so child lists come out sorted.
	for _, code := range reg.codes {
		rec := records[code]
		reg.children[rec.Parent] = append(reg.children[rec.Parent], code)
	}

	// The county index needs every row: a county marker may follow the
	// entities that reference it.
	for _, code := range reg.codes {
		rec := records[code]
		if rec.IsCounty() {
			reg.counties[rec.County] = County{Number: rec.County, Code: rec.Code, Name: rec.Name}
		}
	}

	return reg
}

// ID identifies this load. A reload always produces a new ID.
func (r *Registry) ID() uuid.UUID { return r.id }

// Source names the input the registry was loaded from.
func (r *Registry) Source() string { return r.source }

// LoadedAt returns when the load completed.
func (r *Registry) LoadedAt() time.Time { return r.loadedAt }

// Stats returns the load statistics.
func (r *Registry) Stats() LoadStats { return r.stats }

// Len returns the number of records.
func (r *Registry) Len() int { return len(r.records) }

// Lookup returns the record for code.
func (r *Registry) Lookup(code int) (Record, bool) {
	rec, ok := r.records[code]
	return rec, ok
}

// Contains reports whether code is in the registry.
func (r *Registry) Contains(code int) bool {
	_, ok := r.records[code]
	return ok
}

// Codes returns all codes in ascending order.
func (r *Registry) Codes() []int {
	out := make([]int, len(r.codes))
	copy(out, r.codes)
	return out
}

// Each calls fn for every record in ascending code order until fn returns false.
func (r *Registry) Each(fn func(Record) bool) {
	for _, code := range r.codes {
		if !fn(r.records[code]) {
			return
		}
	}
}

// County returns the county index entry for a county number.
func (r *Registry) County(number int) (County, bool) {
	c, ok := r.counties[number]
	return c, ok
}

// Counties returns the county index ordered by county number.
func (r *Registry) Counties() []County {
	out := make([]County, 0, len(r.counties))
	for _, c := range r.counties {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out
}

// childCodes returns the codes whose parent is code. The result is shared;
// callers must copy before handing it out.
func (r *Registry) childCodes(code int) []int {
	return r.children[code]
}
