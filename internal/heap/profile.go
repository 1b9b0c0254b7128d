package heap

import (
	"io"

	"github.com/google/pprof/profile"
)

// Profile walks every live object in both generations and renders them as a
// pprof profile: one sample per object, grouped by its ClassName, with
// "objects" and "bytes" values. This gives gel's --show-heap-stats flag
// (documented in SPEC_FULL.md's DOMAIN STACK section) a real artifact
// operators can already open with `go tool pprof`, instead of a bespoke
// text dump.
func (h *Heap) Profile() *profile.Profile {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "objects", Unit: "count"},
			{Type: "space", Unit: "bytes"},
		},
		PeriodType: &profile.ValueType{Type: "heap", Unit: "bytes"},
		Period:     1,
	}

	functions := map[string]*profile.Function{}
	nextFnID := uint64(1)
	nextLocID := uint64(1)

	sample := func(class string, bytes int64) {
		fn, ok := functions[class]
		if !ok {
			fn = &profile.Function{ID: nextFnID, Name: class, SystemName: class}
			nextFnID++
			functions[class] = fn
			p.Function = append(p.Function, fn)
		}
		loc := &profile.Location{
			ID:   nextLocID,
			Line: []profile.Line{{Function: fn}},
		}
		nextLocID++
		p.Location = append(p.Location, loc)
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{1, bytes},
			Label:    map[string][]string{"class": {class}},
		})
	}

	for addr, obj := range h.Young.payloads {
		hdr := h.Young.HeaderAt(addr)
		sample(obj.ClassName(), int64(hdr.Tag.Size()))
	}
	for addr, obj := range h.Old.payloads {
		hdr := h.Old.HeaderAt(addr)
		sample(obj.ClassName(), int64(hdr.Tag.Size()))
	}

	return p
}

// WriteProfile renders Profile as gzip-compressed pprof wire format,
// exactly what `go tool pprof` expects to read.
func (h *Heap) WriteProfile(w io.Writer) error {
	return h.Profile().Write(w)
}
