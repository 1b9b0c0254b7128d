// Package config exposes gel's flag-style tunables, registered the way
// cmd/asm/internal/flags registers assembler flags: a RegisterFlags
// function for a standard *flag.FlagSet, no config file format. cmd/gel
// does not call RegisterFlags; it declares its own cobra flags and copies
// them into a Config.
package config

import "flag"

// Config holds the runtime-tunable knobs named in spec.md §4 (the young
// zone's semispace size, the old zone's size and large-object threshold)
// plus the pedantic-mode switch from spec.md §6.
type Config struct {
	// NewZoneSemisize is the size in bytes of each of the young zone's two
	// semispaces (so the young zone as a whole reserves 2x this).
	NewZoneSemisize int
	// OldZoneSize is the size in bytes of the old zone's free-list region.
	OldZoneSize int
	// LargeObjectThreshold is the size in bytes at/above which an
	// allocation is routed directly to the old zone instead of the
	// young zone.
	LargeObjectThreshold int
	// Pedantic records spec.md §6's --pedantic switch. No component of the
	// runtime reads it, so setting it does not change execution.
	Pedantic bool
}

// Default mirrors heap.DefaultConfig's sizes so callers that only touch
// internal/config and callers that only touch internal/heap agree.
func Default() Config {
	return Config{
		NewZoneSemisize:      1 << 20,
		OldZoneSize:          4 << 20,
		LargeObjectThreshold: 4096,
	}
}

// RegisterFlags registers c's fields against fs, using the teacher's
// flag.Var-style registration rather than a struct tag library.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.NewZoneSemisize, "new-zone-size", c.NewZoneSemisize, "bytes per young-zone semispace")
	fs.IntVar(&c.OldZoneSize, "old-zone-size", c.OldZoneSize, "bytes reserved for the old zone")
	fs.IntVar(&c.LargeObjectThreshold, "large-object-threshold", c.LargeObjectThreshold, "bytes at/above which allocation goes straight to the old zone")
	fs.BoolVar(&c.Pedantic, "pedantic", c.Pedantic, "accepted and recorded; has no effect on execution")
}
