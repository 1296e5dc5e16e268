// Package debug gates trace output for the save engine behind
// PDX_DEBUG_* environment variables, read once at startup. Everything
// prints to stderr; nothing here is part of the document pipeline.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Resolve bool
	Merge   bool
	Patch   bool
	Query   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Resolve = boolEnv("PDX_DEBUG_RESOLVE")
	d.Merge = boolEnv("PDX_DEBUG_MERGE")
	d.Patch = boolEnv("PDX_DEBUG_PATCH")
	d.Query = boolEnv("PDX_DEBUG_QUERY")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Resolve traces path resolution through the accessor layer.
func Resolve() bool {
	return d.Resolve
}

// Merge traces merge-patch application entry by entry.
func Merge() bool {
	return d.Merge
}

// Patch traces the JSON interchange form a patch runs over.
func Patch() bool {
	return d.Patch
}

// Query traces predicate evaluation per entry.
func Query() bool {
	return d.Query
}
