package sceneobj

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

func nameTaken(objs []Object, name string) bool {
	return slices.ContainsFunc(objs, func(o Object) bool { return o.Name == name })
}

// uniqueName returns base if free, else "base 1", "base 2", ...
func uniqueName(objs []Object, base string) string {
	name := base
	for n := 1; nameTaken(objs, name); n++ {
		name = fmt.Sprintf("%s %d", base, n)
	}
	return name
}

// importName returns base if free, else "base (1)", "base (2)", ...
// Used for media picked from disk so repeated imports of the same file stay apart.
func importName(objs []Object, base string) string {
	name := base
	for n := 1; nameTaken(objs, name); n++ {
		name = fmt.Sprintf("%s (%d)", base, n)
	}
	return name
}

// particleName returns "base N" for the first N >= 1 that is free.
func particleName(objs []Object, base string) string {
	n := 1
	for nameTaken(objs, fmt.Sprintf("%s %d", base, n)) {
		n++
	}
	return fmt.Sprintf("%s %d", base, n)
}

var (
	copySuffix   = regexp.MustCompile(` \(Copy \d+\)$`)
	numberSuffix = regexp.MustCompile(` \d+$`)
)

// copyName strips any "(Copy n)" and trailing counter from name and returns
// "base (Copy n)" for the first free n.
func copyName(objs []Object, orig Object) string {
	base := numberSuffix.ReplaceAllString(copySuffix.ReplaceAllString(orig.Name, ""), "")
	if base == "" {
		base = displayBase(orig.Kind)
	}
	n := 1
	name := fmt.Sprintf("%s (Copy %d)", base, n)
	for nameTaken(objs, name) {
		n++
		name = fmt.Sprintf("%s (Copy %d)", base, n)
	}
	return name
}

func displayBase(k Kind) string {
	if k == Text3D {
		return "3D Text"
	}
	return string(k)
}

// stripExt drops everything from the first dot, so "song.final.mp3" becomes "song".
func stripExt(name string) string {
	if i := strings.Index(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
