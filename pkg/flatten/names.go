package flatten

import (
	"fmt"
	"path"
	"strings"
)

// imageExt is the fixed extension of exported layer images; the export
// pipeline re-encodes everything as PNG.
const imageExt = ".png"

// NameAllocator issues output file names for exported layer images. Its
// state is scoped to one conversion run.
//
// In the default mode the bare layer name is returned unchanged and no
// uniqueness is enforced: images land in per-group subdirectories that
// mirror the document hierarchy, so the directory structure itself
// disambiguates (colliding siblings are the caller's responsibility).
// In flatten mode every image lands in one directory, so the node's
// group path is folded into the name and a numeric suffix appended until
// the candidate is unused.
type NameAllocator struct {
	flatten bool
	issued  map[string]struct{}
}

// NewNameAllocator returns an allocator for one conversion run.
func NewNameAllocator(flatten bool) *NameAllocator {
	return &NameAllocator{
		flatten: flatten,
		issued:  make(map[string]struct{}),
	}
}

// Allocate returns the file name for a layer named base. nodePath is the
// slash-joined group path of the layer's parent, empty at the document
// root; it is only consulted in flatten mode.
func (a *NameAllocator) Allocate(base, nodePath string) string {
	base = sanitize(strings.TrimSuffix(base, path.Ext(base)))

	if !a.flatten {
		return base + imageExt
	}

	stem := base
	if nodePath != "" {
		stem = strings.ReplaceAll(nodePath, "/", "_") + "_" + stem
	}

	name := stem + imageExt
	for n := 1; ; n++ {
		if _, taken := a.issued[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s_%d%s", stem, n, imageExt)
	}
	a.issued[name] = struct{}{}
	return name
}

// sanitize keeps layer names from escaping the output directory; path
// separators inside a name are folded to underscores.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "layer"
	}
	return name
}
