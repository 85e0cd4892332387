package graph

import "github.com/orbit-hdl/orbit/internal/hdl"

// Builder accumulates design units file by file (spec.md §4.2 "Pass 1"),
// then resolves architecture/body edges on Build (spec.md §4.2 "Pass 2").
// Feed it every file of an IP — and, when merging a dependency's units into
// the same index for resolution, every file of its dependencies too.
type Builder struct {
	index   map[string]*UnitNode
	nodes   []*UnitNode
	pending []pendingUnit
}

type pendingUnit struct {
	file string
	unit hdl.DesignUnit
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]*UnitNode)}
}

func unitKey(id hdl.Identifier) string {
	if id.Dialect.CaseSensitive() {
		return "cs:" + id.Key()
	}
	return "ci:" + id.Key()
}

// AddFile registers the design units extracted from one file. Primary units
// (Entity/Module/Macromodule) allocate a node immediately;
// non-primary units (Architecture/Body/Package/Configuration) are held back
// until Build, since their owning entity may live in a file not yet seen.
//
// Re-adding the same file's primary declaration is tolerated (a no-op);
// the same identifier declared as a primary unit in a second, different
// file is a hard DuplicateUnitError, since HDL forbids redeclaring an
// entity/module.
func (b *Builder) AddFile(file string, units []hdl.DesignUnit) error {
	for _, u := range units {
		if !u.Kind.Primary() {
			b.pending = append(b.pending, pendingUnit{file: file, unit: u})
			continue
		}
		key := unitKey(u.Name)
		if existing, ok := b.index[key]; ok {
			if containsFile(existing.Files, file) {
				continue
			}
			return &DuplicateUnitError{
				Name:       u.Name.Name,
				FirstFile:  existing.Files[0],
				SecondFile: file,
				FirstPos:   existing.Unit.Pos,
				SecondPos:  u.Pos,
			}
		}
		node := &UnitNode{Index: len(b.nodes), Unit: u, Files: []string{file}}
		b.nodes = append(b.nodes, node)
		b.index[key] = node
	}
	return nil
}

func containsFile(files []string, file string) bool {
	for _, f := range files {
		if f == file {
			return true
		}
	}
	return false
}

// Build resolves pass 2: each pending architecture/body's owner gains its
// file, and each identifier it instantiates gains an edge into the owner's
// node, provided both sides resolve within this index. Dangling references
// — instantiating a unit this Builder never saw — are ignored at this
// layer, per spec.md §4.2; they are expected to be satisfied once dependency
// IP units are merged into the same Builder before Build is called.
func (b *Builder) Build() (*Graph, error) {
	var edges []Edge
	for _, pu := range b.pending {
		if pu.unit.Owner.Name == "" {
			continue
		}
		owner, ok := b.index[unitKey(pu.unit.Owner)]
		if !ok {
			continue
		}
		owner.addFile(pu.file)
		for _, dep := range pu.unit.Instantiates {
			depNode, ok := b.index[unitKey(dep)]
			if !ok {
				continue
			}
			edges = append(edges, Edge{From: depNode.Index, To: owner.Index})
		}
	}
	return &Graph{Nodes: b.nodes, Edges: edges}, nil
}
