package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/orbit-hdl/orbit/internal/graph"
	"github.com/orbit-hdl/orbit/internal/hdl"
)

// Record is one blueprint.tsv line: a fileset key, a library name, and the
// absolute path of one contributing file (spec.md §4.5).
type Record struct {
	Fileset string
	Library string
	Path    string
}

func (r Record) String() string {
	return fmt.Sprintf("%s\t%s\t%s", r.Fileset, r.Library, r.Path)
}

// LibraryOf resolves the library name a node's files belong to — the
// working IP's own library for local nodes, or a dependency's declared
// library when the node came from a merged dependency index.
type LibraryOf func(nodeIndex int) string

// classifyHdl maps a file to its blueprint fileset key, refining VHDL into
// VHDL-RTL/VHDL-SIM by the testbench naming convention (spec.md §4.5).
// Unrecognized extensions return "", telling the caller to skip the file.
func classifyHdl(file string) string {
	switch hdl.DialectOf(file) {
	case hdl.VHDL:
		if hdl.IsTestbenchPath(file) {
			return "VHDL-SIM"
		}
		return "VHDL-RTL"
	case hdl.Verilog:
		return "VLOG"
	case hdl.SystemVerilog:
		return "SYSV"
	default:
		return ""
	}
}

// BuildHdlRecords emits one record per contributing file in node order;
// within a node, files appear in insertion order (declaration file first,
// architectures/bodies next) since UnitNode.Files already preserves that.
func BuildHdlRecords(g *graph.Graph, order []int, libOf LibraryOf) []Record {
	var out []Record
	for _, idx := range order {
		lib := libOf(idx)
		for _, f := range g.Nodes[idx].Files {
			set := classifyHdl(f)
			if set == "" {
				continue
			}
			out = append(out, Record{Fileset: set, Library: lib, Path: f})
		}
	}
	return out
}

// FilesetRule is a user-defined or plugin-defined fileset: every file under
// the IP matching Pattern (a doublestar glob, matched against the path
// relative to the IP root) is emitted under Key.
type FilesetRule struct {
	Key     string
	Pattern string
}

// ExpandFilesets glob-matches every rule against every file under root,
// emitting a record per match. A file may satisfy more than one rule, and
// each match is emitted — duplicate lines across fileset keys are
// intentional (spec.md §9 Open Question 1: left unresolved upstream,
// resolved here as "emit them").
func ExpandFilesets(root string, rules []FilesetRule, files []string, library string) []Record {
	var out []Record
	for _, rule := range rules {
		for _, f := range files {
			rel, err := filepath.Rel(root, f)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			ok, err := doublestar.Match(rule.Pattern, rel)
			if err != nil || !ok {
				continue
			}
			out = append(out, Record{Fileset: rule.Key, Library: library, Path: f})
		}
	}
	return out
}

// Blueprint is the full emitted build plan: user/plugin fileset records
// first, then HDL records in minimal-topological-sort order, per spec.md
// §4.5.
type Blueprint struct {
	Records []Record
	Top     string
	Bench   string
}

// NewBlueprint assembles the final record stream: fileset expansions
// precede HDL records, matching the order spec.md §4.5 mandates.
func NewBlueprint(filesetRecords, hdlRecords []Record, tb TopBench) *Blueprint {
	records := make([]Record, 0, len(filesetRecords)+len(hdlRecords))
	records = append(records, filesetRecords...)
	records = append(records, hdlRecords...)
	return &Blueprint{Records: records, Top: tb.TopName, Bench: tb.BenchName}
}

// EnvOverrides is the explicit key/value set a subprocess launcher threads
// into the external toolchain's environment. Orbit never mutates its own
// process environment mid-plan (spec.md §9 "Global env vars") — ORBIT_TOP
// and ORBIT_BENCH are carried as data instead.
type EnvOverrides map[string]string

// Env returns the ORBIT_TOP / ORBIT_BENCH overrides for this blueprint.
func (b *Blueprint) Env() EnvOverrides {
	return EnvOverrides{"ORBIT_TOP": b.Top, "ORBIT_BENCH": b.Bench}
}

// Write renders the blueprint to <buildDir>/blueprint.tsv and the env
// overrides to <buildDir>/.env, creating buildDir if missing. Both files
// are built fully in memory first and written via a temp-file-then-rename
// so a reader never observes a partially written blueprint, mirroring the
// cache engine's atomic slot creation (spec.md §3 "created atomically").
func (b *Blueprint) Write(buildDir string) error {
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(buildDir, "blueprint.tsv"), b.blueprintBytes()); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(buildDir, ".env"), b.envBytes())
}

func (b *Blueprint) blueprintBytes() []byte {
	var sb strings.Builder
	for _, r := range b.Records {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

func (b *Blueprint) envBytes() []byte {
	env := b.Env()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(env[k])
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
