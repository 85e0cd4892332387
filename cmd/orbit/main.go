// Command orbit is the thin CLI front-end over the planning, install, and
// inspection packages (spec.md §1 "cmd/orbit is an external collaborator,
// not part of the core"). It carries no planning or resolution logic of its
// own: every decision is made by internal/plan, internal/graph,
// internal/cache, internal/manifest, and internal/lockfile; this file only
// parses flags, wires those packages together, and maps the result to an
// exit code: a single cli.App wiring subcommands into the internal
// packages that do the real work.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/orbit-hdl/orbit/internal/cache"
	"github.com/orbit-hdl/orbit/internal/graph"
	"github.com/orbit-hdl/orbit/internal/hdl"
	"github.com/orbit-hdl/orbit/internal/hdl/extract"
	"github.com/orbit-hdl/orbit/internal/manifest"
	"github.com/orbit-hdl/orbit/internal/orberr"
	"github.com/orbit-hdl/orbit/internal/plan"
	"github.com/orbit-hdl/orbit/internal/semver"
	"github.com/orbit-hdl/orbit/internal/suggest"
	"github.com/orbit-hdl/orbit/internal/version"
	"github.com/orbit-hdl/orbit/pkg/pathutil"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "orbit",
		Usage:   "package manager and build planner for HDL projects",
		Version: version.Version,
		Commands: []*cli.Command{
			planCommand(),
			installCommand(),
			showCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(orberr.ExitCode(err))
	}
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "build a blueprint and .env from the design-unit graph (spec.md §4.3-§4.5)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "project root to scan for HDL sources", Value: "."},
			&cli.StringFlag{Name: "top", Usage: "force the top-level design unit"},
			&cli.StringFlag{Name: "bench", Usage: "force the testbench design unit"},
			&cli.StringFlag{Name: "library", Usage: "library name HDL records are emitted under", Value: "work"},
			&cli.StringFlag{Name: "build-dir", Usage: "directory to write blueprint.tsv and .env into", Value: "build"},
			&cli.StringSliceFlag{Name: "fileset", Usage: "extra fileset rule as key=glob, repeatable"},
		},
		Action: runPlan,
	}
}

func runPlan(c *cli.Context) error {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return orberr.New(orberr.IoError, "plan: resolving root", err)
	}
	files, err := discoverHdlFiles(root)
	if err != nil {
		return orberr.New(orberr.IoError, "plan: scanning sources", err)
	}

	parsed, err := extract.ReadFiles(context.Background(), files)
	if err != nil {
		return orberr.New(orberr.HdlParseError, "plan: parsing sources", err)
	}

	builder := graph.NewBuilder()
	for _, fu := range parsed {
		if err := builder.AddFile(fu.Path, fu.Units); err != nil {
			return orberr.New(orberr.GraphError, "plan: indexing "+fu.Path, err)
		}
	}

	g, err := builder.Build()
	if err != nil {
		return orberr.New(orberr.GraphError, "plan: building graph", err)
	}

	tb, err := plan.InferTopBench(g, c.String("top"), c.String("bench"))
	if err != nil {
		return orberr.New(orberr.GraphError, "plan: inferring top/bench", augmentWithSuggestion(err, g))
	}

	order, err := plan.MinimalTopologicalSort(g, tb.BenchIndex)
	if err != nil {
		return orberr.New(orberr.GraphError, "plan: ordering design units", err)
	}

	library := c.String("library")
	hdlRecords := plan.BuildHdlRecords(g, order, func(int) string { return library })

	var filesetRecords []plan.Record
	if rules := parseFilesetFlags(c.StringSlice("fileset")); len(rules) > 0 {
		filesetRecords = plan.ExpandFilesets(root, rules, files, library)
	}

	bp := plan.NewBlueprint(filesetRecords, hdlRecords, tb)
	if err := bp.Write(c.String("build-dir")); err != nil {
		return orberr.New(orberr.IoError, "plan: writing blueprint", err)
	}

	fmt.Printf("info: blueprint created at %s\n", filepath.Join(c.String("build-dir"), "blueprint.tsv"))
	fmt.Printf("top: %s  bench: %s\n", tb.TopName, tb.BenchName)
	for _, rec := range hdlRecords {
		fmt.Printf("  %s\t%s\n", rec.Fileset, pathutil.ToRelative(rec.Path, root))
	}
	return nil
}

func parseFilesetFlags(raw []string) []plan.FilesetRule {
	var rules []plan.FilesetRule
	for _, r := range raw {
		key, pattern, ok := strings.Cut(r, "=")
		if !ok {
			continue
		}
		rules = append(rules, plan.FilesetRule{Key: key, Pattern: pattern})
	}
	return rules
}

// discoverHdlFiles walks root collecting every file internal/hdl recognizes
// by extension (spec.md §4.1). It skips .git, as internal/cache.DirChecksum
// does, and also every other hidden directory, which DirChecksum does not.
func discoverHdlFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || (d.Name() != "." && strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if hdl.DialectOf(path) != hdl.Unknown {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

// augmentWithSuggestion adds a "did you mean" hint to an UnknownUnitError
// using every primary unit name currently in the graph as a candidate pool
// (spec.md §9 "Fuzzy suggestions").
func augmentWithSuggestion(err error, g *graph.Graph) error {
	uu, ok := err.(*plan.UnknownUnitError)
	if !ok {
		return err
	}
	var names []string
	for _, n := range g.Nodes {
		names = append(names, n.Unit.Name.Name)
	}
	if hint := suggest.DidYouMean(uu.Name, names); hint != "" {
		return fmt.Errorf("%w (%s)", err, hint)
	}
	return err
}

func installCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "install an IP into the cache from a source repository (spec.md §4.6)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ip", Usage: "name the installed IP is cached under", Required: true},
			&cli.StringFlag{Name: "git", Usage: "path or URL of the source git repository", Required: true},
			&cli.StringFlag{Name: "version", Usage: "version constraint (e.g. latest, 1.2, 1.2.3, dev)", Value: "latest"},
			&cli.StringFlag{Name: "store", Usage: "store directory of bare clones", Value: defaultOrbitHome("store")},
			&cli.StringFlag{Name: "cache", Usage: "cache directory of installed slots", Value: defaultOrbitHome("cache")},
			&cli.BoolFlag{Name: "force", Usage: "reinstall even if a matching slot already exists"},
		},
		Action: runInstall,
	}
}

func runInstall(c *cli.Context) error {
	constraint, err := semver.ParseConstraint(c.String("version"))
	if err != nil {
		return orberr.New(orberr.ManifestError, "install: parsing version constraint", err)
	}

	engine := cache.NewEngine(
		cache.NewStore(c.String("store")),
		cache.NewCache(c.String("cache")),
		log.New(os.Stderr, "", 0),
	)

	result, err := engine.Install(context.Background(), c.String("ip"), c.String("git"), constraint, c.Bool("force"))
	if err != nil {
		return orberr.New(orberr.ResolutionError, "install: "+c.String("ip"), err)
	}

	if result.AlreadyInstalled {
		fmt.Printf("%s@%s already installed (slot %s)\n", c.String("ip"), result.Version, result.Slot)
		return nil
	}
	fmt.Printf("installed %s@%s -> %s\n", c.String("ip"), result.Version, result.Slot)
	return nil
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "print an installed or local IP's identity and summary (original_source/src/commands/v2/show.rs)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "directory containing Orbit.toml", Value: "."},
			&cli.StringFlag{Name: "ip", Usage: "name of an installed IP to inspect, resolved via --cache instead of --path"},
			&cli.StringFlag{Name: "ver", Aliases: []string{"v"}, Usage: "version to select when --ip resolves to more than one cached slot"},
			&cli.StringFlag{Name: "cache", Usage: "cache directory of installed slots", Value: defaultOrbitHome("cache")},
			&cli.BoolFlag{Name: "versions", Usage: "list every cached version of --ip instead of printing its manifest"},
			&cli.BoolFlag{Name: "units", Usage: "also print the IP's primary design-unit table"},
		},
		Action: runShow,
	}
}

func runShow(c *cli.Context) error {
	ip := c.String("ip")
	if c.Bool("versions") {
		if ip == "" {
			return orberr.New(orberr.UserInput, "show: --versions", fmt.Errorf("--versions requires --ip"))
		}
		return runShowVersions(c, ip)
	}

	root, err := resolveShowRoot(c, ip)
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(root, "Orbit.toml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return orberr.New(orberr.IoError, "show: reading "+manifestPath, err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return orberr.New(orberr.ManifestError, "show: "+manifestPath, err)
	}

	info, err := manifest.Inspect(m, root)
	if err != nil {
		return orberr.New(orberr.IoError, "show: inspecting "+root, err)
	}

	fmt.Printf("%s.%s (%s)\n", info.Manifest.Vendor, info.Manifest.Library, info.Manifest.Name)
	fmt.Printf("version: %s\n", info.Manifest.Version)
	fmt.Printf("uuid:    %s\n", info.Manifest.UUID)
	if info.Manifest.Summary != "" {
		fmt.Printf("summary: %s\n", info.Manifest.Summary)
	}
	if info.Manifest.Source != "" {
		fmt.Printf("source:  %s\n", info.Manifest.Source)
	}
	fmt.Printf("on disk: %s (%d bytes)\n", pathutil.ToRelative(info.Path, root), info.SizeBytes)

	if c.Bool("units") {
		if err := printUnitTable(root); err != nil {
			return orberr.New(orberr.HdlParseError, "show: listing design units", err)
		}
	}
	return nil
}

// resolveShowRoot picks the directory show's --path/--ip/--ver flags point
// at: a local dev path by default, or an installed cache slot selected by
// name and version when --ip is given (spec.md §10 item 1).
func resolveShowRoot(c *cli.Context, ip string) (string, error) {
	if ip == "" {
		return c.String("path"), nil
	}
	cacheDir := cache.NewCache(c.String("cache"))
	slots, err := cacheDir.ListSlots(ip)
	if err != nil {
		return "", orberr.New(orberr.IoError, "show: listing slots for "+ip, err)
	}
	if len(slots) == 0 {
		return "", orberr.New(orberr.ResolutionError, "show: "+ip, fmt.Errorf("no installed version of %q found", ip))
	}
	ver := c.String("ver")
	if ver == "" {
		if len(slots) > 1 {
			return "", orberr.New(orberr.UserInput, "show: "+ip, fmt.Errorf("%d versions of %q are installed, specify --ver", len(slots), ip))
		}
		return cacheDir.SlotPath(slots[0].Slot), nil
	}
	for _, s := range slots {
		if s.Version == ver {
			return cacheDir.SlotPath(s.Slot), nil
		}
	}
	return "", orberr.New(orberr.ResolutionError, "show: "+ip, fmt.Errorf("version %q of %q is not installed", ver, ip))
}

// runShowVersions implements --versions: list every cached version of ip
// without loading a manifest, the same display mode show.rs's --versions
// flag selects.
func runShowVersions(c *cli.Context, ip string) error {
	cacheDir := cache.NewCache(c.String("cache"))
	slots, err := cacheDir.ListSlots(ip)
	if err != nil {
		return orberr.New(orberr.IoError, "show: listing slots for "+ip, err)
	}
	if len(slots) == 0 {
		fmt.Printf("no installed versions of %s\n", ip)
		return nil
	}
	for _, s := range slots {
		fmt.Println(s.Version)
	}
	return nil
}

// printUnitTable prints the primary design units extracted from every HDL
// file under root, reusing the same parallel extraction runPlan uses.
func printUnitTable(root string) error {
	files, err := discoverHdlFiles(root)
	if err != nil {
		return err
	}
	parsed, err := extract.ReadFiles(context.Background(), files)
	if err != nil {
		return err
	}
	for _, fu := range parsed {
		for _, u := range fu.Units {
			if !u.Kind.Primary() {
				continue
			}
			fmt.Printf("  %s\t%s\t%s\n", u.Kind, u.Name.Name, pathutil.ToRelative(fu.Path, root))
		}
	}
	return nil
}

func defaultOrbitHome(sub string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".orbit", sub)
	}
	return filepath.Join(home, ".orbit", sub)
}
