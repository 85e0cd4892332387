// Package extract dispatches a source file to the VHDL or Verilog/
// SystemVerilog symbol extractor by its dialect, per spec.md §4.1. It lives
// apart from internal/hdl because internal/hdl/vhdl and internal/hdl/verilog
// both import internal/hdl for the shared token/identifier/DesignUnit types,
// and internal/hdl dispatching back into them would be an import cycle.
package extract

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/orbit-hdl/orbit/internal/hdl"
	"github.com/orbit-hdl/orbit/internal/hdl/verilog"
	"github.com/orbit-hdl/orbit/internal/hdl/vhdl"
)

// ReadLazy extracts design units from path's content, classifying the
// dialect by file extension. Files of Unknown dialect return no symbols and
// no error — the caller silently skips them (spec.md §4.1).
func ReadLazy(path, src string) []hdl.DesignUnit {
	switch hdl.DialectOf(path) {
	case hdl.VHDL:
		return vhdl.ReadLazy(path, src).IntoSymbols()
	case hdl.Verilog:
		return verilog.ReadLazy(path, src, hdl.Verilog).IntoSymbols()
	case hdl.SystemVerilog:
		return verilog.ReadLazy(path, src, hdl.SystemVerilog).IntoSymbols()
	default:
		return nil
	}
}

// Read extracts design units from path's content, failing on the first
// unrecoverable parse error. Files of Unknown dialect return no symbols and
// no error.
func Read(path, src string) ([]hdl.DesignUnit, error) {
	switch hdl.DialectOf(path) {
	case hdl.VHDL:
		p, err := vhdl.Read(path, src)
		if err != nil {
			return nil, err
		}
		return p.IntoSymbols(), nil
	case hdl.Verilog:
		p, err := verilog.Read(path, src, hdl.Verilog)
		if err != nil {
			return nil, err
		}
		return p.IntoSymbols(), nil
	case hdl.SystemVerilog:
		p, err := verilog.Read(path, src, hdl.SystemVerilog)
		if err != nil {
			return nil, err
		}
		return p.IntoSymbols(), nil
	default:
		return nil, nil
	}
}

// FileUnits pairs a source path with the design units Read extracted from
// it, preserving the path's position in the input slice.
type FileUnits struct {
	Path  string
	Units []hdl.DesignUnit
}

// ReadFiles reads and parses every file in paths, one file per worker in a
// pool bounded to runtime.GOMAXPROCS(0) (spec.md §5a, "internal/hdl parses
// files in a worker group sized to GOMAXPROCS"). Results are returned in
// the same order as paths regardless of completion order, so a caller that
// feeds them into graph.Builder sequentially still gets deterministic
// duplicate-unit error ordering. The first worker to fail cancels ctx, so
// workers that have not started yet return without reading; reads already
// in flight run to completion. ReadFiles returns that first error.
func ReadFiles(ctx context.Context, paths []string) ([]FileUnits, error) {
	out := make([]FileUnits, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			units, err := Read(path, string(src))
			if err != nil {
				return err
			}
			out[i] = FileUnits{Path: path, Units: units}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
