package discover

import (
	"context"
	"path"

	"killfeed/internal/adapters/remote"
	"killfeed/internal/core/logname"
)

// Strategy is one self contained search heuristic. Strategies return
// absolute file paths, treat missing directories as no files and leave
// ordering to the orchestrator
type Strategy struct {
	Name string
	Run  func(ctx context.Context, fs remote.FS, p Plan) ([]string, error)
}

// Strategies returns the remote search order
func Strategies() []Strategy {
	return []Strategy{
		{Name: "canonical", Run: searchCanonical},
		{Name: "alternates", Run: searchAlternates},
		{Name: "recursive", Run: searchRecursive},
		{Name: "probe", Run: searchProbe},
	}
}

const (
	// recurseDepth bounds how far below an anchor the walk descends
	recurseDepth = 8

	// recurseVisit bounds the directories walked per anchor
	recurseVisit = 512
)

// listMatching lists dir and returns the files matching the earliest
// cascade tier with any match. Directory entries never match
func listMatching(ctx context.Context, fs remote.FS, dir string, c *logname.Cascade) ([]string, error) {
	es, err := fs.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	for tier := 0; tier < c.Tiers(); tier++ {
		var out []string
		for _, e := range es {
			if e.Dir {
				continue
			}
			if c.MatchTier(tier, e.Name) {
				out = append(out, path.Join(dir, e.Name))
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, nil
}

// searchCanonical probes the canonical deathlogs directory plus its map
// style subdirectories. Multi map servers split logs per map, so
// matches accumulate across every map directory instead of stopping at
// the first
func searchCanonical(ctx context.Context, fs remote.FS, p Plan) ([]string, error) {
	dir := p.Canonical()
	if ok, err := remote.Exists(ctx, fs, dir); err != nil || !ok {
		return nil, err
	}

	dirs := []string{dir}
	known := 0
	for _, alias := range MapAliases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mp := path.Join(dir, alias)
		if e, err := fs.Stat(ctx, mp); err == nil && e.Dir {
			dirs = append(dirs, mp)
			known++
		}
	}
	if known == 0 {
		// no known alias present, treat every subdirectory as a map
		if es, err := fs.List(ctx, dir); err == nil {
			for _, e := range es {
				if e.Dir {
					dirs = append(dirs, path.Join(dir, e.Name))
				}
			}
		}
	}

	var out []string
	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := listMatching(ctx, fs, d, p.Cascade)
		if err != nil {
			continue
		}
		out = append(out, files...)
	}
	return out, nil
}

// searchAlternates walks the alternate base grid and short circuits at
// the first directory that yields files. Unlike the canonical layout,
// a hit here answers where this host keeps its logs
func searchAlternates(ctx context.Context, fs remote.FS, p Plan) ([]string, error) {
	for _, dir := range p.Grid() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := listMatching(ctx, fs, dir, p.Cascade)
		if err != nil || len(files) == 0 {
			continue
		}
		return files, nil
	}
	return nil, nil
}

// searchRecursive descends a bounded tree below each anchor and returns
// the cascade matches of the first anchor that yields any
func searchRecursive(ctx context.Context, fs remote.FS, p Plan) ([]string, error) {
	for _, anchor := range p.Anchors() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		names, err := walk(ctx, fs, anchor)
		if err != nil {
			return nil, err
		}
		for tier := 0; tier < p.Cascade.Tiers(); tier++ {
			var out []string
			for _, f := range names {
				if p.Cascade.MatchTier(tier, logname.Base(f)) {
					out = append(out, f)
				}
			}
			if len(out) > 0 {
				return out, nil
			}
		}
	}
	return nil, nil
}

// walk collects file paths below root depth first within the depth and
// visit bounds. Unreadable subtrees are skipped, not fatal
func walk(ctx context.Context, fs remote.FS, root string) ([]string, error) {
	var files []string
	visited := 0
	var rec func(dir string, depth int) error
	rec = func(dir string, depth int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if depth > recurseDepth || visited >= recurseVisit {
			return nil
		}
		visited++
		es, err := fs.List(ctx, dir)
		if err != nil {
			return nil
		}
		for _, e := range es {
			fp := path.Join(dir, e.Name)
			if e.Dir {
				if err := rec(fp, depth+1); err != nil {
					return err
				}
				continue
			}
			files = append(files, fp)
		}
		return nil
	}
	if err := rec(root, 0); err != nil {
		return nil, err
	}
	return files, nil
}

// searchProbe stats synthetically generated filenames across the grid.
// A hit proves the directory is live even when listing missed it, so
// the full set is pulled from a fresh listing with the loosest tier
func searchProbe(ctx context.Context, fs remote.FS, p Plan) ([]string, error) {
	names := probeNames(p.Now)
	dirs := dedupe(append([]string{p.Canonical()}, p.Grid()...))
	for _, dir := range dirs {
		for _, name := range names {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ok, err := remote.IsFile(ctx, fs, path.Join(dir, name))
			if err != nil || !ok {
				continue
			}
			hit := path.Join(dir, name)
			es, err := fs.List(ctx, dir)
			if err != nil {
				return []string{hit}, nil
			}
			loosest := p.Cascade.Tiers() - 1
			var out []string
			for _, e := range es {
				if !e.Dir && p.Cascade.MatchTier(loosest, e.Name) {
					out = append(out, path.Join(dir, e.Name))
				}
			}
			if len(out) == 0 {
				out = []string{hit}
			}
			return out, nil
		}
	}
	return nil, nil
}
