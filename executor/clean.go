package executor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
	"github.com/SAT-solver-ANalyzer/SATAn/fsutil"
	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// Clean walks every glob-rooted test set in cfg (recursing through
// Grouped references) and strips any "[processing]_" or "[done]_"
// prefix left behind by a prior FS-claim run, restoring original file
// names (spec §6, "clean --config <path>"). GDB collectors have no
// on-disk files to clean and are skipped.
func Clean(cfg *cmn.Config) (int, error) {
	roots, err := collectGlobRoots(cfg.Tests)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, root := range roots {
		n, err := cleanRoot(root)
		if err != nil {
			return restored, errors.Wrapf(err, "clean %q", root)
		}
		restored += n
	}
	return restored, nil
}

func collectGlobRoots(tests map[string]cmn.TestSetConfig) ([]string, error) {
	seen := map[string]bool{}
	var roots []string
	for name := range tests {
		rs, err := globRootsFor(name, tests, map[string]bool{})
		if err != nil {
			return nil, err
		}
		for _, r := range rs {
			if !seen[r] {
				seen[r] = true
				roots = append(roots, r)
			}
		}
	}
	return roots, nil
}

func globRootsFor(name string, tests map[string]cmn.TestSetConfig, visiting map[string]bool) ([]string, error) {
	tc, ok := tests[name]
	if !ok {
		return nil, errors.Errorf("clean: unknown test set %q", name)
	}
	if visiting[name] {
		return nil, errors.Errorf("clean: cycle detected involving test set %q", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	variant, err := tc.Collector.Variant()
	if err != nil {
		return nil, err
	}

	switch variant {
	case "glob":
		g := tc.Collector.Glob
		roots := append([]string{}, g.Paths...)
		if g.Path != "" {
			roots = append(roots, g.Path)
		}
		return roots, nil
	case "grouped":
		var all []string
		for _, child := range tc.Collector.Grouped.Collectors {
			rs, err := globRootsFor(child, tests, visiting)
			if err != nil {
				return nil, err
			}
			all = append(all, rs...)
		}
		return all, nil
	case "gdb":
		return nil, nil
	default:
		return nil, errors.Errorf("clean: test set %q: unhandled collector variant %q", name, variant)
	}
}

// cleanRoot renames every "[processing]_"/"[done]_" prefixed entry
// found anywhere under root back to its original name. Walks
// recursively with godirwalk, matching collector.NewGlob's own reach
// (spec §6, "clean ... walk every collector") — a claimed file can sit
// at any depth a glob root reaches, not just the top level.
func cleanRoot(root string) (int, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	restored := 0
	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			original, ok := strippedName(base)
			if !ok {
				return nil
			}
			dst := filepath.Join(filepath.Dir(path), original)
			outcome, err := fsutil.Rename(path, dst)
			if err != nil {
				nlog.Warningf("clean: failed to restore %q: %v (%s)", path, err, outcome)
				return nil
			}
			restored++
			return nil
		},
	})
	return restored, err
}

func strippedName(base string) (string, bool) {
	if strings.HasPrefix(base, fsutil.DoneProcessedPrefix) {
		return strings.TrimPrefix(base, fsutil.DoneProcessedPrefix), true
	}
	if strings.HasPrefix(base, fsutil.ProcessingPrefix) {
		return strings.TrimPrefix(base, fsutil.ProcessingPrefix), true
	}
	return "", false
}
