package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// LoadResult is a compiled configuration directory.
type LoadResult struct {
	Bundle *Bundle
	Value  cue.Value // unified CUE value, for callers that need positions
	Files  []string  // CUE files in unification order
}

// FindCUEFiles returns every .cue file under dir in lexical order.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// LoadDir compiles every .cue file in dir, unifies them in lexical file
// order and compiles the result into a Bundle. Files are compiled one by
// one so a configuration directory needs no cue.mod.
func LoadDir(dir string) (*LoadResult, error) {
	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	var unified cue.Value
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		if i == 0 {
			unified = v
			continue
		}
		unified = unified.Unify(v)
	}
	if err := unified.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	bundle, err := CompileBundle(unified)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Bundle: bundle, Value: unified, Files: files}, nil
}
