//go:build mage

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// skipDirs are never walked for Go sources.
var skipDirs = map[string]bool{
	"vendor":    true,
	".git":      true,
	"_examples": true,
	"magefiles": true,
	binaryDir:   true,
}

// docGlobs select the Markdown files counted as documentation.
var docGlobs = []string{"*.md", "docs/*.md", "docs/**/*.md"}

// goStats accumulates line and test counts for production and test files.
type goStats struct {
	prodLines int
	testLines int
	testFuncs int
}

// Stats prints Go lines of code, test function count and documentation
// word count as one JSON line.
func Stats() error {
	var st goStats
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[path] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		return st.add(path)
	})
	if err != nil {
		return err
	}

	docWords, err := countDocWords(docGlobs)
	if err != nil {
		return err
	}

	line, err := json.Marshal(map[string]int{
		"go_loc_prod":  st.prodLines,
		"go_loc_test":  st.testLines,
		"go_loc":       st.prodLines + st.testLines,
		"go_test_func": st.testFuncs,
		"doc_wc":       docWords,
	})
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}

func (st *goStats) add(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	isTest := strings.HasSuffix(path, "_test.go")
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		if isTest && strings.HasPrefix(scanner.Text(), "func Test") {
			st.testFuncs++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if isTest {
		st.testLines += lines
	} else {
		st.prodLines += lines
	}
	return nil
}

// countDocWords counts whitespace-separated words across every file the
// globs match, counting each file once.
func countDocWords(globs []string) (int, error) {
	seen := map[string]bool{}
	total := 0
	for _, pattern := range globs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return 0, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true
			data, err := os.ReadFile(path)
			if err != nil {
				return 0, err
			}
			total += len(strings.Fields(string(data)))
		}
	}
	return total, nil
}
