package scan

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// identRe is the identifier grammar accepted for assignment names.
var identRe = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// Assignment is one NAME=value pair observed in a config file. Uniqueness
// is (File, Name); the scanner keeps the last line when a name repeats
// within a file, matching shell-sourcing semantics. Assignments are
// immutable once recorded.
type Assignment struct {
	// File is the config file the assignment was found in.
	File string `json:"file"`

	// Name is the variable name.
	Name string `json:"name"`

	// Value is the raw value with one layer of surrounding quotes removed.
	Value string `json:"value"`

	// Line is the 1-indexed line the surviving assignment came from.
	Line int `json:"line"`
}

// Options controls a directory scan.
type Options struct {
	// Prefix is the config-file naming convention. Files named exactly
	// Prefix or Prefix.<domain> are scanned.
	Prefix string

	// Workers bounds the number of files read in parallel. Values below 1
	// mean sequential.
	Workers int

	// FileTimeout bounds each file read, guarding against non-regular
	// files. Zero disables the guard.
	FileTimeout time.Duration
}

// Result is the outcome of scanning one config directory.
type Result struct {
	// Assignments are all observed assignments, sorted by (File, Name).
	Assignments []Assignment `json:"assignments"`

	// Warnings are recoverable per-file or per-line problems.
	Warnings []string `json:"warnings,omitempty"`

	// FilesScanned is the number of config files read.
	FilesScanned int `json:"files_scanned"`
}

// fileResult is the isolated output of one worker. Workers never touch
// shared state; results merge only after every worker has finished.
type fileResult struct {
	assignments []Assignment
	warnings    []string
	scanned     bool
}

// Scan reads every config file in dir matching the naming convention. An
// absent or unreadable directory is fatal; everything below that (an
// unreadable file, a timed-out read, a malformed line) is recovered as a
// warning on the Result.
func Scan(ctx context.Context, dir string, opts Options) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("config directory unreadable: %w", err)
	}

	var files []string
	result := &Result{}
	for _, e := range entries {
		name := e.Name()
		if !matchesConvention(name, opts.Prefix) {
			continue
		}
		if !e.Type().IsRegular() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: skipping non-regular file", name))
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 1 {
		g.SetLimit(opts.Workers)
	} else {
		g.SetLimit(1)
	}
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			results[i] = scanFile(gctx, filepath.Join(dir, name), name, opts.FileTimeout)
			return nil
		})
	}
	// Join barrier: no partial results are visible before every worker is
	// done.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, fr := range results {
		if fr.scanned {
			result.FilesScanned++
		}
		result.Assignments = append(result.Assignments, fr.assignments...)
		result.Warnings = append(result.Warnings, fr.warnings...)
	}
	sort.Slice(result.Assignments, func(i, j int) bool {
		a, b := result.Assignments[i], result.Assignments[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Name < b.Name
	})

	log.Debug().
		Str("dir", dir).
		Int("files", result.FilesScanned).
		Int("assignments", len(result.Assignments)).
		Msg("Config directory scan complete")

	return result, nil
}

// scanFile reads one config file into an isolated fileResult. The read runs
// under the per-file timeout so a FIFO or device node accidentally matching
// the naming convention stalls only its own file.
func scanFile(ctx context.Context, path, name string, timeout time.Duration) fileResult {
	var fr fileResult

	data, err := readWithTimeout(ctx, path, timeout)
	if err != nil {
		fr.warnings = append(fr.warnings, fmt.Sprintf("%s: %v", name, err))
		return fr
	}
	fr.scanned = true

	byName := make(map[string]int) // name -> index into fr.assignments
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on the first '=' only so values containing '=' (query
		// strings, base64 padding) survive intact.
		varName, value, found := strings.Cut(line, "=")
		varName = strings.TrimSpace(varName)
		if !found || !identRe.MatchString(varName) {
			fr.warnings = append(fr.warnings,
				fmt.Sprintf("%s line %d: not a NAME=value assignment", name, lineNo))
			continue
		}

		a := Assignment{
			File:  name,
			Name:  varName,
			Value: stripQuotes(value),
			Line:  lineNo,
		}
		if i, seen := byName[varName]; seen {
			// Later line wins, as it would when the file is sourced.
			fr.assignments[i] = a
			continue
		}
		byName[varName] = len(fr.assignments)
		fr.assignments = append(fr.assignments, a)
	}
	if err := scanner.Err(); err != nil {
		fr.warnings = append(fr.warnings, fmt.Sprintf("%s: %v", name, err))
	}
	return fr
}

// readWithTimeout reads a file, abandoning the read when the timeout or the
// surrounding context expires. The reading goroutine is leaked on timeout;
// for a blocked FIFO read there is no portable way to unblock it, and the
// process is short-lived.
func readWithTimeout(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type readOutcome struct {
		data []byte
		err  error
	}
	done := make(chan readOutcome, 1)
	go func() {
		data, err := os.ReadFile(path)
		done <- readOutcome{data, err}
	}()

	select {
	case out := <-done:
		return out.data, out.err
	case <-ctx.Done():
		return nil, fmt.Errorf("read timed out: %w", ctx.Err())
	}
}

// matchesConvention reports whether a file name follows the domain-prefix
// naming convention.
func matchesConvention(name, prefix string) bool {
	return name == prefix || strings.HasPrefix(name, prefix+".")
}

// stripQuotes removes exactly one layer of matching surrounding single or
// double quotes.
func stripQuotes(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if first == last && (first == '"' || first == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
