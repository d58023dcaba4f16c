package selection

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/bundle/internal/utils"
)

const (
	warningAccessPathFormat = "Warning: cannot access %s: %v"
)

// Candidate describes one regular file that survived filtering.
type Candidate struct {
	AbsolutePath string
	DisplayPath  string
}

// WalkOptions controls one directory traversal.
type WalkOptions struct {
	Rule                   Rule
	ExcludedDirectoryNames []string
	Recursive              bool
	SkipAbsolutePath       string
	Warn                   func(message string)
}

// FileVisitor receives each candidate in traversal order.
type FileVisitor func(candidate Candidate) error

// StreamFiles walks directoryPath and invokes visitor for every regular file
// that passes the extension rule. With recursion enabled the walk is
// depth-first and any directory whose name matches an excluded name is pruned
// together with its subtree; the configured root itself is never pruned.
// Without recursion only direct children are considered. Display paths join
// the configured directory path with the traversal-relative path, so they
// read the way a shell find would print them. Unreadable entries produce a
// warning and are skipped; the file at SkipAbsolutePath is never a candidate.
func StreamFiles(directoryPath string, options WalkOptions, visitor FileVisitor) error {
	if visitor == nil {
		return fmt.Errorf("file visitor is nil")
	}
	warn := options.Warn
	if warn == nil {
		warn = func(string) {}
	}

	absoluteRootPath, absolutePathError := filepath.Abs(directoryPath)
	if absolutePathError != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", directoryPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	if !options.Recursive {
		entries, readError := os.ReadDir(cleanedRootPath)
		if readError != nil {
			return fmt.Errorf("failed to read directory %s: %w", directoryPath, readError)
		}
		for _, directoryEntry := range entries {
			if directoryEntry.IsDir() {
				continue
			}
			childPath := filepath.Join(cleanedRootPath, directoryEntry.Name())
			if visitError := visitCandidate(childPath, directoryEntry.Name(), directoryPath, directoryEntry, options, visitor); visitError != nil {
				return visitError
			}
		}
		return nil
	}

	return filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if accessError != nil {
			warn(fmt.Sprintf(warningAccessPathFormat, walkedPath, accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, cleanedRootPath)
		if relativePath == "." {
			return nil
		}

		if directoryEntry.IsDir() {
			if utils.ContainsString(options.ExcludedDirectoryNames, directoryEntry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		return visitCandidate(walkedPath, relativePath, directoryPath, directoryEntry, options, visitor)
	})
}

// visitCandidate applies the regular-file, self-reference, and extension
// checks before handing the candidate to the visitor.
func visitCandidate(absolutePath string, relativePath string, configuredPath string, directoryEntry os.DirEntry, options WalkOptions, visitor FileVisitor) error {
	if !directoryEntry.Type().IsRegular() {
		return nil
	}
	if options.SkipAbsolutePath != utils.EmptyString && absolutePath == options.SkipAbsolutePath {
		return nil
	}
	if !options.Rule.Includes(directoryEntry.Name()) {
		return nil
	}
	candidate := Candidate{
		AbsolutePath: absolutePath,
		DisplayPath:  filepath.ToSlash(filepath.Join(configuredPath, relativePath)),
	}
	return visitor(candidate)
}
