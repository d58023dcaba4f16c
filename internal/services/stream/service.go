// Package stream turns one validated configuration into the ordered event
// sequence describing the whole output artifact. A producer goroutine walks
// the configuration and sends typed events; the consuming renderer is the
// only writer, so the artifact is written strictly in append order.
package stream

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/bundle/internal/selection"
	"github.com/temirov/bundle/internal/services/buildcmd"
	"github.com/temirov/bundle/internal/services/treecmd"
	"github.com/temirov/bundle/internal/types"
)

// ExplicitFilesSectionLabel titles the artifact section holding individually
// configured files.
const ExplicitFilesSectionLabel = "EXPLICIT FILES"

const (
	warningSkipDirectoryFormat    = "Warning: skipping directory %s: %v"
	warningNotDirectoryFormat     = "Warning: skipping %s: not a directory"
	warningSkipExplicitFormat     = "Warning: skipping missing file %s"
	warningFileReadFormat         = "Warning: failed to read %s: %v"
	warningTreeRenderFormat       = "Warning: tree rendering failed for %s: %v"
	warningBuildRunFormat         = "Warning: build command %s exited with error: %v"
	warningBuildAbsentFormat      = "Warning: build tool %q not found in PATH"
	warningTraversalAbortedFormat = "Warning: traversal of %s aborted: %v"
)

// BundleOptions wires the collaborators for one aggregation run. The tree
// renderer must already have been probed; the build runner is consulted only
// when the configuration requests a build.
type BundleOptions struct {
	Configuration types.Configuration
	TreeRenderer  treecmd.Renderer
	BuildRunner   buildcmd.Runner
}

type emitter struct {
	ctx context.Context
	out chan<- Event
}

func newEmitter(ctx context.Context, out chan<- Event) *emitter {
	return &emitter{ctx: ctx, out: out}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return fmt.Errorf("stream: event channel is nil")
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

func (e *emitter) warn(message string) {
	trimmed := strings.TrimRight(message, "\n")
	if trimmed == "" {
		return
	}
	_ = e.send(Event{Kind: EventKindWarning, Message: &LogEvent{Message: trimmed}})
}

type summaryTracker struct {
	files int
	bytes int64
}

func (tracker *summaryTracker) add(size int64) {
	tracker.files++
	tracker.bytes += size
}

func (tracker *summaryTracker) summary() *SummaryEvent {
	return &SummaryEvent{Files: tracker.files, Bytes: tracker.bytes}
}

// StreamBundle emits the event sequence for one run: per configured section
// a banner, the tree rendering, then every included file; then the explicit
// files section when any are configured; then the build section when the run
// requests it; finally a summary and done. Missing directories, missing
// explicit files, per-directory rendering failures, and unreadable files are
// recoverable and surface as warning events.
func StreamBundle(ctx context.Context, opts BundleOptions, out chan<- Event) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.TreeRenderer == nil {
		return fmt.Errorf("stream: tree renderer is nil")
	}

	configuration := opts.Configuration
	emitter := newEmitter(ctx, out)
	if sendError := emitter.send(Event{Kind: EventKindStart, Path: configuration.OutputFilePath}); sendError != nil {
		return sendError
	}

	tracker := &summaryTracker{}
	rule := selection.NewRule(configuration.WhitelistExtensions, configuration.BlacklistExtensions)

	absoluteOutputPath, absoluteOutputError := filepath.Abs(configuration.OutputFilePath)
	if absoluteOutputError != nil {
		absoluteOutputPath = configuration.OutputFilePath
	}

	for _, section := range configuration.Sections {
		directoryInfo, statError := os.Stat(section.DirectoryPath)
		if statError != nil {
			emitter.warn(fmt.Sprintf(warningSkipDirectoryFormat, section.DirectoryPath, statError))
			continue
		}
		if !directoryInfo.IsDir() {
			emitter.warn(fmt.Sprintf(warningNotDirectoryFormat, section.DirectoryPath))
			continue
		}

		if sendError := emitter.send(Event{
			Kind:   EventKindBanner,
			Path:   section.DirectoryPath,
			Banner: &BannerEvent{Title: section.Title, DirectoryPath: section.DirectoryPath},
		}); sendError != nil {
			return sendError
		}

		treeEvent := &TreeEvent{}
		rendering, renderError := opts.TreeRenderer.Render(section.DirectoryPath)
		if renderError != nil {
			emitter.warn(fmt.Sprintf(warningTreeRenderFormat, section.DirectoryPath, renderError))
			treeEvent.RenderError = renderError.Error()
		} else {
			treeEvent.Rendering = rendering
		}
		if sendError := emitter.send(Event{Kind: EventKindTree, Path: section.DirectoryPath, Tree: treeEvent}); sendError != nil {
			return sendError
		}

		walkOptions := selection.WalkOptions{
			Rule:                   rule,
			ExcludedDirectoryNames: configuration.ExcludedDirectoryNames,
			Recursive:              configuration.Recursive,
			SkipAbsolutePath:       absoluteOutputPath,
			Warn:                   emitter.warn,
		}
		walkError := selection.StreamFiles(section.DirectoryPath, walkOptions, func(candidate selection.Candidate) error {
			return emitFileWithContent(emitter, tracker, candidate)
		})
		if walkError != nil {
			if ctx.Err() != nil {
				return walkError
			}
			emitter.warn(fmt.Sprintf(warningTraversalAbortedFormat, section.DirectoryPath, walkError))
		}
	}

	if len(configuration.ExplicitFilePaths) > 0 {
		if sendError := emitter.send(Event{Kind: EventKindSection, Section: &SectionEvent{Label: ExplicitFilesSectionLabel}}); sendError != nil {
			return sendError
		}
		for _, explicitPath := range configuration.ExplicitFilePaths {
			fileInfo, statError := os.Stat(explicitPath)
			if statError != nil || fileInfo.IsDir() {
				emitter.warn(fmt.Sprintf(warningSkipExplicitFormat, explicitPath))
				continue
			}
			if !rule.Includes(filepath.Base(explicitPath)) {
				continue
			}
			absoluteExplicitPath, absoluteExplicitError := filepath.Abs(explicitPath)
			if absoluteExplicitError == nil && absoluteExplicitPath == absoluteOutputPath {
				continue
			}
			candidate := selection.Candidate{AbsolutePath: explicitPath, DisplayPath: filepath.ToSlash(explicitPath)}
			if emitError := emitFileWithContent(emitter, tracker, candidate); emitError != nil {
				return emitError
			}
		}
	}

	if configuration.RunBuild && opts.BuildRunner != nil {
		if sendError := emitter.send(Event{Kind: EventKindSection, Section: &SectionEvent{Label: opts.BuildRunner.Label()}}); sendError != nil {
			return sendError
		}
		if probeError := opts.BuildRunner.Probe(); probeError != nil {
			emitter.warn(fmt.Sprintf(warningBuildAbsentFormat, opts.BuildRunner.Name()))
			if sendError := emitter.send(Event{
				Kind:  EventKindBuildOutput,
				Build: &BuildEvent{ToolAbsent: true, CommandName: opts.BuildRunner.Name()},
			}); sendError != nil {
				return sendError
			}
		} else {
			capturedOutput, runError := opts.BuildRunner.Run()
			if runError != nil {
				emitter.warn(fmt.Sprintf(warningBuildRunFormat, opts.BuildRunner.Name(), runError))
			}
			if sendError := emitter.send(Event{Kind: EventKindBuildOutput, Build: &BuildEvent{Output: capturedOutput}}); sendError != nil {
				return sendError
			}
		}
	}

	if sendError := emitter.send(Event{Kind: EventKindSummary, Summary: tracker.summary()}); sendError != nil {
		return sendError
	}
	return emitter.send(Event{Kind: EventKindDone})
}

// emitFileWithContent reads one candidate and emits its header and content
// events. Read failures are warnings; only send failures propagate.
func emitFileWithContent(emitter *emitter, tracker *summaryTracker, candidate selection.Candidate) error {
	fileBytes, readError := os.ReadFile(candidate.AbsolutePath)
	if readError != nil {
		emitter.warn(fmt.Sprintf(warningFileReadFormat, candidate.AbsolutePath, readError))
		return nil
	}
	tracker.add(int64(len(fileBytes)))
	if sendError := emitter.send(Event{
		Kind: EventKindFile,
		Path: candidate.DisplayPath,
		File: &FileEvent{Path: candidate.DisplayPath, SizeBytes: int64(len(fileBytes))},
	}); sendError != nil {
		return sendError
	}
	return emitter.send(Event{
		Kind:  EventKindChunk,
		Path:  candidate.DisplayPath,
		Chunk: &ChunkEvent{Path: candidate.DisplayPath, Data: string(fileBytes)},
	})
}
