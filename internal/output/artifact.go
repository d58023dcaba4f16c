// Package output renders the event stream into the output artifact. The
// renderer is the only writer of the file, so bytes land strictly in event
// order and the artifact is deterministic for a fixed file-system snapshot.
package output

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/bundle/internal/services/stream"
)

// Artifact format constants. The widths are fixed; changing them changes
// every artifact ever diffed against an old one.
const (
	fileHeaderPrefix   = "///////////////////////////// "
	sectionLabelPrefix = "////// "
	titleSeparatorLine = "========================================"

	treeFailureFormat     = "(tree rendering failed: %s)"
	buildToolAbsentFormat = "ERROR: build tool %q not found in PATH"
)

// ArtifactRenderer writes the artifact file for one run. The file is created
// (truncating any previous artifact) when the start event arrives and closed
// by Flush. Warnings never reach the artifact; they go to the logger.
type ArtifactRenderer struct {
	outputPath string
	logger     *zap.Logger
	file       *os.File
	writer     *bufio.Writer
	summary    *stream.SummaryEvent
}

// NewArtifactRenderer constructs a renderer targeting outputPath.
func NewArtifactRenderer(outputPath string, logger *zap.Logger) *ArtifactRenderer {
	return &ArtifactRenderer{outputPath: outputPath, logger: logger}
}

// Handle translates one event into artifact bytes.
func (renderer *ArtifactRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindStart:
		return renderer.open()
	case stream.EventKindWarning:
		if event.Message != nil && renderer.logger != nil {
			renderer.logger.Warn(event.Message.Message)
		}
		return nil
	case stream.EventKindBanner:
		return renderer.writeBanner(event.Banner)
	case stream.EventKindTree:
		return renderer.writeTree(event.Tree)
	case stream.EventKindFile:
		return renderer.writeFileHeader(event.File)
	case stream.EventKindChunk:
		return renderer.writeFileBody(event.Chunk)
	case stream.EventKindSection:
		return renderer.writeSection(event.Section)
	case stream.EventKindBuildOutput:
		return renderer.writeBuildOutput(event.Build)
	case stream.EventKindSummary:
		renderer.summary = event.Summary
		return nil
	}
	return nil
}

// Flush drains buffered bytes and closes the artifact file.
func (renderer *ArtifactRenderer) Flush() error {
	if renderer.writer != nil {
		if flushError := renderer.writer.Flush(); flushError != nil {
			return fmt.Errorf("flush output file %s: %w", renderer.outputPath, flushError)
		}
	}
	if renderer.file != nil {
		if closeError := renderer.file.Close(); closeError != nil {
			return fmt.Errorf("close output file %s: %w", renderer.outputPath, closeError)
		}
		renderer.file = nil
	}
	return nil
}

// Summary returns the run summary received from the stream, if any.
func (renderer *ArtifactRenderer) Summary() *stream.SummaryEvent {
	return renderer.summary
}

func (renderer *ArtifactRenderer) open() error {
	outputFile, createError := os.Create(renderer.outputPath)
	if createError != nil {
		return fmt.Errorf("create output file %s: %w", renderer.outputPath, createError)
	}
	renderer.file = outputFile
	renderer.writer = bufio.NewWriter(outputFile)
	return nil
}

func (renderer *ArtifactRenderer) writeBanner(banner *stream.BannerEvent) error {
	if banner == nil {
		return nil
	}
	return renderer.writeString(banner.Title + "\n" + titleSeparatorLine + "\n\n")
}

func (renderer *ArtifactRenderer) writeTree(tree *stream.TreeEvent) error {
	if tree == nil {
		return nil
	}
	if tree.RenderError != "" {
		return renderer.writeString(fmt.Sprintf(treeFailureFormat, tree.RenderError) + "\n\n")
	}
	return renderer.writeString(withTrailingNewline(tree.Rendering) + "\n")
}

func (renderer *ArtifactRenderer) writeFileHeader(file *stream.FileEvent) error {
	if file == nil {
		return nil
	}
	return renderer.writeString(fileHeaderPrefix + file.Path + "\n")
}

func (renderer *ArtifactRenderer) writeFileBody(chunk *stream.ChunkEvent) error {
	if chunk == nil {
		return nil
	}
	return renderer.writeString(withTrailingNewline(chunk.Data) + "\n\n")
}

func (renderer *ArtifactRenderer) writeSection(section *stream.SectionEvent) error {
	if section == nil {
		return nil
	}
	return renderer.writeString(sectionLabelPrefix + section.Label + "\n" + titleSeparatorLine + "\n\n")
}

func (renderer *ArtifactRenderer) writeBuildOutput(build *stream.BuildEvent) error {
	if build == nil {
		return nil
	}
	if build.ToolAbsent {
		return renderer.writeString(fmt.Sprintf(buildToolAbsentFormat, build.CommandName) + "\n")
	}
	return renderer.writeString(withTrailingNewline(build.Output))
}

func (renderer *ArtifactRenderer) writeString(text string) error {
	if renderer.writer == nil {
		return fmt.Errorf("output file %s is not open", renderer.outputPath)
	}
	if _, writeError := renderer.writer.WriteString(text); writeError != nil {
		return fmt.Errorf("write output file %s: %w", renderer.outputPath, writeError)
	}
	return nil
}

// withTrailingNewline terminates text with exactly one final newline without
// touching interior bytes.
func withTrailingNewline(text string) string {
	if strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}

var _ StreamRenderer = (*ArtifactRenderer)(nil)
