package stream

// EventKind identifies what an Event carries.
type EventKind string

const (
	EventKindStart       EventKind = "start"
	EventKindBanner      EventKind = "banner"
	EventKindTree        EventKind = "tree"
	EventKindFile        EventKind = "file"
	EventKindChunk       EventKind = "chunk"
	EventKindSection     EventKind = "section"
	EventKindBuildOutput EventKind = "build_output"
	EventKindWarning     EventKind = "warning"
	EventKindSummary     EventKind = "summary"
	EventKindDone        EventKind = "done"
)

// Event is the single hand-off type between the producing walk and the
// consuming renderer. Exactly one payload pointer matching Kind is set.
type Event struct {
	Kind EventKind
	Path string

	Banner  *BannerEvent
	Tree    *TreeEvent
	File    *FileEvent
	Chunk   *ChunkEvent
	Section *SectionEvent
	Build   *BuildEvent
	Message *LogEvent
	Summary *SummaryEvent
}

// BannerEvent introduces one configured directory section.
type BannerEvent struct {
	Title         string
	DirectoryPath string
}

// TreeEvent carries the external tool's rendering of one directory, or the
// error message that prevented it.
type TreeEvent struct {
	Rendering   string
	RenderError string
}

// FileEvent announces one included file; its display path becomes the
// artifact header line.
type FileEvent struct {
	Path      string
	SizeBytes int64
}

// ChunkEvent carries one file's content verbatim.
type ChunkEvent struct {
	Path string
	Data string
}

// SectionEvent introduces a labeled artifact section.
type SectionEvent struct {
	Label string
}

// BuildEvent carries the captured build output, or records the tool's absence.
type BuildEvent struct {
	Output      string
	ToolAbsent  bool
	CommandName string
}

// LogEvent carries one diagnostic warning; it never enters the artifact.
type LogEvent struct {
	Message string
}

// SummaryEvent aggregates what the run wrote.
type SummaryEvent struct {
	Files int
	Bytes int64
}
