// Package types defines every cross-package data structure used by the bundle CLI.
package types

// DirectorySection pairs one configured directory with the banner title that
// introduces it in the output artifact.
type DirectorySection struct {
	DirectoryPath string
	Title         string
}

// Configuration is the validated, immutable description of one aggregation
// run. It is produced by the config package and passed by value; nothing
// mutates it afterwards.
type Configuration struct {
	Sections               []DirectorySection
	ExplicitFilePaths      []string
	WhitelistExtensions    []string
	BlacklistExtensions    []string
	ExcludedDirectoryNames []string
	Recursive              bool
	OutputFilePath         string
	TreeCommandName        string
	BuildCommandName       string
	BuildCommandArguments  []string
	RunBuild               bool
	CopyToClipboard        bool
	CountTokens            bool
	TokenizerModelName     string
}

// RunSummary captures aggregate information about one finished run.
type RunSummary struct {
	FileCount  int
	TotalBytes int64
	TokenCount int
	ModelName  string
}
