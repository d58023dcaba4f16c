// Package treecmd shells out to the external directory-tree rendering tool.
package treecmd

import (
	"fmt"
	"os/exec"
	"strings"
)

const (
	// DefaultCommandName is the rendering tool used when none is configured.
	DefaultCommandName = "tree"

	depthFlag         = "-L"
	directChildrenArg = "1"
	excludeFlag       = "-I"
	excludeSeparator  = "|"
)

// Renderer renders one directory as an indented tree.
type Renderer interface {
	Probe() error
	Render(directoryPath string) (string, error)
}

// Service implements Renderer by invoking the configured external command.
type Service struct {
	commandName            string
	recursive              bool
	excludedDirectoryNames []string
}

// NewService constructs a Renderer for commandName honoring the recursion
// flag and the excluded directory names.
func NewService(commandName string, recursive bool, excludedDirectoryNames []string) *Service {
	return &Service{
		commandName:            commandName,
		recursive:              recursive,
		excludedDirectoryNames: excludedDirectoryNames,
	}
}

// Probe reports whether the rendering command exists on PATH. Absence is a
// fatal condition for the whole run.
func (service *Service) Probe() error {
	if _, lookError := exec.LookPath(service.commandName); lookError != nil {
		return fmt.Errorf("tree command %q not found in PATH: %w", service.commandName, lookError)
	}
	return nil
}

// Arguments returns the argument vector used to render directoryPath: a
// depth limit of one when recursion is disabled and a pipe-joined exclusion
// pattern when excluded names are configured.
func (service *Service) Arguments(directoryPath string) []string {
	var arguments []string
	if !service.recursive {
		arguments = append(arguments, depthFlag, directChildrenArg)
	}
	if len(service.excludedDirectoryNames) > 0 {
		arguments = append(arguments, excludeFlag, strings.Join(service.excludedDirectoryNames, excludeSeparator))
	}
	return append(arguments, directoryPath)
}

// Render invokes the rendering command for directoryPath and returns its
// standard output. Failures are recoverable per directory; the caller writes
// a placeholder in place of the rendering.
func (service *Service) Render(directoryPath string) (string, error) {
	// #nosec G204
	renderCommand := exec.Command(service.commandName, service.Arguments(directoryPath)...)
	outputBytes, runError := renderCommand.Output()
	if runError != nil {
		return "", fmt.Errorf("render tree for %s: %w", directoryPath, runError)
	}
	return string(outputBytes), nil
}

var _ Renderer = (*Service)(nil)
