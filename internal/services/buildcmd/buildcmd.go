// Package buildcmd shells out to the external build tool and captures its output.
package buildcmd

import (
	"fmt"
	"os/exec"
	"strings"
)

const (
	// DefaultCommandName is the build tool used when none is configured.
	DefaultCommandName = "make"

	labelSuffix = " OUTPUT"
)

// Runner probes for and executes the external build command.
type Runner interface {
	Name() string
	Label() string
	Probe() error
	Run() (string, error)
}

// Service implements Runner by invoking the configured external command.
type Service struct {
	commandName      string
	commandArguments []string
}

// NewService constructs a Runner for commandName with optional arguments.
func NewService(commandName string, commandArguments []string) *Service {
	return &Service{commandName: commandName, commandArguments: commandArguments}
}

// Name returns the configured executable name.
func (service *Service) Name() string {
	return service.commandName
}

// Label returns the upper-cased section label for the captured output,
// "CARGO BUILD OUTPUT" for the command line "cargo build".
func (service *Service) Label() string {
	commandLine := strings.Join(append([]string{service.commandName}, service.commandArguments...), " ")
	return strings.ToUpper(commandLine) + labelSuffix
}

// Probe reports whether the build command exists on PATH. Absence is
// recorded in the artifact and the run continues.
func (service *Service) Probe() error {
	if _, lookError := exec.LookPath(service.commandName); lookError != nil {
		return fmt.Errorf("build tool %q not found in PATH: %w", service.commandName, lookError)
	}
	return nil
}

// Run executes the build command and returns its combined stdout and stderr.
// Captured output is returned even when the command exits non-zero so the
// caller can append whatever the tool printed.
func (service *Service) Run() (string, error) {
	// #nosec G204
	buildCommand := exec.Command(service.commandName, service.commandArguments...)
	outputBytes, runError := buildCommand.CombinedOutput()
	return string(outputBytes), runError
}

var _ Runner = (*Service)(nil)
