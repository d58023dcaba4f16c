package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// LoggerInitializationFailedMessageFormat reports a failed logger bootstrap.
const LoggerInitializationFailedMessageFormat = "logger initialization failed: %w"

// ApplicationExecutionFailedMessage prefixes fatal application errors.
const ApplicationExecutionFailedMessage = "application execution failed"

// Configuration file constants shared by the config and cli packages.
const (
	// ConfigFileName is the name of the per-project configuration file.
	ConfigFileName = ".bundle.yaml"
	// GlobalConfigDirectoryName is the directory under $HOME holding the global configuration file.
	GlobalConfigDirectoryName = ".bundle"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)
