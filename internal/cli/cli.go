// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/bundle/internal/config"
	"github.com/temirov/bundle/internal/output"
	"github.com/temirov/bundle/internal/services/buildcmd"
	"github.com/temirov/bundle/internal/services/clipboard"
	"github.com/temirov/bundle/internal/services/stream"
	"github.com/temirov/bundle/internal/services/treecmd"
	"github.com/temirov/bundle/internal/tokenizer"
	"github.com/temirov/bundle/internal/types"
	"github.com/temirov/bundle/internal/utils"
)

const (
	rootUse              = "bundle"
	rootShortDescription = "bundle command line interface"
	rootLongDescription  = `bundle concatenates configured source directories into one reviewable artifact.
Every directory gets a banner, a tree rendering, and the content of each file passing the extension filters.
Use --build to append build tool output, --copy to place the artifact on the clipboard, and --tokens to report its token count.`
	// rootUsageExample demonstrates the most common invocations.
	rootUsageExample = `  # Aggregate the configured directories into the artifact
  bundle

  # Limit trees and traversal to direct children, then run the build tool
  bundle --no-recurse --build`

	initUse              = "init"
	initShortDescription = "write a starter configuration file"
	initLongDescription  = `Write the default configuration file.
Targets the working directory unless --global is given; an existing file is preserved unless --force is given.`
	// initUsageExample demonstrates init command usage.
	initUsageExample = `  # Scaffold .bundle.yaml in the working directory
  bundle init

  # Replace the global configuration
  bundle init --global --force`

	configFlagName    = "config"
	noRecurseFlagName = "no-recurse"
	buildFlagName     = "build"
	copyFlagName      = "copy"
	tokensFlagName    = "tokens"
	modelFlagName     = "model"
	versionFlagName   = "version"
	globalFlagName    = "global"
	forceFlagName     = "force"

	configFlagDescription    = "configuration file path"
	noRecurseFlagDescription = "limit traversal and tree renderings to direct children"
	buildFlagDescription     = "run the configured build tool and append its output"
	copyFlagDescription      = "copy the finished artifact to the system clipboard"
	tokensFlagDescription    = "report the artifact token count"
	modelFlagDescription     = "tokenizer model to use for token counting"
	versionFlagDescription   = "display application version"
	globalFlagDescription    = "target the global configuration file"
	forceFlagDescription     = "overwrite an existing configuration file"

	versionTemplate              = "bundle version: %s\n"
	initializedConfigurationLine = "configuration written to %s\n"
	warningTokenCountFormat      = "failed to count tokens for %s: %v"
	warningClipboardFormat       = "failed to copy %s to clipboard: %v"
	workingDirectoryErrorFormat  = "unable to determine working directory: %w"
	loggerInitializationFormat   = "unable to initialize logger: %w"
)

// Execute runs the bundle application.
func Execute() error {
	rootCommand := createRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// runFlags holds the command line toggles applied on top of the merged
// configuration. Only flags the user actually set override it.
type runFlags struct {
	configPath    string
	noRecurse     bool
	runBuild      bool
	copyEnabled   bool
	tokensEnabled bool
	modelName     string
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var flags runFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runBundle(command, flags)
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	rootCommand.Flags().StringVar(&flags.modelName, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(rootCommand.Flags(), &flags.noRecurse, noRecurseFlagName, false, noRecurseFlagDescription)
	registerBooleanFlag(rootCommand.Flags(), &flags.runBuild, buildFlagName, false, buildFlagDescription)
	registerBooleanFlag(rootCommand.Flags(), &flags.copyEnabled, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(rootCommand.Flags(), &flags.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var useGlobalTarget bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:     initUse,
		Short:   initShortDescription,
		Long:    initLongDescription,
		Example: initUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if useGlobalTarget {
				target = config.InitTargetGlobal
			}
			writtenPath, initializationError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: forceOverwrite})
			if initializationError != nil {
				return initializationError
			}
			fmt.Fprintf(command.OutOrStdout(), initializedConfigurationLine, writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&useGlobalTarget, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// runBundle executes one aggregation run: it loads and validates the
// configuration, applies flag overrides, probes the tree tool, streams the
// event sequence into the artifact renderer, and finishes with the summary
// line plus the optional token count and clipboard copy.
func runBundle(command *cobra.Command, flags runFlags) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if loadError != nil {
		return loadError
	}
	runConfiguration, buildError := applicationConfiguration.BuildRunConfiguration()
	if buildError != nil {
		return buildError
	}
	applyFlagOverrides(command, flags, &runConfiguration)

	loggerInstance, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		return fmt.Errorf(loggerInitializationFormat, loggerError)
	}
	defer loggerInstance.Sync()

	return executeRun(context.Background(), runConfiguration, loggerInstance)
}

// applyFlagOverrides lets explicitly set command line flags win over the
// merged configuration file values.
func applyFlagOverrides(command *cobra.Command, flags runFlags, configuration *types.Configuration) {
	if command == nil || configuration == nil {
		return
	}
	if command.Flags().Changed(noRecurseFlagName) {
		configuration.Recursive = !flags.noRecurse
	}
	if command.Flags().Changed(buildFlagName) {
		configuration.RunBuild = flags.runBuild
	}
	if command.Flags().Changed(copyFlagName) {
		configuration.CopyToClipboard = flags.copyEnabled
	}
	if command.Flags().Changed(tokensFlagName) {
		configuration.CountTokens = flags.tokensEnabled
	}
	if command.Flags().Changed(modelFlagName) {
		configuration.TokenizerModelName = flags.modelName
	}
}

// executeRun performs the aggregation described by configuration. The tree
// tool is probed before the renderer opens the artifact, so a fatal probe
// failure leaves any previous artifact untouched.
func executeRun(ctx context.Context, configuration types.Configuration, loggerInstance *zap.Logger) error {
	treeRenderer := treecmd.NewService(configuration.TreeCommandName, configuration.Recursive, configuration.ExcludedDirectoryNames)
	if probeError := treeRenderer.Probe(); probeError != nil {
		return probeError
	}

	var buildRunner buildcmd.Runner
	if configuration.RunBuild {
		buildRunner = buildcmd.NewService(configuration.BuildCommandName, configuration.BuildCommandArguments)
	}

	renderer := output.NewArtifactRenderer(configuration.OutputFilePath, loggerInstance)

	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		return stream.StreamBundle(streamCtx, stream.BundleOptions{
			Configuration: configuration,
			TreeRenderer:  treeRenderer,
			BuildRunner:   buildRunner,
		}, events)
	}

	dispatchError := dispatchStream(ctx, producer, renderer.Handle)
	flushError := renderer.Flush()
	if dispatchError != nil {
		return dispatchError
	}
	if flushError != nil {
		return flushError
	}

	finishRun(configuration, renderer.Summary(), loggerInstance)
	return nil
}

// finishRun logs the summary line and performs the post-artifact steps. The
// artifact is already complete on disk, so token counting and clipboard
// failures only warn.
func finishRun(configuration types.Configuration, streamSummary *stream.SummaryEvent, loggerInstance *zap.Logger) {
	runSummary := types.RunSummary{}
	if streamSummary != nil {
		runSummary.FileCount = streamSummary.Files
		runSummary.TotalBytes = streamSummary.Bytes
	}

	if configuration.CountTokens {
		counter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: configuration.TokenizerModelName})
		if counterError != nil {
			loggerInstance.Warn(fmt.Sprintf(warningTokenCountFormat, configuration.OutputFilePath, counterError))
		} else {
			countResult, countError := tokenizer.CountFile(counter, configuration.OutputFilePath)
			if countError != nil {
				loggerInstance.Warn(fmt.Sprintf(warningTokenCountFormat, configuration.OutputFilePath, countError))
			} else if countResult.Counted {
				runSummary.TokenCount = countResult.Tokens
				runSummary.ModelName = resolvedModel
			}
		}
	}

	loggerInstance.Info(output.FormatRunSummary(runSummary))

	if configuration.CopyToClipboard {
		copyArtifactToClipboard(configuration.OutputFilePath, loggerInstance)
	}
}

// copyArtifactToClipboard reads the finished artifact back from disk and
// places it on the system clipboard.
func copyArtifactToClipboard(outputPath string, loggerInstance *zap.Logger) {
	artifactBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		loggerInstance.Warn(fmt.Sprintf(warningClipboardFormat, outputPath, readError))
		return
	}
	if copyError := clipboard.NewService().Copy(string(artifactBytes)); copyError != nil {
		loggerInstance.Warn(fmt.Sprintf(warningClipboardFormat, outputPath, copyError))
	}
}

// dispatchStream runs the event producer and the consuming renderer as a
// pair, closing the channel when production ends and stopping both on the
// first error.
func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
