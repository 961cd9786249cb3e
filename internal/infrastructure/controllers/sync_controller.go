package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/mobileversion/internal/domain/commands"
	"github.com/rios0rios0/mobileversion/internal/domain/entities"
)

// SyncController handles the root command and the "sync" subcommand.
type SyncController struct {
	command commands.Sync
}

// NewSyncController creates a new SyncController.
func NewSyncController(command commands.Sync) *SyncController {
	return &SyncController{command: command}
}

// GetBind returns the Cobra command metadata for the sync controller.
func (it *SyncController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sync [project-dir]",
		Short: "Synchronize the package.json version into the native projects",
		Long: `Read the version from package.json and write it into the Android
build.gradle (versionName, versionCode), the Xcode project
(CURRENT_PROJECT_VERSION) and every Info.plist it references
(CFBundleShortVersionString, CFBundleVersion).

Android and iOS are updated independently; a failure on one platform
is reported without discarding the other platform's changes.`,
	}
}

// Execute runs one synchronization and returns the aggregated failure, if any.
func (it *SyncController) Execute(cmd *cobra.Command, args []string) error {
	opts, err := ParseSyncOptions(cmd, args)
	if err != nil {
		return err
	}
	ConfigureLogging(opts)

	_, err = it.command.Execute(context.Background(), opts)
	return err
}
