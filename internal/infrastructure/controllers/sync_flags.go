package controllers

import (
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
)

// AddSyncFlags registers the synchronization flags as persistent flags of cmd.
func AddSyncFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to config file (default: auto-detect in the project directory)")
	flags.StringP("android", "a", "", "Path to the Android build.gradle (default: "+entities.DefaultAndroidPath+")")
	flags.StringP("ios", "i", "", "Path to the directory holding the Xcode project (default: "+entities.DefaultIOSPath+")")
	flags.StringP("target", "t", "", "Comma separated platforms to synchronize (android,ios)")
	flags.BoolP("reset-build", "r", false, "Reset the build number to 1")
	flags.IntP("set-build", "s", 0, "Set the build number to this value")
	flags.Bool("generate-build", false, "Derive the build number from the version (major*1000000 + minor*1000 + patch)")
	flags.BoolP("increment-build", "b", false, "Only update the build number, keep the display version")
	flags.BoolP("never-increment-build", "B", false, "Never update the build number")
	flags.BoolP("amend", "A", false, "Amend the last commit with the changed files")
	flags.Bool("skip-tag", false, "Do not move the version tag when amending")
	flags.Bool("dry-run", false, "Show what would be done without making changes")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.BoolP("quiet", "q", false, "Only print warnings and errors")
}

// ParseSyncOptions builds the run options for cmd. Values come from the config
// file first, then MOBILEVERSION_TARGET, then any flag given explicitly.
func ParseSyncOptions(cmd *cobra.Command, args []string) (entities.SyncOptions, error) {
	opts := entities.SyncOptions{ProjectDir: "."}
	if len(args) > 0 {
		opts.ProjectDir = args[0]
	}

	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	if configPath == "" {
		if found, err := entities.FindConfigFile(opts.ProjectDir); err == nil {
			configPath = found
		}
	}
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
		settings, err := entities.NewSettings(configPath)
		if err != nil {
			return opts, fmt.Errorf("failed to load config: %w", err)
		}
		if opts, err = settings.ApplyTo(opts); err != nil {
			return opts, fmt.Errorf("invalid config %s: %w", configPath, err)
		}
	}

	if strings.TrimSpace(os.Getenv(entities.TargetEnvVar)) != "" {
		targets, err := entities.PlatformsFromEnv()
		if err != nil {
			return opts, fmt.Errorf("invalid %s: %w", entities.TargetEnvVar, err)
		}
		opts.Targets = targets
	}

	if flags.Changed("target") {
		raw, _ := flags.GetString("target")
		targets, err := entities.ParsePlatforms(raw)
		if err != nil {
			return opts, err
		}
		opts.Targets = targets
	}
	if flags.Changed("android") {
		opts.AndroidPath, _ = flags.GetString("android")
	}
	if flags.Changed("ios") {
		opts.IOSPath, _ = flags.GetString("ios")
	}
	if flags.Changed("set-build") {
		value, _ := flags.GetInt("set-build")
		if value < 0 {
			return opts, fmt.Errorf("--set-build must not be negative, got %d", value)
		}
		opts.SetBuild = &value
	}

	boolFlags := map[string]*bool{
		"reset-build":           &opts.ResetBuild,
		"generate-build":        &opts.GenerateBuild,
		"increment-build":       &opts.IncrementBuild,
		"never-increment-build": &opts.NeverIncrementBuild,
		"amend":                 &opts.Amend,
		"skip-tag":              &opts.SkipTag,
		"dry-run":               &opts.DryRun,
		"verbose":               &opts.Verbose,
		"quiet":                 &opts.Quiet,
	}
	for name, target := range boolFlags {
		if flags.Changed(name) {
			*target, _ = flags.GetBool(name)
		}
	}

	if opts.IncrementBuild && opts.NeverIncrementBuild {
		logger.Warn("Both --increment-build and --never-increment-build are set, nothing will be updated")
	}
	return opts, nil
}

// ConfigureLogging applies the verbosity chosen in opts to the global logger.
func ConfigureLogging(opts entities.SyncOptions) {
	switch {
	case opts.Verbose:
		logger.SetLevel(logger.DebugLevel)
	case opts.Quiet:
		logger.SetLevel(logger.WarnLevel)
	}
}
