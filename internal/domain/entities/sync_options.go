package entities

import "path/filepath"

const (
	DefaultAndroidPath = "android/app/build.gradle"
	DefaultIOSPath     = "ios/App"
)

// SyncOptions holds runtime options for a single synchronization run.
type SyncOptions struct {
	ProjectDir  string
	AndroidPath string
	IOSPath     string
	Targets     []Platform

	ResetBuild          bool
	SetBuild            *int
	GenerateBuild       bool
	IncrementBuild      bool // only touch the build number
	NeverIncrementBuild bool // never touch the build number

	Amend   bool
	SkipTag bool
	DryRun  bool
	Verbose bool
	Quiet   bool
}

// UpdatesDisplayVersion reports whether display version fields should be rewritten.
func (o SyncOptions) UpdatesDisplayVersion() bool {
	return !o.IncrementBuild
}

// UpdatesBuildNumber reports whether build number fields should be rewritten.
func (o SyncOptions) UpdatesBuildNumber() bool {
	return !o.NeverIncrementBuild
}

// BuildNumberOptions returns the flags NextBuildNumber evaluates.
func (o SyncOptions) BuildNumberOptions() BuildNumberOptions {
	return BuildNumberOptions{
		Reset:    o.ResetBuild,
		Set:      o.SetBuild,
		Generate: o.GenerateBuild,
	}
}

// Platforms returns the selected platforms, defaulting to all of them.
func (o SyncOptions) Platforms() []Platform {
	if len(o.Targets) == 0 {
		return AllPlatforms()
	}
	return o.Targets
}

// Resolve joins a relative path onto ProjectDir.
func (o SyncOptions) Resolve(path string) string {
	if filepath.IsAbs(path) || o.ProjectDir == "" {
		return path
	}
	return filepath.Join(o.ProjectDir, path)
}

// AndroidFile returns the resolved Android build descriptor path.
func (o SyncOptions) AndroidFile() string {
	if o.AndroidPath == "" {
		return o.Resolve(DefaultAndroidPath)
	}
	return o.Resolve(o.AndroidPath)
}

// IOSDir returns the resolved directory holding the Xcode project bundle.
func (o SyncOptions) IOSDir() string {
	if o.IOSPath == "" {
		return o.Resolve(DefaultIOSPath)
	}
	return o.Resolve(o.IOSPath)
}
