//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"slices"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// SyncOptionsBuilder helps create test sync options with a fluent interface.
type SyncOptionsBuilder struct {
	*testkit.BaseBuilder
	projectDir          string
	androidPath         string
	iosPath             string
	targets             []entities.Platform
	resetBuild          bool
	setBuild            *int
	generateBuild       bool
	incrementBuild      bool
	neverIncrementBuild bool
	amend               bool
	skipTag             bool
	dryRun              bool
}

// NewSyncOptionsBuilder creates a new builder whose options run every platform
// with the default build number policy.
func NewSyncOptionsBuilder() *SyncOptionsBuilder {
	return &SyncOptionsBuilder{BaseBuilder: testkit.NewBaseBuilder()}
}

// WithProjectDir sets the directory relative paths resolve against.
func (b *SyncOptionsBuilder) WithProjectDir(dir string) *SyncOptionsBuilder {
	b.projectDir = dir
	return b
}

// WithAndroidPath sets the Android build descriptor path.
func (b *SyncOptionsBuilder) WithAndroidPath(path string) *SyncOptionsBuilder {
	b.androidPath = path
	return b
}

// WithIOSPath sets the directory holding the Xcode project.
func (b *SyncOptionsBuilder) WithIOSPath(path string) *SyncOptionsBuilder {
	b.iosPath = path
	return b
}

// WithTargets restricts the run to the given platforms.
func (b *SyncOptionsBuilder) WithTargets(targets ...entities.Platform) *SyncOptionsBuilder {
	b.targets = targets
	return b
}

// WithResetBuild forces the build number to 1.
func (b *SyncOptionsBuilder) WithResetBuild() *SyncOptionsBuilder {
	b.resetBuild = true
	return b
}

// WithSetBuild forces an explicit build number.
func (b *SyncOptionsBuilder) WithSetBuild(build int) *SyncOptionsBuilder {
	b.setBuild = &build
	return b
}

// WithGenerateBuild derives the build number from the version.
func (b *SyncOptionsBuilder) WithGenerateBuild() *SyncOptionsBuilder {
	b.generateBuild = true
	return b
}

// WithIncrementBuild only touches the build number.
func (b *SyncOptionsBuilder) WithIncrementBuild() *SyncOptionsBuilder {
	b.incrementBuild = true
	return b
}

// WithNeverIncrementBuild never touches the build number.
func (b *SyncOptionsBuilder) WithNeverIncrementBuild() *SyncOptionsBuilder {
	b.neverIncrementBuild = true
	return b
}

// WithAmend enables amending the last commit.
func (b *SyncOptionsBuilder) WithAmend() *SyncOptionsBuilder {
	b.amend = true
	return b
}

// WithSkipTag keeps the tag where it is when amending.
func (b *SyncOptionsBuilder) WithSkipTag() *SyncOptionsBuilder {
	b.skipTag = true
	return b
}

// WithDryRun disables writes.
func (b *SyncOptionsBuilder) WithDryRun() *SyncOptionsBuilder {
	b.dryRun = true
	return b
}

// Build creates the options (satisfies testkit.Builder interface).
func (b *SyncOptionsBuilder) Build() interface{} {
	return b.BuildSyncOptions()
}

// BuildSyncOptions creates the options with a concrete return type.
func (b *SyncOptionsBuilder) BuildSyncOptions() entities.SyncOptions {
	return entities.SyncOptions{
		ProjectDir:          b.projectDir,
		AndroidPath:         b.androidPath,
		IOSPath:             b.iosPath,
		Targets:             slices.Clone(b.targets),
		ResetBuild:          b.resetBuild,
		SetBuild:            b.setBuild,
		GenerateBuild:       b.generateBuild,
		IncrementBuild:      b.incrementBuild,
		NeverIncrementBuild: b.neverIncrementBuild,
		Amend:               b.amend,
		SkipTag:             b.skipTag,
		DryRun:              b.dryRun,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *SyncOptionsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	*b = SyncOptionsBuilder{BaseBuilder: b.BaseBuilder}
	return b
}

// Clone creates a deep copy of the SyncOptionsBuilder.
func (b *SyncOptionsBuilder) Clone() testkit.Builder {
	clone := *b
	clone.BaseBuilder = b.BaseBuilder.Clone().(*testkit.BaseBuilder)
	clone.targets = slices.Clone(b.targets)
	return &clone
}
