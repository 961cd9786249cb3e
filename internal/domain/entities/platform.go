package entities

import (
	"fmt"
	"os"
	"strings"
)

// TargetEnvVar lists the platforms to update when --target is not given.
const TargetEnvVar = "MOBILEVERSION_TARGET"

// Platform identifies a mobile platform whose build metadata is synchronized.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// AllPlatforms returns every supported platform in execution order.
func AllPlatforms() []Platform {
	return []Platform{PlatformAndroid, PlatformIOS}
}

// ParsePlatforms parses a comma separated platform list. An empty list selects
// every platform. The result is deduplicated and keeps the AllPlatforms order.
func ParsePlatforms(raw string) ([]Platform, error) {
	selected := make(map[Platform]bool)
	for _, name := range strings.Split(raw, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		platform := Platform(name)
		if platform != PlatformAndroid && platform != PlatformIOS {
			return nil, fmt.Errorf("unknown target platform %q (expected android or ios)", name)
		}
		selected[platform] = true
	}

	if len(selected) == 0 {
		return AllPlatforms(), nil
	}

	platforms := make([]Platform, 0, len(selected))
	for _, platform := range AllPlatforms() {
		if selected[platform] {
			platforms = append(platforms, platform)
		}
	}
	return platforms, nil
}

// PlatformsFromEnv reads the platform selection from TargetEnvVar.
func PlatformsFromEnv() ([]Platform, error) {
	return ParsePlatforms(os.Getenv(TargetEnvVar))
}
