package utils

import (
	"runtime/debug"
)

const (
	unknownVersion      = "unknown"
	developmentVersion  = "(devel)"
	revisionSettingKey  = "vcs.revision"
	modifiedSettingKey  = "vcs.modified"
	shortRevisionLength = 12
	modifiedSuffix      = "-dirty"
)

// Version is set at link time with -ldflags "-X github.com/temirov/treesnap/internal/utils.Version=v1.2.3".
var Version string

// GetApplicationVersion reports the linked version, the module version from build info,
// or the VCS revision recorded by the Go toolchain, in that order.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, available := debug.ReadBuildInfo()
	if !available {
		return unknownVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	return revisionFromSettings(buildInfo.Settings)
}

func revisionFromSettings(settings []debug.BuildSetting) string {
	var revision string
	var modified bool
	for _, setting := range settings {
		switch setting.Key {
		case revisionSettingKey:
			revision = setting.Value
		case modifiedSettingKey:
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return unknownVersion
	}
	if len(revision) > shortRevisionLength {
		revision = revision[:shortRevisionLength]
	}
	if modified {
		revision += modifiedSuffix
	}
	return revision
}
