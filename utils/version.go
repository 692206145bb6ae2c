package utils

import (
	"strings"

	"github.com/hashicorp/go-version"
)

// VersionConfig holds the supported client application versions. Clients
// announce themselves through the X-Client-Version header.
type VersionConfig struct {
	CurrentStable string
	MinSupported  string
	Deprecated    string
}

var DefaultVersionConfig = VersionConfig{
	CurrentStable: "1.4.0", // Latest stable client release
	MinSupported:  "1.2.0", // Minimum supported client
	Deprecated:    "1.0.0", // Clients below this are cut off
}

// CheckVersionStatus determines whether a client version needs upgrading.
func CheckVersionStatus(clientVersion string, config *VersionConfig) (status string, needsUpgrade bool, severity string) {
	if config == nil {
		config = &DefaultVersionConfig
	}

	clientVersion = strings.TrimPrefix(clientVersion, "v")

	clientVer, err := version.NewVersion(clientVersion)
	if err != nil {
		return "unknown", false, "info"
	}

	current, _ := version.NewVersion(config.CurrentStable)
	minSupported, _ := version.NewVersion(config.MinSupported)
	deprecated, _ := version.NewVersion(config.Deprecated)

	if clientVer.LessThan(deprecated) {
		return "deprecated", true, "critical"
	}

	if clientVer.LessThan(minSupported) {
		return "outdated", true, "warning"
	}

	if clientVer.LessThan(current) {
		return "outdated", true, "info"
	}

	return "current", false, "none"
}

// GetUpgradeMessage returns a human-readable upgrade message, or "" when
// the client is up to date.
func GetUpgradeMessage(clientVersion string, config *VersionConfig) string {
	if config == nil {
		config = &DefaultVersionConfig
	}

	_, needsUpgrade, severity := CheckVersionStatus(clientVersion, config)

	if !needsUpgrade {
		return ""
	}

	switch severity {
	case "critical":
		return "CRITICAL: This client version is no longer supported. Upgrade to " + config.CurrentStable + " immediately."
	case "warning":
		return "WARNING: This client version is outdated. Please upgrade to " + config.CurrentStable + " soon."
	case "info":
		return "INFO: A newer version " + config.CurrentStable + " is available."
	}

	return ""
}
