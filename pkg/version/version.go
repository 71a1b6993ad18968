package version

import (
	"fmt"
	"runtime"

	"github.com/slimtoolkit/imgpkg/pkg/consts"
)

var (
	appVersionTag  = "latest"
	appVersionRev  = "latest"
	appVersionTime = "latest"
	currentVersion = "v"
)

func init() {
	currentVersion = fmt.Sprintf("%v|%v|%v|%v|%v", runtime.GOOS, consts.AppVersionName, appVersionTag, appVersionRev, appVersionTime)
}

// Current returns the current version information
func Current() string {
	return currentVersion
}

// Tag returns the release tag the binary was built from
func Tag() string {
	return appVersionTag
}
