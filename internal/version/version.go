package version

import (
	"runtime/debug"
	"sync"
)

var (
	version string
	once    sync.Once
)

// GetVersion returns the module version, with the VCS revision when the
// binary was built from a checkout
func GetVersion() string {
	once.Do(func() {
		version = "dev"

		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}

		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}

		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
				version += "-" + setting.Value[:7]
				break
			}
		}
	})
	return version
}
