package profile

import "strings"

// settingKeys is the fixed table of setting keys recognized by the driver.
var settingKeys = []string{
	"GLFSAAMode",
	"GLLogMaxAniso",
	"GLNoDsoFinalizer",
	"GLSingleThreaded",
	"GLSyncDisplayDevice",
	"GLSyncToVblank",
	"GLSortFbconfigs",
	"GLAllowUnofficialProtocol",
	"GLSELinuxBooleans",
	"GLShaderDiskCache",
	"GLShaderDiskCachePath",
	"GLYield",
	"GLThreadedOptimizations",
	"GLDoom3",
	"GLExtensionStringVersion",
}

// CanonicalKey matches key case-insensitively against the recognized-key
// table and returns the canonical spelling. The second return is false when
// the key is unrecognized.
func CanonicalKey(key string) (string, bool) {
	for _, k := range settingKeys {
		if strings.EqualFold(key, k) {
			return k, true
		}
	}

	return "", false
}

// SettingKeys returns the canonical spellings of all recognized setting keys.
func SettingKeys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)

	return keys
}
