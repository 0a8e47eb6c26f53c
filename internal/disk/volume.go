package disk

import (
	"runtime"
	"strings"
	"unicode"
)

// NormalizeVolumePath maps Windows drive paths to their raw device form:
// "C:" becomes \\.\C: and "PhysicalDrive0" becomes \\.\PHYSICALDRIVE0.
// On other systems the path is returned unchanged.
func NormalizeVolumePath(path string) string {
	if runtime.GOOS != "windows" {
		return path
	}
	return normalizeWindowsPath(path)
}

func normalizeWindowsPath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, "/", `\`)
	upper := strings.ToUpper(path)

	if strings.HasPrefix(upper, `\\.\`) {
		return upper
	}

	if strings.HasPrefix(upper, "PHYSICALDRIVE") {
		return `\\.\` + upper
	}

	// drive letter only, e.g. "C:" or "C:\"
	trimmed := strings.TrimSuffix(upper, `\`)
	if len(trimmed) == 2 && trimmed[1] == ':' && unicode.IsLetter(rune(trimmed[0])) {
		return `\\.\` + trimmed
	}
	return path
}
