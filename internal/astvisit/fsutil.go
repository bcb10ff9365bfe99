package astvisit

import "os"

// statIsFile reports whether path exists and is a regular file, isolated
// in its own tiny function so resolveExternalMod reads as pure path logic.
func statIsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}
