package browser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

var chromeCandidates = map[string][]string{
	"windows": {
		"C:\\Program Files\\Google\\Chrome\\Application\\chrome.exe",
		"C:\\Program Files (x86)\\Google\\Chrome\\Application\\chrome.exe",
	},
	"darwin": {
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
	},
	"linux": {
		"google-chrome",
		"google-chrome-stable",
		"chromium",
		"chromium-browser",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	},
}

// FindChrome on the FS, returns the binary (empty if none was found) and a
// directory for temporary profiles
func FindChrome() (string, string) {
	tmp := filepath.Join(os.TempDir(), "gcd")
	for _, candidate := range chromeCandidates[runtime.GOOS] {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, tmp
		}
	}
	return "", tmp
}
