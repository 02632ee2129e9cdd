package util

import (
	"os"
	"path/filepath"
	"strings"
)

// GetKeyByOid returns the key whose OID is a prefix of oid.
func GetKeyByOid(m map[string]string, oid string) string {
	oid = strings.TrimPrefix(oid, ".")
	best := ""
	bestLen := -1
	for k, v := range m {
		if oid == v || strings.HasPrefix(oid, v+".") {
			if len(v) > bestLen {
				best, bestLen = k, len(v)
			}
		}
	}
	return best
}

func GetRootDir() string {
	if IsTesting() {
		dir, err := os.Getwd()
		if err != nil {
			return "."
		}
		return dir
	}
	exePath, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exePath)
}

func GetBinDir() string {
	return filepath.Join(GetRootDir(), "bin")
}

func IsTesting() bool {
	args := os.Args
	return len(args) > 0 && (strings.Contains(strings.ToLower(args[0]), "go-build") || strings.HasSuffix(args[0], ".test"))
}

// SanitizeFileName keeps letters, digits, dots and dashes; everything else
// becomes an underscore.
func SanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return '_'
	}, s)
}
