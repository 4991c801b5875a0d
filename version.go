package inertia

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
)

// VersionFromFile returns a version resolver that hashes the file at path,
// typically the bundler's manifest. The file is read once, on first use.
//
//	f.SetVersion(inertia.VersionFromFile("public/build/manifest.json"))
func VersionFromFile(path string) func() (string, error) {
	return sync.OnceValues(func() (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("inertia: read version file: %w", err)
		}
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:8]), nil
	})
}
