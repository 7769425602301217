// Package appdir locates the per-user state directory, ~/.aes256.
package appdir

import (
	"log"
	"os"
	"path/filepath"
	"sync"
)

const dirName = ".aes256"

var (
	appDirOnce  sync.Once
	appDirCache string
)

// AppDir returns the state directory, creating it on first use.
// AES256_HOME overrides the location.
func AppDir() string {
	appDirOnce.Do(func() {
		dir := os.Getenv("AES256_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				log.Fatalf("%v", err)
			}
			dir = filepath.Join(home, dirName)
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			log.Printf("appdir: cannot create %s: %v", dir, err)
		}
		appDirCache = dir
	})
	return appDirCache
}

// Path joins name onto AppDir unless name is already absolute.
func Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(AppDir(), name)
}
