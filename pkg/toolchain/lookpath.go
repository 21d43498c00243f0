package toolchain

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// LookPath searches for an executable named file in the directories listed by
// the PATH variable of environ, instead of the current process' PATH.
// If file contains a path separator it is checked directly. When environ has
// no PATH entry, the current process' PATH is searched.
func LookPath(file string, environ []string) (string, error) {
	if strings.ContainsRune(file, '/') || strings.ContainsRune(file, filepath.Separator) {
		if err := findExecutable(file); err != nil {
			return "", &exec.Error{Name: file, Err: err}
		}
		return file, nil
	}

	path, ok := lookupEnv(environ, "PATH")
	if !ok {
		return exec.LookPath(file)
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		for _, candidate := range candidates(filepath.Join(dir, file)) {
			if err := findExecutable(candidate); err == nil {
				return candidate, nil
			}
		}
	}

	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

func candidates(path string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(path) != "" {
		return []string{path}
	}
	return []string{path, path + ".exe", path + ".bat", path + ".cmd"}
}

func findExecutable(file string) error {
	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", file)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return errors.New("permission denied")
	}
	return nil
}

// lookupEnv returns the last value of key in environ, like the operating system does.
func lookupEnv(environ []string, key string) (string, bool) {
	var (
		value string
		found bool
	)

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if k == key || (runtime.GOOS == "windows" && strings.EqualFold(k, key)) {
			value, found = v, true
		}
	}

	return value, found
}
