package buildenv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadOptions reads build options from a YAML (.yaml, .yml) or TOML (.toml) file.
// Settings missing from the file keep their DefaultOptions value.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("buildenv: failed to read options: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
			return opts, fmt.Errorf("buildenv: failed to decode %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &opts)
		if err != nil {
			return opts, fmt.Errorf("buildenv: failed to decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return opts, fmt.Errorf("buildenv: unknown option %q in %s", undecoded[0].String(), path)
		}
	default:
		return opts, fmt.Errorf("buildenv: unsupported options format %q", ext)
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}

	return opts, nil
}
