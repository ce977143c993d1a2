package stackctl

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"promstack/internal/common/fsutil"
)

// bootstrapEnvFile guarantees a usable environment file exists before any
// other step runs. If target is already present it is left untouched so user
// edits survive re-runs. A missing template is fatal.
func bootstrapEnvFile(target, template string) error {
	if fsutil.PathExists(target) {
		debug("env file %s already present, leaving as is", target)
		return nil
	}
	data, err := os.ReadFile(template)
	if err != nil {
		return fmt.Errorf("env template %s: %w", template, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	info("created %s from %s", target, template)
	return nil
}

// lookupEnvKey scans a flat KEY=value file for one key and returns its value,
// or def when the file, the key or the value is missing. First occurrence
// wins. Blank lines and # comments are skipped; a leading "export " and
// surrounding quotes on the value are tolerated.
func lookupEnvKey(path, key, def string) string {
	f, err := os.Open(path)
	if err != nil {
		return def
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		k, v, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(k) != key {
			continue
		}
		v = strings.TrimSpace(v)
		v = strings.Trim(v, `"'`)
		if v == "" {
			return def
		}
		return v
	}
	return def
}
