package storage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

func splitBase(base string) (prefix, ext string) {
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[:i], base[i:]
	}
	return base, ""
}

// maxVersion returns the highest N among "<prefix>_v<N><ext>" blobs, or 0.
func maxVersion(store Store, base string) (int, error) {
	prefix, ext := splitBase(base)
	objects, err := store.List(prefix + "_v*" + ext)
	if err != nil {
		return 0, err
	}
	re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(prefix) + `_v(\d+)` + regexp.QuoteMeta(ext) + `$`)
	highest := 0
	for _, obj := range objects {
		m := re.FindStringSubmatch(obj.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest, nil
}

// NextVersionName returns base when it does not exist yet, otherwise
// "<prefix>_v<N+1><ext>" where N is the highest existing version (the
// unversioned base counts as version 1).
func NextVersionName(store Store, base string) (string, error) {
	exists, err := store.Exists(base)
	if err != nil {
		return "", err
	}
	highest, err := maxVersion(store, base)
	if err != nil {
		return "", err
	}
	if !exists && highest == 0 {
		return base, nil
	}
	if highest < 1 {
		highest = 1
	}
	prefix, ext := splitBase(base)
	return fmt.Sprintf("%s_v%d%s", prefix, highest+1, ext), nil
}

// LatestVersionName returns the newest finalized snapshot name. ok is false
// when no snapshot exists.
func LatestVersionName(store Store, base string) (string, bool, error) {
	highest, err := maxVersion(store, base)
	if err != nil {
		return "", false, err
	}
	if highest > 0 {
		prefix, ext := splitBase(base)
		return fmt.Sprintf("%s_v%d%s", prefix, highest, ext), true, nil
	}
	exists, err := store.Exists(base)
	if err != nil {
		return "", false, err
	}
	return base, exists, nil
}
