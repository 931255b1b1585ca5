package mosaic

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

var (
	// placeholderRE matches "{}", "{:4}", "{:04}" and "{:04d}".
	placeholderRE = regexp.MustCompile(`\{(?::(0?)(\d*)d?)?\}`)

	// intVerbRE matches printf integer verbs such as "%d" and "%03d".
	intVerbRE = regexp.MustCompile(`%[-+ 0]*\d*d`)
)

// FormatFramePath substitutes index into a numbered path pattern.
//
// Patterns use "{}" for the plain decimal index or "{:0N}" for an index
// zero-padded to N digits. Without braces, printf integer verbs ("%d",
// "%04d") are substituted instead; any other '%' stays literal. A pattern
// with neither is returned unchanged, so it names the same file for every
// index.
func FormatFramePath(pattern string, index int) string {
	if placeholderRE.MatchString(pattern) {
		return placeholderRE.ReplaceAllStringFunc(pattern, func(m string) string {
			sub := placeholderRE.FindStringSubmatch(m)
			width, _ := strconv.Atoi(sub[2])
			if sub[1] == "0" {
				return fmt.Sprintf("%0*d", width, index)
			}
			return fmt.Sprintf("%*d", width, index)
		})
	}
	return intVerbRE.ReplaceAllStringFunc(pattern, func(verb string) string {
		return fmt.Sprintf(verb, index)
	})
}

// DiscoverFrames lists the existing files of a numbered sequence, starting at
// index start and stopping at the first missing file or the first index that
// produces an already seen path.
//
// Errors other than "not exist" while probing a path are returned.
func DiscoverFrames(pattern string, start int) ([]string, error) {
	var (
		paths []string
		last  string
	)
	for i := start; ; i++ {
		path, err := filepath.Abs(FormatFramePath(pattern, i))
		if err != nil {
			return paths, fmt.Errorf("mosaic: resolve %q: %w", pattern, err)
		}
		if path == last {
			break
		}
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return paths, fmt.Errorf("mosaic: stat %s: %w", path, err)
		}
		if info.IsDir() {
			break
		}
		paths = append(paths, path)
		last = path
	}
	return paths, nil
}
