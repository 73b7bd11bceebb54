package sources

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// DefaultURLs is used when no recipes file exists.
var DefaultURLs = []string{}

// LoadRecipeURLs reads one URL per line from path. Blank lines, lines starting
// with '#', and anything not starting with "http" are skipped. A missing file
// is not an error: fallback is used instead.
func LoadRecipeURLs(path string, fallback []string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return parseRecipeLines(fallback), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load recipe urls: read %s", path)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), len(raw)+1)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "load recipe urls: scan %s", path)
	}
	return parseRecipeLines(lines), nil
}

func parseRecipeLines(lines []string) []string {
	urls := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "http") {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}
