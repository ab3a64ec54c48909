package patch

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/waigani/diffparser"
)

// patchTargets lists the existing files a unified diff modifies, relative to the directory
// patch runs in with -p1, and the number of files the diff touches. Files the diff creates
// are not targets. Diffs without "diff" header lines are read from their "---" lines.
func patchTargets(content string) ([]string, int, error) {
	if !strings.HasPrefix(content, "diff ") && !strings.Contains(content, "\ndiff ") {
		targets, files := plainTargets(content)
		return targets, files, nil
	}

	parsed, err := parseDiff(content)
	if err != nil {
		return nil, 0, err
	}
	var targets []string
	for _, file := range parsed.Files {
		// OrigName has the a/ prefix stripped already, and is empty for /dev/null.
		name := stripTimestamp(file.OrigName)
		if file.Mode == diffparser.NEW || name == "" || name == "/dev/null" {
			continue
		}
		targets = append(targets, name)
	}
	return targets, len(parsed.Files), nil
}

func plainTargets(content string) (targets []string, files int) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "--- ") {
			continue
		}
		files++
		name := stripTimestamp(strings.TrimPrefix(line, "--- "))
		if name == "/dev/null" {
			continue
		}
		if stripped := stripComponent(name); stripped != "" {
			targets = append(targets, stripped)
		}
	}
	return targets, files
}

// stripComponent drops the leading directory the way -p1 does.
func stripComponent(name string) string {
	_, rest, found := strings.Cut(filepath.ToSlash(name), "/")
	if !found {
		return ""
	}
	return rest
}

func stripTimestamp(name string) string {
	name, _, _ = strings.Cut(name, "\t")
	return strings.TrimSpace(name)
}

func parseDiff(content string) (parsed *diffparser.Diff, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed diff: %v", r)
		}
	}()
	return diffparser.Parse(content)
}
