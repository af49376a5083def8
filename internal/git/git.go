package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ChangedFiles runs git diff against baseRef and returns the repo-relative
// paths of changed Python files, resolved against root.
func ChangedFiles(root, baseRef string) ([]string, error) {
	cmd := exec.Command("git", "-C", root, "diff", "--name-only", baseRef)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	paths := parseNameOnly(output)
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		resolved = append(resolved, filepath.Join(root, p))
	}
	return resolved, nil
}

func parseNameOnly(output []byte) []string {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	var paths []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasSuffix(line, ".py") {
			continue
		}
		paths = append(paths, line)
	}
	return paths
}
