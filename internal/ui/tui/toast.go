package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// toastFor turns a workspace or registry loading error into a one-line toast.
// The full error goes to the log.
func toastFor(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if !errors.As(err, &oe) {
		return "Unexpected error (see logs)"
	}

	file := "suitemap.yaml"
	if oe.Path != "" {
		file = filepath.Base(oe.Path)
	}

	switch oe.Kind {
	case domain.KindNotFound:
		if strings.HasPrefix(oe.Op, "workspacefinder.loadconfig") {
			return file + " cannot be read"
		}
		return "Workspace not found"
	case domain.KindInvalidConfig:
		if oe.Op == "workspacefinder.env" {
			return "Invalid SUITEMAP_* override"
		}
		if n, ok := yamlLine(err); ok {
			return fmt.Sprintf("Invalid YAML in %s at line %d", file, n)
		}
		return "Invalid settings in " + file
	case domain.KindExecution:
		return "Cannot resolve the working directory"
	}
	return "Unexpected error (see logs)"
}

// yamlLine reads the first "line N" that yaml.v3 puts in its errors.
func yamlLine(err error) (int, bool) {
	_, rest, ok := strings.Cut(err.Error(), "line ")
	if !ok {
		return 0, false
	}
	end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(rest)
	}
	n, convErr := strconv.Atoi(rest[:end])
	return n, convErr == nil
}
