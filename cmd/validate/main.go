package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/wolf-agent/pkg/roles"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <role.yaml> [...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		if err := validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("profile file must have .yaml extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ext)
	if !validFilenameRegex.MatchString(nameWithoutExt) {
		return fmt.Errorf("profile filename '%s' must be lowercase snake_case (e.g., wolfking.yaml)", baseName)
	}

	p, err := roles.LoadProfile(filename)
	if err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}

	// Profile files are loaded by role name at runtime; a mismatched
	// filename would silently shadow the wrong role.
	if nameWithoutExt != string(p.Role) {
		return fmt.Errorf("file %s declares role %q; rename the file to %s%s", filename, p.Role, p.Role, ext)
	}

	return nil
}
