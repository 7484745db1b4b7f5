package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvedPaths holds the absolute locations a run reads and writes.
type ResolvedPaths struct {
	ProjectRoot string
	WatchPaths  []string
	DBPath      string
	OutputRoot  string
}

func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}

	watch := make([]string, 0, len(cfg.WatchPaths))
	for _, p := range cfg.WatchPaths {
		watch = append(watch, ResolveRelative(cwd, p))
	}

	projectRoot, err := DetectProjectRoot(append(append([]string(nil), watch...), cwd))
	if err != nil {
		return ResolvedPaths{}, err
	}

	outputRoot := projectRoot
	if cfg.Output.Root != "" {
		outputRoot = ResolveRelative(projectRoot, cfg.Output.Root)
	}

	return ResolvedPaths{
		ProjectRoot: filepath.Clean(projectRoot),
		WatchPaths:  watch,
		DBPath:      ResolveRelative(projectRoot, cfg.DB.Path),
		OutputRoot:  filepath.Clean(outputRoot),
	}, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectProjectRoot walks up from each candidate until it finds a build
// file, a VCS root or a config file. It falls back to the working directory.
func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		DefaultFile,
		"pom.xml",
		"build.gradle",
		"build.gradle.kts",
		".git",
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
