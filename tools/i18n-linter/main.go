// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the translation keys used by usercrud. It scans the Go
// sources for i18n.T() calls and key-like string literals and compares them
// with the YAML locale files.
//
// Exit status is 1 when a used key is missing from the primary locale or a
// secondary locale lacks a key of the primary one. Orphaned keys only warn.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

var (
	// i18n.T("some.key") or a bare literal shaped like a key ("get.prompt_id").
	keyUseRe = regexp.MustCompile(`i18n\.T\("([^"]+)"\s*[,)]|"([a-z_]+\.[a-z_.]*[a-z_])"`)
	// "shell.menu." + name: every key under the prefix counts as used.
	prefixUseRe = regexp.MustCompile(`"([a-z_]+(?:\.[a-z_]+)*\.)"\s*\+`)
)

// usage is the set of keys referenced from source code. Only keys passed
// to i18n.T directly are required to exist; key-like literals may be config
// keys and merely keep locale entries from being reported as orphaned.
type usage struct {
	keys     map[string]struct{}
	literals map[string]struct{}
	prefixes []string
}

func (u usage) uses(key string) bool {
	if _, ok := u.keys[key]; ok {
		return true
	}
	if _, ok := u.literals[key]; ok {
		return true
	}
	for _, p := range u.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func main() {
	os.Exit(run(projectRoot, localesDir, os.Stdout))
}

func run(root, locales string, out io.Writer) int {
	fmt.Fprintln(out, "🔍 Running i18n linter...")

	used, err := findUsedKeys(root)
	if err != nil {
		fmt.Fprintf(out, "❌ Error finding used keys: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "✅ Found %d unique translation keys used in source code.\n", len(used.keys))

	primaryKeys, err := loadKeysFromLocale(filepath.Join(locales, primaryLocale))
	if err != nil {
		fmt.Fprintf(out, "❌ Error loading primary locale '%s': %v\n", primaryLocale, err)
		return 1
	}
	fmt.Fprintf(out, "✅ Loaded %d keys from primary locale (%s).\n\n", len(primaryKeys), primaryLocale)

	failed := false

	fmt.Fprintln(out, "--- Checking for Undefined Keys (used in code but not in primary locale) ---")
	var undefined []string
	for key := range used.keys {
		if _, ok := primaryKeys[key]; !ok {
			undefined = append(undefined, key)
		}
	}
	failed = report(out, "Undefined", undefined) || failed

	fmt.Fprintln(out, "--- Checking for Orphaned Keys (in primary locale but not used in code) ---")
	var orphaned []string
	for key := range primaryKeys {
		if !used.uses(key) {
			orphaned = append(orphaned, key)
		}
	}
	warned := report(out, "Orphaned", orphaned)

	fmt.Fprintln(out, "--- Checking for Missing Keys (in primary locale but not in others) ---")
	localeFiles, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		fmt.Fprintf(out, "❌ Error finding locale files: %v\n", err)
		return 1
	}
	for _, file := range localeFiles {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		fmt.Fprintf(out, "Checking %s:\n", file)
		secondary, err := loadKeysFromLocale(file)
		if err != nil {
			fmt.Fprintf(out, "  - ❌ Error loading %s: %v\n", file, err)
			failed = true
			continue
		}
		var missing []string
		for key := range primaryKeys {
			if _, ok := secondary[key]; !ok {
				missing = append(missing, key)
			}
		}
		failed = report(out, "Missing", missing) || failed
	}

	fmt.Fprintln(out, "--- Linter Finished ---")
	switch {
	case failed:
		fmt.Fprintln(out, "❌ Found issues that need to be addressed.")
		return 1
	case warned:
		fmt.Fprintln(out, "⚠️  Found orphaned keys. Please consider removing them.")
	default:
		fmt.Fprintln(out, "✅ All translation files are consistent!")
	}
	return 0
}

// report prints keys under label and reports whether there were any.
func report(out io.Writer, label string, keys []string) bool {
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "  - %s: %s\n", label, key)
	}
	if len(keys) == 0 {
		fmt.Fprintln(out, "  ✨ None found.")
	}
	fmt.Fprintln(out)
	return len(keys) > 0
}

// findUsedKeys scans all non-test .go files below root, skipping tools and
// the read-only _examples tree.
func findUsedKeys(root string) (usage, error) {
	u := usage{keys: make(map[string]struct{}), literals: make(map[string]struct{})}
	seenPrefix := make(map[string]struct{})

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range keyUseRe.FindAllStringSubmatch(string(content), -1) {
			switch {
			case m[1] != "":
				u.keys[m[1]] = struct{}{}
			case m[2] != "":
				u.literals[m[2]] = struct{}{}
			}
		}
		for _, m := range prefixUseRe.FindAllStringSubmatch(string(content), -1) {
			if _, ok := seenPrefix[m[1]]; !ok {
				seenPrefix[m[1]] = struct{}{}
				u.prefixes = append(u.prefixes, m[1])
			}
		}
		return nil
	})
	sort.Strings(u.prefixes)
	return u, err
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into dot-separated keys. Flat files
// with dotted keys pass through unchanged.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
