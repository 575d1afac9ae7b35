// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFlattenYAML_NestedAndFlat(t *testing.T) {
	keys := make(map[string]struct{})
	flattenYAML("", map[string]interface{}{
		"top":       map[string]interface{}{"sub": "value"},
		"flat.key":  "v",
		"list.item": "x",
	}, keys)
	assert.Contains(t, keys, "top.sub")
	assert.Contains(t, keys, "flat.key")
	assert.Contains(t, keys, "list.item")
}

func TestFindUsedKeys_CallsLiteralsAndPrefixes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sub", "a.go"), `package foo
func f(){
	_ = i18n.T("my.key")
	lookup("get.prompt_id")
	_ = i18n.T("shell.menu." + name)
}`)
	writeFile(t, filepath.Join(dir, "sub", "a_test.go"), `package foo
var _ = i18n.T("only.in_tests")`)
	writeFile(t, filepath.Join(dir, "tools", "x.go"), `package x
var _ = i18n.T("tool.key")`)

	used, err := findUsedKeys(dir)
	require.NoError(t, err)
	assert.Contains(t, used.keys, "my.key")
	assert.Contains(t, used.literals, "get.prompt_id")
	assert.True(t, used.uses("get.prompt_id"))
	assert.NotContains(t, used.keys, "only.in_tests")
	assert.NotContains(t, used.keys, "tool.key")
	assert.NotContains(t, used.keys, "shell.menu.")
	assert.True(t, used.uses("shell.menu.create"))
	assert.False(t, used.uses("shell.title"))
}

func TestRun_Results(t *testing.T) {
	dir := t.TempDir()
	locales := filepath.Join(dir, "locales")
	writeFile(t, filepath.Join(dir, "a.go"), `package a
var _ = i18n.T("greet.hello")`)
	writeFile(t, filepath.Join(locales, "en.yaml"), "greet.hello: Hello\ngreet.bye: Bye\n")
	writeFile(t, filepath.Join(locales, "pt.yaml"), "greet.hello: Olá\ngreet.bye: Tchau\n")

	var out bytes.Buffer
	assert.Equal(t, 0, run(dir, locales, &out))
	assert.Contains(t, out.String(), "Orphaned: greet.bye")

	writeFile(t, filepath.Join(locales, "pt.yaml"), "greet.hello: Olá\n")
	out.Reset()
	assert.Equal(t, 1, run(dir, locales, &out))
	assert.Contains(t, out.String(), "Missing: greet.bye")

	writeFile(t, filepath.Join(dir, "b.go"), `package a
var _ = i18n.T("greet.unknown")`)
	writeFile(t, filepath.Join(locales, "pt.yaml"), "greet.hello: Olá\ngreet.bye: Tchau\n")
	out.Reset()
	assert.Equal(t, 1, run(dir, locales, &out))
	assert.Contains(t, out.String(), "Undefined: greet.unknown")
}
