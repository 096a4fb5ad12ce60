package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

const codesFile = `package fragment

import "github.com/gear6io/hivebridge/pkg/errors"

var (
	FragmentMalformed = errors.MustNewCode("fragment.malformed_metadata")
	FragmentUnused    = errors.MustNewCode("fragment.unused")
)
`

func TestCheckerCountsUses(t *testing.T) {
	root := writeTree(t, map[string]string{
		"server/fragment/errors.go": codesFile,
		"server/fragment/codec.go": `package fragment

import "github.com/gear6io/hivebridge/pkg/errors"

func decode() error {
	return errors.New(FragmentMalformed, "bad", nil)
}
`,
		"cli/decode.go": `package cli

import (
	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/fragment"
)

func check(err error) bool {
	return errors.HasCode(err, fragment.FragmentMalformed)
}
`,
	})

	c := NewChecker(defaultConfig())
	require.NoError(t, c.CheckDirectory(root))

	codes := c.Codes()
	require.Len(t, codes, 2)
	assert.Equal(t, "FragmentMalformed", codes[0].Name)
	assert.Equal(t, "fragment.malformed_metadata", codes[0].Value)
	assert.Equal(t, 2, codes[0].Uses)

	unused := c.Unused()
	require.Len(t, unused, 1)
	assert.Equal(t, "FragmentUnused", unused[0].Name)
	assert.Empty(t, c.Forbidden)
	assert.Empty(t, c.Invalid)

	var out bytes.Buffer
	assert.True(t, c.Report(&out), "unused codes only warn by default")
	assert.Contains(t, out.String(), "FragmentUnused")
}

func TestCheckerInvalidAndDuplicateCodes(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a/errors.go": `package a

import "github.com/gear6io/hivebridge/pkg/errors"

var (
	BadFormat = errors.MustNewCode("NoDots")
	BadWord   = errors.MustNewCode("a.parse_error")
	First     = errors.MustNewCode("a.same")
)
`,
		"b/errors.go": `package b

import errs "github.com/gear6io/hivebridge/pkg/errors"

var Second = errs.MustNewCode("a.same")
`,
	})

	c := NewChecker(defaultConfig())
	require.NoError(t, c.CheckDirectory(root))

	assert.Len(t, c.Invalid, 2)
	dups := c.Duplicates()
	require.Contains(t, dups, "a.same")
	assert.Len(t, dups["a.same"], 2)

	var out bytes.Buffer
	assert.False(t, c.Report(&out))
	assert.Contains(t, out.String(), "Duplicate error codes")
}

func TestCheckerForbiddenCalls(t *testing.T) {
	root := writeTree(t, map[string]string{
		"server/x/x.go": `package x

import (
	"errors"
	"fmt"
)

func a() error { return fmt.Errorf("a %d", 1) }
func b() error { return errors.New("b") }
`,
		"server/x/x_test.go": `package x

import "errors"

var errTest = errors.New("allowed in tests")
`,
		"pkg/errors/wrap.go": `package errors

import "fmt"

func wrap() error { return fmt.Errorf("allowed here") }
`,
		"server/y/y.go": `package y

import "github.com/gear6io/hivebridge/pkg/errors"

func c() error { return errors.New(errors.CommonInternal, "fine", nil) }
`,
	})

	c := NewChecker(defaultConfig())
	require.NoError(t, c.CheckDirectory(root))

	require.Len(t, c.Forbidden, 2)
	for _, f := range c.Forbidden {
		assert.Equal(t, "server/x/x.go", f.File)
	}

	var out bytes.Buffer
	assert.False(t, c.Report(&out))
	assert.Contains(t, out.String(), "fmt.Errorf bypasses pkg/errors")
}

func TestCheckerExcludePaths(t *testing.T) {
	root := writeTree(t, map[string]string{
		"_examples/other/x.go": `package other

import "fmt"

func a() error { return fmt.Errorf("ignored") }
`,
		"vendor/lib/lib.go": `this is not go`,
	})

	c := NewChecker(defaultConfig())
	require.NoError(t, c.CheckDirectory(root))
	assert.Empty(t, c.Forbidden)
}

func TestCheckerParseFailure(t *testing.T) {
	root := writeTree(t, map[string]string{"broken.go": "package"})

	err := NewChecker(defaultConfig()).CheckDirectory(root)
	assert.True(t, errors.HasCode(err, CheckerParseFailed))
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.ExitOnForbidden)

	path := filepath.Join(t.TempDir(), ".errorcode.yml")
	require.NoError(t, os.WriteFile(path, []byte("exit_on_unused: true\nallowed_paths: [cli/]\n"), 0644))
	cfg, err = loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.ExitOnUnused)
	assert.Equal(t, []string{"cli/"}, cfg.AllowedPaths)
	assert.NotEmpty(t, cfg.ForbiddenCalls)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.True(t, errors.HasCode(err, CheckerConfigReadFailed))
}
