// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points HOME at a temp dir so config discovery and bootstrap
// never touch the developer's real ~/.config/vitrine.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestRootCommand_Help(t *testing.T) {
	isolateHome(t)

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})

	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "vitrine")
	assert.Contains(t, buf.String(), "start")
	assert.Contains(t, buf.String(), "index")
	assert.Contains(t, buf.String(), "secret")
	assert.Contains(t, buf.String(), "version")
}

func TestVersionCommand(t *testing.T) {
	isolateHome(t)

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"version"})

	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "vitrine")
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	isolateHome(t)

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})

	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "--config")
	assert.Contains(t, buf.String(), "--data-dir")
	assert.Contains(t, buf.String(), "--verbose")
}

func TestStartCommand_MissingConfigFile(t *testing.T) {
	isolateHome(t)

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"start", "--config", "/nonexistent/path.yaml"})

	err := root.Execute()
	assert.Error(t, err)
}
