// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartCommand_InvalidConfig(t *testing.T) {
	isolateHome(t)

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "vitrine.yaml", `
embeddings:
  provider: "not-a-provider"
`)

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"start", "--config", cfgPath})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embeddings.provider")
}

func TestStartCommand_StartsAndStops(t *testing.T) {
	isolateHome(t)
	withStubEmbedder(t, 4)

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "vitrine.yaml", `
networking:
  listen: "127.0.0.1:0"
embeddings:
  provider: openai
  dimensions: 4
providers:
  openai:
    api_key: "test-key"
`)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{
		"start",
		"--config", cfgPath,
		"--data-dir", filepath.Join(dir, "data"),
	})

	// The server runs until the context expires, then shuts down cleanly.
	err := root.ExecuteContext(ctx)
	assert.NoError(t, err)
}
