// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabledFor(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck

	t.Setenv(NoColor, "")
	t.Setenv(ForceColor, "")
	assert.False(t, EnabledFor(f), "a regular file is not a terminal")

	t.Setenv(NoColor, "1")
	assert.False(t, EnabledFor(f))

	t.Setenv(ForceColor, "1")
	assert.False(t, EnabledFor(f), "NO_COLOR wins over FORCE_COLOR")

	t.Setenv(NoColor, "")
	assert.True(t, EnabledFor(f))
}

func TestPaint(t *testing.T) {
	assert.Equal(t, "\033[31mred\033[0m", Paint("red", FgRed))
	assert.Equal(t, "\033[1;92mok\033[0m", Paint("ok", Bold, FgHiGreen))
	assert.Equal(t, "plain", Paint("plain"))
}

func TestEnabledFor_NotAFile(t *testing.T) {
	buf := &bytes.Buffer{}

	t.Setenv(NoColor, "")
	t.Setenv(ForceColor, "")
	assert.False(t, EnabledFor(buf))
	assert.False(t, EnabledFor(nil))

	t.Setenv(ForceColor, "1")
	assert.True(t, EnabledFor(buf))
}
