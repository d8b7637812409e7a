// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaulMullowney/matrix-factor/ldl"
	"github.com/PaulMullowney/matrix-factor/reorder"
)

func TestDefaultMatchesDriverDefaults(t *testing.T) {
	d := Default()
	assert.Equal(t, 1.0, d.Fill)
	assert.Equal(t, 0.001, d.Tol)
	assert.Equal(t, 1.0, d.PPTol)
	assert.Equal(t, "amd", d.Reorder)
	assert.True(t, d.Save)
	assert.False(t, d.Display)
	assert.Equal(t, -1, d.MinresIters)
}

func TestLoadOverridesBaseFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fill: 2.5\nreordering: rcm\n"), 0o644))

	opts, err := Load(path, Default())
	require.NoError(t, err)
	assert.Equal(t, 2.5, opts.Fill)
	assert.Equal(t, "rcm", opts.Reorder)
	assert.Equal(t, 0.001, opts.Tol) // untouched fields keep the base value
}

func TestLoadEmptyPathReturnsBase(t *testing.T) {
	base := Default()
	base.Filename = "a.mtx"
	opts, err := Load("", base)
	require.NoError(t, err)
	assert.Equal(t, base, opts)
}

func TestRegisterFlagsOverridesConfigValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fill: 2.5\n"), 0o644))
	opts, err := Load(path, Default())
	require.NoError(t, err)
	require.Equal(t, 2.5, opts.Fill)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, &opts)
	require.NoError(t, fs.Parse([]string{"--fill=3.0", "--pivot=bunch"}))

	assert.Equal(t, 3.0, opts.Fill)
	assert.Equal(t, "bunch", opts.Pivot)
}

func TestLDLOptionsTranslatesFields(t *testing.T) {
	opts := Default()
	opts.Pivot = "bunch"
	opts.Fill = 2.0

	got, err := opts.LDLOptions()
	require.NoError(t, err)
	assert.Equal(t, ldl.Bunch, got.Pivot)
	assert.Equal(t, 2.0, got.Fill)
}

func TestReorderSchemeParsesField(t *testing.T) {
	opts := Default()
	opts.Reorder = "none"
	got, err := opts.ReorderScheme()
	require.NoError(t, err)
	assert.Equal(t, reorder.None, got)
}

func TestValidateRejectsMissingFilename(t *testing.T) {
	err := Default().Validate()
	assert.Error(t, err)
}

func TestValidateRejectsBadPPTol(t *testing.T) {
	opts := Default()
	opts.Filename = "a.mtx"
	opts.PPTol = 1.5
	assert.Error(t, opts.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	opts := Default()
	opts.Filename = "a.mtx"
	assert.NoError(t, opts.Validate())
}
