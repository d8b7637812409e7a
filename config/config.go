// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config collects the command-line and file-based settings that
// parameterize a factorization run: which matrix to load, the
// factorization's pivoting and drop parameters, the reordering scheme, and
// the optional MINRES solve. A YAML file supplies defaults; flags bound to
// the same struct with spf13/pflag override them, matching the override
// order of the original ldl_driver command-line flags.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/PaulMullowney/matrix-factor/ldl"
	"github.com/PaulMullowney/matrix-factor/reorder"
)

// Options holds every setting ldlfactor needs for one run.
type Options struct {
	Filename string `yaml:"filename"`

	Fill    float64 `yaml:"fill"`
	Tol     float64 `yaml:"tol"`
	PPTol   float64 `yaml:"pp_tol"`
	Pivot   string  `yaml:"pivot"`
	Reorder string  `yaml:"reordering"`
	Equil   bool    `yaml:"equil"`
	Inplace bool    `yaml:"inplace"`

	Save    bool `yaml:"save"`
	Display bool `yaml:"display"`

	MinresIters int     `yaml:"minres_iters"`
	MinresTol   float64 `yaml:"minres_tol"`
	RHSFile     string  `yaml:"rhs_file"`

	OutputDir string `yaml:"output_dir"`
}

// Default returns the option set the original driver falls back to when no
// flag and no config file value is given.
func Default() Options {
	return Options{
		Fill:        1.0,
		Tol:         0.001,
		PPTol:       1.0,
		Pivot:       "rook",
		Reorder:     "amd",
		Equil:       true,
		Inplace:     false,
		Save:        true,
		Display:     false,
		MinresIters: -1,
		MinresTol:   1e-6,
		OutputDir:   "output_matrices",
	}
}

// RegisterFlags binds every Options field to a flag on fs, seeded with
// opts' current values as defaults.
func RegisterFlags(fs *pflag.FlagSet, opts *Options) {
	fs.StringVar(&opts.Filename, "filename", opts.Filename, "matrix to factor, in Matrix Market format")
	fs.Float64Var(&opts.Fill, "fill", opts.Fill, "cap on kept entries per L column, as a multiple of nnz(A)/n")
	fs.Float64Var(&opts.Tol, "tol", opts.Tol, "relative drop tolerance applied to each assembled column")
	fs.Float64Var(&opts.PPTol, "pp_tol", opts.PPTol, "partial pivoting aggressiveness, in [0,1]; ignored when pivot=rook")
	fs.StringVar(&opts.Pivot, "pivot", opts.Pivot, "pivoting rule: bunch or rook")
	fs.StringVar(&opts.Reorder, "reordering", opts.Reorder, "fill-reducing reordering: amd, rcm, or none")
	fs.BoolVar(&opts.Equil, "equil", opts.Equil, "equilibrate the matrix in the max-norm before factoring")
	fs.BoolVar(&opts.Inplace, "inplace", opts.Inplace, "factor in place, saving memory but disabling the built-in solver")
	fs.BoolVar(&opts.Save, "save", opts.Save, "save the factors to output_dir in Matrix Market format")
	fs.BoolVar(&opts.Display, "display", opts.Display, "print a human-readable dump of the factors to stdout")
	fs.IntVar(&opts.MinresIters, "minres_iters", opts.MinresIters, "max MINRES iterations; negative disables the solver")
	fs.Float64Var(&opts.MinresTol, "minres_tol", opts.MinresTol, "relative residual tolerance for MINRES")
	fs.StringVar(&opts.RHSFile, "rhs_file", opts.RHSFile, "right-hand side to solve against, in Matrix Market format")
	fs.StringVar(&opts.OutputDir, "output_dir", opts.OutputDir, "directory saved factors are written to")
}

// Load reads a YAML config file into a copy of base, returning base
// unchanged if path is empty.
func Load(path string, base Options) (Options, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	opts := base
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return opts, nil
}

// PivotKind parses the Pivot field.
func (o Options) PivotKind() (ldl.PivotKind, error) {
	return ldl.ParsePivotKind(o.Pivot)
}

// ReorderScheme parses the Reorder field.
func (o Options) ReorderScheme() (reorder.Scheme, error) {
	return reorder.ParseScheme(o.Reorder)
}

// LDLOptions builds the ldl.Options this configuration describes.
func (o Options) LDLOptions() (ldl.Options, error) {
	pivot, err := o.PivotKind()
	if err != nil {
		return ldl.Options{}, err
	}
	opts := ldl.DefaultOptions()
	opts.Fill = o.Fill
	opts.Tol = o.Tol
	opts.PPTol = o.PPTol
	opts.Pivot = pivot
	opts.Inplace = o.Inplace
	return opts, nil
}

// Validate reports whether the option set is internally consistent enough
// to attempt a run.
func (o Options) Validate() error {
	if o.Filename == "" {
		return fmt.Errorf("config: no filename specified")
	}
	if o.Fill <= 0 {
		return fmt.Errorf("config: fill must be positive, got %g", o.Fill)
	}
	if o.Tol < 0 {
		return fmt.Errorf("config: tol must be non-negative, got %g", o.Tol)
	}
	if o.PPTol < 0 || o.PPTol > 1 {
		return fmt.Errorf("config: pp_tol must be in [0,1], got %g", o.PPTol)
	}
	if _, err := o.PivotKind(); err != nil {
		return err
	}
	if _, err := o.ReorderScheme(); err != nil {
		return err
	}
	return nil
}
