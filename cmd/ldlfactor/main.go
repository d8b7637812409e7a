// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ldlfactor loads a symmetric or skew-symmetric matrix in Matrix
// Market format, equilibrates and reorders it, computes an incomplete
// LDL^T factorization, and optionally preconditions a MINRES solve against
// a right-hand side.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/PaulMullowney/matrix-factor/config"
	"github.com/PaulMullowney/matrix-factor/equilibrate"
	"github.com/PaulMullowney/matrix-factor/ldl"
	"github.com/PaulMullowney/matrix-factor/minres"
	"github.com/PaulMullowney/matrix-factor/mtxio"
	"github.com/PaulMullowney/matrix-factor/reorder"
	"github.com/PaulMullowney/matrix-factor/symsparse"
)

var configFile string

func main() {
	opts := config.Default()

	root := &cobra.Command{
		Use:   "ldlfactor",
		Short: "Performs an incomplete LDL factorization of a given matrix.",
		Long: "Performs an incomplete LDL factorization of a given matrix.\n" +
			"Sample usage:\n" +
			"\tldlfactor --filename=test_matrices/testmat1.mtx --fill=2.0 --display=true --save=false",
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]string{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = f.Value.String() })
			merged, err := config.Load(configFile, opts)
			if err != nil {
				return err
			}
			opts = merged
			// Flags given on the command line take precedence over the file.
			for name, v := range changed {
				if err := cmd.Flags().Set(name, v); err != nil {
					return err
				}
			}
			return run(opts)
		},
	}
	root.Flags().StringVar(&configFile, "config", "", "YAML file of option defaults; flags override its values")
	config.RegisterFlags(root.Flags(), &opts)

	if err := root.Execute(); err != nil {
		code := 1
		var exitErr errExitCode
		if errors.As(err, &exitErr) {
			code = exitErr.code
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

func run(opts config.Options) error {
	if opts.Filename == "" {
		fmt.Fprintln(os.Stderr, "No file specified! Type ldlfactor --help for a description of the program parameters.")
		return nil
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	a, err := mtxio.LoadMatrix(opts.Filename)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	fmt.Printf("Load succeeded. File %s was loaded.\n", opts.Filename)
	fmt.Printf("A is %d by %d with %d non-zeros.\n", a.N, a.N, nnz(a.ColIdx))
	orig := cloneMatrix(a)

	var rhs []float64
	solving := opts.MinresIters >= 0 && !opts.Inplace
	if solving {
		if opts.RHSFile != "" {
			rhs, err = mtxio.LoadVector(opts.RHSFile)
			if err != nil {
				return fmt.Errorf("reading rhs: %w", err)
			}
		} else {
			rhs = make([]float64, a.N)
			for i := range rhs {
				rhs[i] = 1
			}
		}
		if len(rhs) != a.N {
			fmt.Println("The right hand side dimensions do not match the dimensions of A.")
			return errExitCode{1}
		}
		fmt.Printf("Right hand side has %d entries.\n", len(rhs))
	}

	total := time.Now()

	step := time.Now()
	var scale []float64
	if opts.Equil {
		scale = equilibrate.Scale(a)
	} else {
		scale = make([]float64, a.N)
		for i := range scale {
			scale[i] = 1
		}
	}
	fmt.Printf("  Equilibration:                %.3f seconds.\n", time.Since(step).Seconds())

	scheme, err := opts.ReorderScheme()
	if err != nil {
		return err
	}
	step = time.Now()
	perm, err := reorder.Permute(a, scheme)
	if err != nil {
		return fmt.Errorf("reordering failed: %w", err)
	}
	fmt.Printf("  %s:                          %.3f seconds.\n", scheme, time.Since(step).Seconds())

	ldlOpts, err := opts.LDLOptions()
	if err != nil {
		return err
	}
	ldlOpts.Logger = logger

	step = time.Now()
	fac, err := ldl.Factorize(a, perm, ldlOpts)
	if err != nil {
		return fmt.Errorf("factorization failed: %w", err)
	}
	fmt.Printf("  Factorization (%s pivoting):  %.3f seconds.\n", ldlOpts.Pivot, time.Since(step).Seconds())
	fmt.Printf("Total time:     %.3f seconds.\n", time.Since(total).Seconds())
	fmt.Printf("L is %d by %d with %d non-zeros.\n", fac.N, fac.N, nnz(fac.L.ColIdx))

	if solving {
		precon := fac.Preconditioner(scale)
		mv := minres.MatVecFunc(func(dst, src []float64) {
			matVec(orig, src, dst)
		})
		fmt.Println()
		fmt.Println("Solving matrix with MINRES...")
		solveStart := time.Now()
		res, err := minres.Solve(mv, rhs, precon, minres.Settings{
			Tolerance:     opts.MinresTol,
			MaxIterations: opts.MinresIters,
		})
		if err != nil {
			if _, ok := err.(*minres.ErrIterationLimit); !ok {
				return fmt.Errorf("solve failed: %w", err)
			}
		}
		fmt.Printf("MINRES took %d iterations and got down to relative residual %e.\n", res.Stats.Iterations, res.Stats.ResidualNorm)
		fmt.Printf("Solve time:             %.3f seconds.\n", time.Since(solveStart).Seconds())

		if opts.Save {
			if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
				return err
			}
			solPath := filepath.Join(opts.OutputDir, "outsol.mtx")
			if err := mtxio.WriteVector(solPath, res.X); err != nil {
				return err
			}
			fmt.Printf("\nSolution saved to %s.\n", solPath)
		}
	}

	if opts.Save {
		if err := saveFactors(opts.OutputDir, orig, a, fac, scale, perm); err != nil {
			return err
		}
	}

	if opts.Display {
		displayFactors(a, fac)
		fmt.Println()
	}

	fmt.Print("Factorization Complete. ")
	if opts.Save {
		fmt.Printf("All output written to %s directory.", opts.OutputDir)
	}
	fmt.Println()
	return nil
}

type errExitCode struct{ code int }

func (e errExitCode) Error() string { return fmt.Sprintf("exit code %d", e.code) }

func nnz(colIdx [][]int) int {
	n := 0
	for _, c := range colIdx {
		n += len(c)
	}
	return n
}

// cloneMatrix deep-copies a's stored lower triangle into a fresh Matrix,
// used to keep the as-loaded matrix around for output and for MINRES's
// matrix-vector product after a is overwritten in place by equilibration
// and reordering.
func cloneMatrix(a *symsparse.Matrix) *symsparse.Matrix {
	out := symsparse.New(a.N, a.S)
	for j := 0; j < a.N; j++ {
		for p, i := range a.ColIdx[j] {
			out.Append(i, j, a.ColVal[j][p])
		}
	}
	return out
}

// matVec applies a, in its own stored (lower-triangle-only) representation,
// to src.
func matVec(a *symsparse.Matrix, src, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	sign := float64(a.S)
	for j := 0; j < a.N; j++ {
		for p, i := range a.ColIdx[j] {
			v := a.ColVal[j][p]
			dst[i] += v * src[j]
			if i != j {
				dst[j] += sign * v * src[i]
			}
		}
	}
}

// saveFactors writes the six matrices the original driver produces:
// outA (as loaded), outB (equilibrated and reordered), outL, outD, outS,
// and outP.
func saveFactors(dir string, orig, b *symsparse.Matrix, fac *ldl.Factorization, scale []float64, perm []int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fmt.Println("Saving matrices...")
	if err := mtxio.WriteMatrix(filepath.Join(dir, "outA.mtx"), orig); err != nil {
		return err
	}
	if err := mtxio.WriteMatrix(filepath.Join(dir, "outB.mtx"), b); err != nil {
		return err
	}
	if err := mtxio.WriteLStore(filepath.Join(dir, "outL.mtx"), fac.L); err != nil {
		return err
	}
	if err := mtxio.WriteBlockDiagonal(filepath.Join(dir, "outD.mtx"), fac.N, fac.D); err != nil {
		return err
	}
	if err := mtxio.WriteVector(filepath.Join(dir, "outS.mtx"), scale); err != nil {
		return err
	}
	if err := mtxio.WritePermutation(filepath.Join(dir, "outP.mtx"), perm); err != nil {
		return err
	}
	fmt.Println("Save complete.")
	return nil
}

// displayFactors prints a human-readable dump of L and D to stdout.
func displayFactors(a *symsparse.Matrix, fac *ldl.Factorization) {
	fmt.Println("L:")
	for j := 0; j < fac.N; j++ {
		fmt.Printf("  col %d: diag=1", j)
		for p, i := range fac.L.ColIdx[j] {
			fmt.Printf(" (%d,%g)", i, fac.L.ColVal[j][p])
		}
		fmt.Println()
	}
	fmt.Println("D:")
	for _, blk := range fac.D {
		if blk.Size == 1 {
			fmt.Printf("  [%d] %g\n", blk.Start, blk.D11)
		} else {
			fmt.Printf("  [%d,%d] %g %g / %g %g\n", blk.Start, blk.Start+1, blk.D11, blk.D21, blk.D21, blk.D22)
		}
	}
}
