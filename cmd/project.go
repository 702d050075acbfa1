/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/goiga/assemble"
	"github.com/notargets/goiga/readfiles"
)

type ProjectModel struct {
	PatchFile  string
	Field      string
	QuadPoints int
	PlotPoints int
	Profile    bool
}

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "L2-project a test field onto the spline space of a patch file",
	Long: `Reads a YAML patch file, builds the spline space it declares, assembles
and solves the L2 projection of a test field onto it and prints the
projected field sampled on a uniform lattice.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			pm  = &ProjectModel{}
		)
		if pm.PatchFile, err = cmd.Flags().GetString("patchFile"); err != nil {
			panic(err)
		}
		pm.Field, _ = cmd.Flags().GetString("field")
		pm.QuadPoints, _ = cmd.Flags().GetInt("quadPoints")
		pm.PlotPoints, _ = cmd.Flags().GetInt("plotPoints")
		pm.Profile, _ = cmd.Flags().GetBool("profile")
		if len(pm.PatchFile) == 0 {
			fmt.Printf("error: must supply a patch file (-F, --patchFile) in YAML format\n")
			os.Exit(1)
		}
		RunProject(pm)
	},
}

func RunProject(pm *ProjectModel) {
	if pm.Profile {
		defer profile.Start().Stop()
	}
	patch, err := readfiles.ReadPatchFile(pm.PatchFile)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	patch.Params.Print()
	fmt.Printf("[%s]\t\t\t= Space kind\n", patch.Space.Kind())
	fmt.Printf("[%d]\t\t\t= Global basis functions\n", patch.Space.NumFunctions())
	fmt.Printf("[%d]\t\t\t= Elements\n", patch.Grid.NumElements())

	f := fieldByName(pm.Field, patch.Grid.Dim())

	p, err := assemble.NewL2Projector(patch.Space, pm.QuadPoints)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	proj, err := p.Project(f)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}

	pts, vals := proj.EvaluateOnGrid(pm.PlotPoints)
	nr, nc := pts.Dims()
	fmt.Printf("projected field %q sampled at %d points:\n", pm.Field, nr)
	for i := 0; i < nr; i++ {
		for k := 0; k < nc; k++ {
			fmt.Printf("%10.6f ", pts.At(i, k))
		}
		fmt.Printf("-> %10.6f\n", vals.AtVec(i))
	}
}

func fieldByName(name string, dim int) func(x []float64) float64 {
	switch name {
	case "sum":
		return func(x []float64) (v float64) {
			for _, xk := range x {
				v += xk
			}
			return
		}
	case "sine":
		return func(x []float64) (v float64) {
			v = 1
			for _, xk := range x {
				v *= math.Sin(math.Pi * xk)
			}
			return
		}
	default:
		fmt.Printf("error: unknown field %q, available: sum, sine\n", name)
		os.Exit(1)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.Flags().StringP("patchFile", "F", "", "YAML patch file describing the spline space")
	projectCmd.Flags().StringP("field", "f", "sine", "test field to project: sum, sine")
	projectCmd.Flags().IntP("quadPoints", "q", 4, "Gauss points per direction for the assembly")
	projectCmd.Flags().IntP("plotPoints", "n", 5, "sample points per direction and element for output")
	projectCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the run")
}
