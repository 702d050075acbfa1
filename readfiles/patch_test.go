package readfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goiga/basis"
	"github.com/notargets/goiga/domain"
)

func writePatch(t *testing.T, text string) (filename string) {
	t.Helper()
	filename = filepath.Join(t.TempDir(), "patch.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(text), 0644))
	return
}

func TestReadBSplinePatch(t *testing.T) {
	fn := writePatch(t, `
Title: two element line
Dim: 1
Degrees: [1]
Breaks:
  - [0, 0.5, 1]
`)
	p, err := ReadPatchFile(fn)
	require.NoError(t, err)

	assert.Equal(t, "two element line", p.Params.Title)
	assert.Equal(t, 2, p.Grid.NumElements())
	assert.Equal(t, basis.BSplineKind, p.Space.Kind())
	assert.Equal(t, 3, p.Space.NumFunctions())
	assert.Equal(t, domain.IdentityKind, p.Geometry.Kind())
}

func TestReadNURBSPatchWithGeometry(t *testing.T) {
	fn := writePatch(t, `
Title: stretched square
Dim: 2
Degrees: [1, 1]
Breaks:
  - [0, 1]
  - [0, 1]
Weights: [1, 1, 1, 1]
ControlPoints:
  - [0, 0]
  - [0, 3]
  - [2, 0]
  - [2, 3]
`)
	p, err := ReadPatchFile(fn)
	require.NoError(t, err)

	assert.Equal(t, basis.NURBSKind, p.Space.Kind())
	assert.Equal(t, domain.IgMappingKind, p.Geometry.Kind())
	assert.Equal(t, 2, p.Geometry.RangeDim())
}

func TestReadPatchWithMultiplicities(t *testing.T) {
	fn := writePatch(t, `
Title: reduced continuity
Dim: 1
Degrees: [2]
Breaks:
  - [0, 0.5, 1]
Multiplicities:
  - [3, 2, 3]
`)
	p, err := ReadPatchFile(fn)
	require.NoError(t, err)
	// repeated interior knot adds one function over the open vector
	assert.Equal(t, 5, p.Space.NumFunctions())
}

func TestMalformedPatches(t *testing.T) {
	cases := []struct {
		name, text, want string
	}{
		{
			"dim mismatch",
			"Title: t\nDim: 2\nDegrees: [1]\nBreaks:\n  - [0, 1]\n  - [0, 1]\n",
			"declared dim 2 but 1 degrees given",
		},
		{
			"breaks mismatch",
			"Title: t\nDim: 2\nDegrees: [1, 1]\nBreaks:\n  - [0, 1]\n",
			"break sequences given",
		},
		{
			"control point count",
			"Title: t\nDim: 1\nDegrees: [1]\nBreaks:\n  - [0, 1]\nControlPoints:\n  - [0]\n",
			"2 functions but 1 control points",
		},
		{
			"ragged control points",
			"Title: t\nDim: 1\nDegrees: [1]\nBreaks:\n  - [0, 1]\nControlPoints:\n  - [0, 0]\n  - [1]\n",
			"control point 1 has 1 coordinates",
		},
		{
			"non-increasing breaks",
			"Title: t\nDim: 1\nDegrees: [1]\nBreaks:\n  - [0, 0, 1]\n",
			"strictly increasing",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fn := writePatch(t, tc.text)
			_, err := ReadPatchFile(fn)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	_, err := ReadPatchFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read patch file")
}
