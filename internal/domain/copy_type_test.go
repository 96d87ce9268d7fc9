package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCopyType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    CopyType
		wantErr bool
	}{
		{name: "exact", input: "comparison", want: CopyTypeComparison},
		{name: "mixed case and spaces", input: "  Boundary ", want: CopyTypeBoundary},
		{name: "unknown", input: "haiku", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCopyType(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCopyType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCopyType_RequiresPrice(t *testing.T) {
	t.Parallel()

	want := map[CopyType]bool{
		CopyTypeDefinition: false,
		CopyTypeProblem:    false,
		CopyTypeComparison: true,
		CopyTypeMechanism:  false,
		CopyTypeBoundary:   true,
	}
	for _, ct := range AllCopyTypes() {
		assert.Equal(t, want[ct], ct.RequiresPrice(), "copy type %s", ct)
	}
}

func TestAllCopyTypes_ReturnsCopy(t *testing.T) {
	t.Parallel()

	types := AllCopyTypes()
	require.Len(t, types, CopyTypeCount)
	types[0] = "mutated"

	assert.Equal(t, CopyTypeDefinition, AllCopyTypes()[0])
}

func TestCopyType_Title(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Mechanism", CopyTypeMechanism.Title())
	assert.Equal(t, "", CopyType("").Title())
}
