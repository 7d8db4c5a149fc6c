package party

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{"Democratic", Democratic},
		{"democrat", Democratic},
		{" D ", Democratic},
		{"Republican", Republican},
		{"REPUBLICAN", Republican},
		{"r", Republican},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "Independent", "Libertarian", "Dem"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrUnknownLabel, in)
	}
}

func TestLabelString(t *testing.T) {
	assert.Equal(t, "Democratic", Democratic.String())
	assert.Equal(t, "Republican", Republican.String())
	assert.Equal(t, "Label(7)", Label(7).String())
}

func TestAllIsDeclarationOrder(t *testing.T) {
	all := All()
	require.Len(t, all, NumLabels)
	for i, l := range all {
		assert.Equal(t, Label(i), l)
		assert.True(t, l.Valid())
	}
	assert.False(t, Label(NumLabels).Valid())
}
