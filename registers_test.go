package lp50xx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorOrderPermute(t *testing.T) {
	const r, g, b = 0x11, 0x22, 0x33

	tests := []struct {
		order ColorOrder
		want  [3]byte
	}{
		{RGB, [3]byte{r, g, b}},
		{GRB, [3]byte{g, r, b}},
		{BGR, [3]byte{b, g, r}},
		{RBG, [3]byte{r, b, g}},
		{GBR, [3]byte{g, b, r}},
		{BRG, [3]byte{b, r, g}},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.order.permute(r, g, b))
		})
	}
}

func TestParseColorOrder(t *testing.T) {
	for _, o := range []ColorOrder{RGB, GRB, BGR, RBG, GBR, BRG} {
		got, err := ParseColorOrder(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}

	got, err := ParseColorOrder("  grb ")
	require.NoError(t, err)
	assert.Equal(t, GRB, got)

	_, err = ParseColorOrder("RBW")
	assert.Error(t, err)
	_, err = ParseColorOrder("")
	assert.Error(t, err)
}

func TestColorOrderString(t *testing.T) {
	assert.Equal(t, "BGR", BGR.String())
	assert.Equal(t, "ColorOrder(9)", ColorOrder(9).String())
}
