package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterValues(t *testing.T) {
	assert.Equal(t, 10, letterValues['A'])
	assert.Equal(t, 12, letterValues['B'])
	assert.Equal(t, 23, letterValues['L'])
	assert.Equal(t, 34, letterValues['V'])
	assert.Equal(t, 38, letterValues['Z'])
}

func TestCheckDigit(t *testing.T) {
	d, err := CheckDigit("CSQU305438")
	require.NoError(t, err)
	assert.Equal(t, 3, d)

	_, err = CheckDigit("CSQU30543")
	assert.Error(t, err)

	_, err = CheckDigit("CSQ1305438")
	assert.Error(t, err)
}

func TestValidNumber(t *testing.T) {
	tests := []struct {
		no   string
		want bool
	}{
		{"CSQU3054383", true},
		{"CSQU3054384", false},
		{"CSQU305438", false},
		{"CSQU305438X", false},
		{"csqu3054383", false},
		{"1SQU3054383", false},
	}

	for _, tt := range tests {
		t.Run(tt.no, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidNumber(tt.no))
		})
	}
}

func TestNormalizeNumber(t *testing.T) {
	assert.Equal(t, "CSQU3054383", NormalizeNumber("csqu 305438-3"))
}
