package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarkdownJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json untouched", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}  \n", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdownJSON(tt.input))
		})
	}
}

func TestParseSpend(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"$2k", 2000},
		{"$5,000", 5000},
		{"around 2000", 2000},
		{"20K all up", 20000},
		{"1,500.50", 1500},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseSpend(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}

	assert.Nil(t, parseSpend(""))
	assert.Nil(t, parseSpend("no budget discussed"))
}

func TestClientCodeFromJobNumber(t *testing.T) {
	assert.Equal(t, "TOW", clientCodeFromJobNumber("TOW 091"))
	assert.Equal(t, "ONE", clientCodeFromJobNumber("ONE 003"))
	assert.Equal(t, "SKY", clientCodeFromJobNumber("SKY018"))
	assert.Equal(t, "TOW", clientCodeFromJobNumber("TOW"))
}
