package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIntoChunks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"spaces kept", "a  contract is binding", []string{"a  ", "contract ", "is ", "binding"}},
		{"indented list", "3. Key Terms:\n   - Payment terms\n   - Duration", []string{
			"3. ", "Key ", "Terms:\n   ", "- ", "Payment ", "terms\n   ", "- ", "Duration",
		}},
		{"leading whitespace", "\n  Risk: high\n", []string{"\n  ", "Risk: ", "high\n"}},
		{"only whitespace", " \n ", []string{" \n "}},
		{"multibyte", "§ 1 Vertragsgegenstand – Überblick", []string{"§ ", "1 ", "Vertragsgegenstand ", "– ", "Überblick"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitIntoChunks(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, strings.Join(got, ""))
		})
	}
}
