package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRestricted(t *testing.T) {
	tests := []struct {
		name      string
		harmful   bool
		tools     []string
		materials []string
		want      bool
	}{
		{"nothing set", false, nil, nil, false},
		{"empty slices", false, []string{}, []string{}, false},
		{"harmful flag", true, nil, nil, true},
		{"tool tag", false, []string{"knife"}, nil, true},
		{"material tag", false, nil, []string{"acid"}, true},
		{"everything", true, []string{"saw"}, []string{"lye"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRestricted(tt.harmful, tt.tools, tt.materials))

			item := ContentItem{HarmfulFlag: tt.harmful, ToolCategories: tt.tools, MaterialCategories: tt.materials}
			assert.Equal(t, tt.want, item.Restricted())
		})
	}
}
