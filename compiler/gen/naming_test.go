package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Person", "Person"},
		{"person", "Person"},
		{"WORKS_AT", "WorksAt"},
		{"KNOWS", "Knows"},
		{"has-owner", "HasOwner"},
		{"Blog Post", "BlogPost"},
		{"2FA", "Kind2fa"},
		{"_", "Kind"},
		{"", "Kind"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Accessor(tt.input))
		})
	}
}

func TestAccessors(t *testing.T) {
	t.Run("distinct", func(t *testing.T) {
		names := Accessors([]string{"Person", "Company", "WORKS_AT"})
		assert.Equal(t, map[string]string{
			"Person":   "Person",
			"Company":  "Company",
			"WORKS_AT": "WorksAt",
		}, names)
	})

	t.Run("case collision", func(t *testing.T) {
		names := Accessors([]string{"Knows", "KNOWS"})
		assert.Equal(t, "Knows", names["KNOWS"])
		assert.Equal(t, "Knows2", names["Knows"])
	})

	t.Run("punctuation collision", func(t *testing.T) {
		names := Accessors([]string{"works_at", "WORKS_AT", "works-at"})
		assert.Equal(t, "WorksAt", names["WORKS_AT"])
		assert.Equal(t, "WorksAt2", names["works-at"])
		assert.Equal(t, "WorksAt3", names["works_at"])
	})

	t.Run("order independent", func(t *testing.T) {
		a := Accessors([]string{"KNOWS", "Knows", "knows"})
		b := Accessors([]string{"knows", "Knows", "KNOWS"})
		assert.Equal(t, a, b)
	})
}
