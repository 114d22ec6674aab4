package model

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsValidID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"v4 lowercase", "3f2b8c1e-9a4d-4e6f-8b2a-1c3d5e7f9a0b", true},
		{"v4 uppercase", "3F2B8C1E-9A4D-4E6F-8B2A-1C3D5E7F9A0B", true},
		{"v1", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"v7", "01890a5d-ac96-774b-bcce-b302099a8057", true},
		{"nil uuid", "00000000-0000-0000-0000-000000000000", true},
		{"max uuid", "ffffffff-ffff-ffff-ffff-ffffffffffff", true},
		{"empty", "", false},
		{"plain word", "abc", false},
		{"version 0", "3f2b8c1e-9a4d-0e6f-8b2a-1c3d5e7f9a0b", false},
		{"version 9", "3f2b8c1e-9a4d-9e6f-8b2a-1c3d5e7f9a0b", false},
		{"ncs variant", "3f2b8c1e-9a4d-4e6f-0b2a-1c3d5e7f9a0b", false},
		{"braced", "{3f2b8c1e-9a4d-4e6f-8b2a-1c3d5e7f9a0b}", false},
		{"urn prefix", "urn:uuid:3f2b8c1e-9a4d-4e6f-8b2a-1c3d5e7f9a0b", false},
		{"no hyphens", "3f2b8c1e9a4d4e6f8b2a1c3d5e7f9a0b", false},
		{"misplaced hyphen", "3f2b8c1e9-a4d-4e6f-8b2a-1c3d5e7f9a0b", false},
		{"non hex", "3f2b8c1e-9a4d-4e6f-8b2a-1c3d5e7f9a0z", false},
		{"trailing space", "3f2b8c1e-9a4d-4e6f-8b2a-1c3d5e7f9a0b ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidID(tt.input))
		})
	}
}

func TestNewProject_GeneratesValidUniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		p := NewProject("t", "o")
		assert.True(t, IsValidID(p.ID), p.ID)
		assert.Equal(t, uuid.Version(4), uuid.MustParse(p.ID).Version())
		assert.Equal(t, strings.ToLower(p.ID), p.ID)
		_, dup := seen[p.ID]
		assert.False(t, dup)
		seen[p.ID] = struct{}{}
	}
}

func TestProject_Replaced(t *testing.T) {
	p := NewProject("React", "Alice")
	r := p.Replaced("Vue", "Bob")
	assert.Equal(t, p.ID, r.ID)
	assert.Equal(t, "Vue", r.Title)
	assert.Equal(t, "Bob", r.Owner)
	assert.Equal(t, "React", p.Title)
}
