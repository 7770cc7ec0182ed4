package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidateID 测试 ID 格式校验
func TestValidateID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want error
	}{
		{"uuid id", "schedule-6f1c2b1e-8d0a-4c55-9a43-0c1f1f0f5b2a", nil},
		{"fixture id", "block-asi-identification", nil},
		{"empty", "", ErrEmptyID},
		{"path traversal", "../etc", ErrInvalidIDFormat},
		{"space", "block 1", ErrInvalidIDFormat},
		{"too long", strings.Repeat("a", 65), ErrIDTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

// TestValidateText 测试文本校验
func TestValidateText(t *testing.T) {
	assert.NoError(t, ValidateText("", MaxNameLength))
	assert.NoError(t, ValidateText("Annual Survey of Industries 2023-24", MaxNameLength))
	assert.NoError(t, ValidateText("工业年度调查", 6))
	assert.ErrorIs(t, ValidateText("工业年度调查表", 6), ErrTextTooLong)
	assert.ErrorIs(t, ValidateText(`<script>alert(1)</script>`, 0), ErrDangerousChars)
	assert.ErrorIs(t, ValidateText("bell\a", 0), ErrDangerousChars)
	assert.NoError(t, ValidateText("line1\nline2", 0))
}
