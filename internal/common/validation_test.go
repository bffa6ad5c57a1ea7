package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name        string
		recipientID string
		groupID     string
		expectError bool
	}{
		{"recipient only", "user-1", "", false},
		{"group only", "", "group-1", false},
		{"both set", "user-1", "group-1", true},
		{"neither set", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.recipientID, tt.groupID)
			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		msgType     MessageType
		mediaRef    string
		expectError bool
	}{
		{"plain text", "hello", TypeText, "", false},
		{"empty text", "   ", TypeText, "", true},
		{"unknown type", "hello", MessageType("gif"), "", true},
		{"image with media ref", "", TypeImage, "media-1", false},
		{"image without media ref", "", TypeImage, "", true},
		{"location has no media requirement", "12.97,77.59", TypeLocation, "", false},
		{"oversized content", strings.Repeat("a", maxContentLength+1), TypeText, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.content, tt.msgType, tt.mediaRef)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
