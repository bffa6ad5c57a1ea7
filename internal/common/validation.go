package common

import (
	"strings"
)

const maxContentLength = 4096

// ValidateContent checks a message body against its declared type.
func ValidateContent(content string, msgType MessageType, mediaRef string) error {
	if !msgType.Valid() {
		return &ValidationError{Field: "type", Reason: "unknown message type"}
	}

	if msgType.RequiresMediaRef() && mediaRef == "" {
		return &ValidationError{Field: "media_ref", Reason: "required for " + msgType.String() + " messages"}
	}

	if msgType == TypeText && strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Reason: "text message cannot be empty"}
	}

	if len(content) > maxContentLength {
		return &ValidationError{Field: "content", Reason: "content too long"}
	}

	return nil
}

// ValidateTarget enforces that exactly one of recipient/group is set.
func ValidateTarget(recipientID, groupID string) error {
	if recipientID == "" && groupID == "" {
		return &ValidationError{Field: "target", Reason: "either recipient_id or group_id is required"}
	}
	if recipientID != "" && groupID != "" {
		return &ValidationError{Field: "target", Reason: "recipient_id and group_id are mutually exclusive"}
	}
	return nil
}
