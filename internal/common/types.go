package common

// MessageType classifies the content a message carries.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeVideo    MessageType = "video"
	TypeAudio    MessageType = "audio"
	TypeDocument MessageType = "document"
	TypeLocation MessageType = "location"
	TypeContact  MessageType = "contact"
	TypeSticker  MessageType = "sticker"
)

func (t MessageType) String() string {
	return string(t)
}

func (t MessageType) Valid() bool {
	switch t {
	case TypeText, TypeImage, TypeVideo, TypeAudio,
		TypeDocument, TypeLocation, TypeContact, TypeSticker:
		return true
	}
	return false
}

// RequiresMediaRef reports whether messages of this type must carry a media reference.
func (t MessageType) RequiresMediaRef() bool {
	switch t {
	case TypeImage, TypeVideo, TypeAudio, TypeDocument, TypeSticker:
		return true
	}
	return false
}

// MessageStatus is the delivery state of a message.
type MessageStatus string

const (
	StatusSent      MessageStatus = "SENT"
	StatusDelivered MessageStatus = "DELIVERED"
	StatusRead      MessageStatus = "READ"
	StatusFailed    MessageStatus = "FAILED"
)

func (s MessageStatus) String() string {
	return string(s)
}

func (s MessageStatus) Valid() bool {
	switch s {
	case StatusSent, StatusDelivered, StatusRead, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further forward transition exists from s.
func (s MessageStatus) Terminal() bool {
	return s == StatusRead || s == StatusFailed
}

// rank orders the forward delivery path. FAILED sits outside the path.
func (s MessageStatus) rank() int {
	switch s {
	case StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusRead:
		return 2
	}
	return -1
}

// CanTransition reports whether moving from s to next is a legal forward
// transition. Regressions and repeats return false so callers can treat
// them as idempotent no-ops rather than errors.
func (s MessageStatus) CanTransition(next MessageStatus) bool {
	if s == next {
		return false
	}
	if next == StatusFailed {
		return !s.Terminal()
	}
	if s == StatusFailed {
		return false
	}
	return next.rank() > s.rank()
}

// GroupRole is a member's role inside a group, as reported by the roster.
type GroupRole string

const (
	RoleMember    GroupRole = "member"
	RoleModerator GroupRole = "moderator"
	RoleAdmin     GroupRole = "admin"
)

// CanPin reports whether the role may pin or unpin group messages.
func (r GroupRole) CanPin() bool {
	return r == RoleAdmin || r == RoleModerator
}
