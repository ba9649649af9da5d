package ws

import (
	"time"
)

// timeLayout matches the wire format clients already parse.
const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// StatusReply is the minimal reply envelope: a status plus a human-readable
// message.
type StatusReply struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func OK(message string) StatusReply {
	return StatusReply{Status: "ok", Message: message}
}

func ErrorReply(message string) StatusReply {
	return StatusReply{Status: "error", Message: message}
}

type MessageView struct {
	ID        uint   `json:"id"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type MessagesReply struct {
	Status   string        `json:"status"`
	Messages []MessageView `json:"messages"`
}

type ReadStatusView struct {
	MessageID uint   `json:"message_id"`
	Reader    string `json:"reader"`
	ReadAt    string `json:"read_at"`
}

type ReadStatusReply struct {
	Status     string           `json:"status"`
	ReadStatus []ReadStatusView `json:"read_status"`
}

type GroupView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	CreatedAt   string `json:"created_at"`
	MemberCount int64  `json:"member_count"`
}

type GroupsReply struct {
	Status string      `json:"status"`
	Groups []GroupView `json:"groups"`
}

type MemberView struct {
	Username string `json:"username"`
	JoinedAt string `json:"joined_at"`
	IsAdmin  bool   `json:"is_admin"`
}

type MembersReply struct {
	Status  string       `json:"status"`
	Members []MemberView `json:"members"`
}

type ReadByView struct {
	Username string `json:"username"`
	ReadAt   string `json:"read_at"`
}

type GroupReadStatusReply struct {
	Status    string       `json:"status"`
	ReadBy    []ReadByView `json:"read_by"`
	NotReadBy []string     `json:"not_read_by"`
}
