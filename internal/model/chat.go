package model

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage 是一条发往中继的角色消息。
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
