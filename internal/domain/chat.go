package domain

const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatMessage is one turn of the assistant conversation. Turns live only in
// the caller's session, never in the store.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
