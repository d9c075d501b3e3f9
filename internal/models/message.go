package models

type Author string

const (
	AuthorClient    Author = "Client"
	AuthorCollector Author = "Collector"
	AuthorSystem    Author = "System"
)

// CaseMessage is one entry in the conversation attached to a case. Messages
// are immutable once stored.
type CaseMessage struct {
	ID        string `json:"id"`
	CaseID    string `json:"caseId"`
	ClientID  string `json:"clientId,omitempty"`
	Author    Author `json:"author"`
	CreatedAt string `json:"createdAt"`
	Body      string `json:"body"`
	Read      bool   `json:"read,omitempty"`
}

// ParseAuthor maps free text onto a known author, defaulting to System.
func ParseAuthor(s string) Author {
	switch Author(s) {
	case AuthorClient, AuthorCollector, AuthorSystem:
		return Author(s)
	}
	return AuthorSystem
}
