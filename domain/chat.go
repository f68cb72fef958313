package domain

import "time"

// ChatSession is the conversational state a caller keeps between messages.
type ChatSession struct {
	ID         string    `json:"id"`
	UserName   string    `json:"userName,omitempty"`
	LastIntent string    `json:"lastIntent,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Reply struct {
	HTML          string   `json:"html"`
	Suggestions   []string `json:"suggestions"`
	MatchedIntent string   `json:"matchedIntent,omitempty"`
}
