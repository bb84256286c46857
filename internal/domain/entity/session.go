package entity

import "time"

// Session is the server-side record backing an issued session token.
// An account holds at most one live session.
type Session struct {
	ID        string
	AccountID int64
	Email     string
	Role      Role
	CreatedAt time.Time
}
