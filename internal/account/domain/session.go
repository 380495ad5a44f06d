package domain

import (
	"slices"
	"time"
)

// Session is the identity facts of an authenticated caller.
type Session struct {
	ID        string
	UserID    string
	Email     string
	Methods   []Provider
	Metadata  Metadata
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s *Session) HasMethod(p Provider) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Methods, p)
}

// IssuedSession is a session together with its bearer token.
type IssuedSession struct {
	Session Session
	Token   string
}
