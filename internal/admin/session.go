package admin

import "context"

// Session identifies the signed-in administrator and carries the token pair
// from the sign-in cookies.
type Session struct {
	UserID       uint
	Email        string
	AccessToken  string
	RefreshToken string
}

type sessionKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
