package auth

import "context"

var _ Checker = (*LoginChecker)(nil)

type Checker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
}

// TokenHeader carries the dashboard session token.
const TokenHeader = "X-VITALY-TOKEN"
