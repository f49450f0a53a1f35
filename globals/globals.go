package globals

import (
	"context"
)

var (
	// JwtSecret is populated from config at startup, before any request is served.
	JwtSecret = []byte("change_me")
)

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()
