// Package middleware provides composable wrappers around a session.Store,
// adding behavior such as encryption at rest or operation logging without the
// store implementations knowing about it.
package middleware

import "github.com/aretw0/espalier/pkg/session"

// Middleware allows wrapping a session.Store to add behavior.
type Middleware func(session.Store) session.Store
