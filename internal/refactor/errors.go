// Package refactor computes the edits of the pipeline rewrite and the
// variable inlining refactors. It only reads the typed tree and the source
// text; nothing here mutates or logs.
package refactor

import "errors"

// Reasons an action is not offered. Callers drop the action and keep
// serving the request.
var (
	ErrChainTooShort = errors.New("call chain has fewer than two calls")
	ErrUnrenderable  = errors.New("expression has no source rendering")
	ErrUnused        = errors.New("variable is never used")
	ErrNotInlinable  = errors.New("binding cannot be inlined")
	ErrShadowed      = errors.New("inlined value refers to a name that is rebound at the use site")
)
