// Package audit stamps authorship fields on documents from the request user.
package audit

import (
	"context"

	appctx "airsolutions/internal/core/context"
)

// Authored is implemented by documents that record who created and edited them.
type Authored interface {
	SetCreatedBy(string)
	SetUpdatedBy(string)
}

// StampCreated sets CreatedBy and UpdatedBy from the authenticated user.
// Use in BeforeCreate hooks. No-op without a user in context.
func StampCreated[T Authored](ctx context.Context, doc T) error {
	username := appctx.GetUsername(ctx)
	if username == "" {
		return nil
	}
	doc.SetCreatedBy(username)
	doc.SetUpdatedBy(username)
	return nil
}

// StampUpdated sets only UpdatedBy. Use in BeforeUpdate hooks.
func StampUpdated[T Authored](ctx context.Context, doc T) error {
	username := appctx.GetUsername(ctx)
	if username == "" {
		return nil
	}
	doc.SetUpdatedBy(username)
	return nil
}

func usernameFrom(ctx context.Context) string {
	return appctx.GetUsername(ctx)
}
