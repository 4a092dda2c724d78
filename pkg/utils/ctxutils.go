package utils

import (
	"context"

	"pest-erp/pkg/contextkeys"
	apperrors "pest-erp/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	return userID, nil
}

func GetPermissionsMapFromCtx(ctx context.Context) (map[string]bool, error) {
	permissions, ok := ctx.Value(contextkeys.UserPermissionsMapKey).(map[string]bool)
	if !ok || permissions == nil {
		return nil, apperrors.ErrForbidden
	}
	return permissions, nil
}

// WithUser кладёт пользователя и его права в контекст.
func WithUser(ctx context.Context, userID uint64, permissions []string) context.Context {
	perms := make(map[string]bool, len(permissions))
	for _, p := range permissions {
		perms[p] = true
	}
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, userID)
	ctx = context.WithValue(ctx, contextkeys.UserPermissionsKey, permissions)
	return context.WithValue(ctx, contextkeys.UserPermissionsMapKey, perms)
}
