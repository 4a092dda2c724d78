package contextkeys

type contextKey string

const (
	UserIDKey             contextKey = "UserID"
	UserPermissionsKey    contextKey = "UserPermissions"
	UserPermissionsMapKey contextKey = "userPermissionsMap"
	IsSuperuserKey        contextKey = "IsSuperuser"
)
