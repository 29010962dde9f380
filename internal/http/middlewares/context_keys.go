package middlewares

const (
	CtxRequestID = "request_id"

	ctxUserIDKey    = "auth.userID"
	ctxUserEmailKey = "auth.email"
	ctxUserNameKey  = "auth.name"
	ctxTokenHashKey = "auth.tokenHash"
)
