package domain

type CtxKey string

const (
	KeyRequestID CtxKey = "RequestID"
	KeyAdminUser CtxKey = "AdminUser"
)
