package constants

const (
	ContextKeyIdentity = "identity" // *types.Identity ，由认证中间件写入
)
