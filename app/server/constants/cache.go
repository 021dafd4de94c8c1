package constants

import "time"

const (
	CacheKeySessionToken = "token:%s" // %s -> username
)

const (
	DefaultTokenTTL         = 30 * time.Minute
	DefaultRefreshThreshold = 5 * time.Minute
	DefaultStoreTimeout     = 3 * time.Second
)
