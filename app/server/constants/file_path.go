package constants

// 媒体文件
const (
	MediaPathPrefix = "/data/blog/media/"
	MediaKeyPrefix  = "media/" // 对象存储中的 key 前缀
)
