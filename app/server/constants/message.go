package constants

// 返回给客户端的提示信息，与前端约定保持一致
const (
	MsgSuccess          = "success"
	MsgBadCredentials   = "用户名或密码错误"
	MsgDuplicateUser    = "用户名已存在"
	MsgForbidden        = "权限不足"
	MsgTokenInvalid     = "token invalid or expired"
	MsgUnavailable      = "服务暂时不可用"
	MsgRegisterSuccess  = "注册成功！"
	MsgLogoutSuccess    = "退出成功"
	MsgAddSuccess       = "添加成功"
	MsgAddFailed        = "添加失败"
	MsgDeleteSuccess    = "删除成功"
	MsgDeleteFailed     = "删除失败"
	MsgUpdateSuccess    = "更新成功"
	MsgUpdateFailed     = "更新失败"
	MsgQueryFailed      = "查询失败"
	MsgBadRequest       = "请求参数错误"
	MsgUserNotFound     = "未找到用户"
	MsgArticleNotFound  = "未找到文章"
	MsgCategoryNotFound = "未找到分类"
	MsgTagNotFound      = "未找到标签"
	MsgCommentNotFound  = "未找到评论"
	MsgParentNotFound   = "未找到父评论"
	MsgMediaNotFound    = "未找到图片"
	MsgUploadFailed     = "文件上传失败"
	MsgCommentSuccess   = "评论成功"
	MsgPublishSuccess   = "发布成功！"
)
