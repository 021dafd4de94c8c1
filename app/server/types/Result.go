package types

// Result 是所有接口统一的响应结构
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type PageResult struct {
	List    any   `json:"list"`
	Limit   int   `json:"limit"`
	PageMax int64 `json:"pageMax"`
}

type LoginToken struct {
	Token string `json:"token"`
}
