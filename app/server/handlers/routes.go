package handlers

import (
	"github.com/labstack/echo/v4"
)

// Register 绑定所有业务接口
func (a *App) Register(e *echo.Echo) {
	api := e.Group("/api")

	user := api.Group("/user")
	user.POST("/register", a.UserRegister)
	user.POST("/login", a.UserLogin)
	user.POST("/admin/login", a.UserAdminLogin)
	user.POST("/logout", a.UserLogout)
	user.POST("/adduser", a.UserAdd)
	user.DELETE("/deleteuser/:userId", a.UserDelete)
	user.PUT("/updateuser", a.UserUpdate)
	user.GET("/getuser", a.UserGet)
	user.GET("/getalluser", a.UserList)
	user.GET("/me", a.UserInfoGetSelf)

	article := api.Group("/article")
	article.POST("/addarticle", a.ArticleAdd)
	article.DELETE("/deletearticle/:articleId", a.ArticleDelete)
	article.GET("/getallarticle", a.ArticleList)
	article.GET("/getarticle", a.ArticleGet)
	article.PUT("/updatearticle", a.ArticleUpdate)

	category := api.Group("/category")
	category.POST("/addcategory", a.CategoryAdd)
	category.DELETE("/deletecategory/:categoryId", a.CategoryDelete)
	category.PUT("/updatecategory", a.CategoryUpdate)
	category.GET("/getcategory", a.CategoryGet)
	category.GET("/getallcategory", a.CategoryList)

	tag := api.Group("/tag")
	tag.POST("/addtag", a.TagAdd)
	tag.DELETE("/deletetag/:tagId", a.TagDelete)
	tag.PUT("/updatetag", a.TagUpdate)
	tag.GET("/gettag", a.TagGet)
	tag.GET("/getalltag", a.TagList)

	comment := api.Group("/comment")
	comment.POST("/addcomment", a.CommentAdd)
	comment.DELETE("/deletecomment/:commentId", a.CommentDelete)
	comment.PUT("/updatecomment", a.CommentUpdate)
	comment.GET("/getcomment", a.CommentTree)
	comment.GET("/getallcomment", a.CommentList)

	media := api.Group("/media")
	media.POST("/addmedia", a.MediaAdd)
	media.DELETE("/deletemedia/:mediaId", a.MediaDelete)
	media.GET("/getallmedia", a.MediaList)
	media.GET("/getmedia", a.MediaGet)
	media.GET("/file/:mediaId", a.MediaFile)
}
