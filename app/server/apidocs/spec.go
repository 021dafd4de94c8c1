package apidocs

import (
	"net/http"
	"sort"
	"strings"

	"personal-blog/app/server/policy"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
)

const securitySchemeName = "bearerAuth"

// Build 根据已注册的路由和访问控制表生成 OpenAPI 文档
func Build(title string, version string, routes []*echo.Route, table *policy.Table) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				securitySchemeName: &openapi3.SecuritySchemeRef{
					Value: openapi3.NewJWTSecurityScheme(),
				},
			},
		},
		Security: openapi3.SecurityRequirements{
			openapi3.NewSecurityRequirement().Authenticate(securitySchemeName),
		},
	}

	// 按路径排序，保证输出稳定
	sorted := make([]*echo.Route, 0, len(routes))
	for _, r := range routes {
		if strings.HasPrefix(r.Path, "/api/") {
			sorted = append(sorted, r)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Method < sorted[j].Method
	})

	for _, r := range sorted {
		p, params := convertPath(r.Path)

		item := doc.Paths.Value(p)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(p, item)
		}

		access := table.Classify(r.Method, r.Path)

		op := openapi3.NewOperation()
		op.OperationID = operationID(r.Name)
		op.Tags = []string{tagOf(r.Path)}
		op.Extensions = map[string]any{"x-access": access.String()}
		op.Responses = openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("统一响应结构 {code, message, data}"),
			}),
		)
		if access == policy.Public {
			// 覆盖全局的认证要求
			op.Security = openapi3.NewSecurityRequirements()
		}
		for _, name := range params {
			op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewIntegerSchema()))
		}

		item.SetOperation(r.Method, op)
	}

	return doc
}

// convertPath 把 echo 的 :param 转成 {param}
func convertPath(echoPath string) (string, []string) {
	var params []string
	segments := strings.Split(echoPath, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			name := s[1:]
			params = append(params, name)
			segments[i] = "{" + name + "}"
		}
	}
	return strings.Join(segments, "/"), params
}

// tagOf /api/<tag>/...
func tagOf(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/api/"), "/")
	return segments[0]
}

// operationID 取方法名，例如 personal-blog/app/server/handlers.(*App).UserLogin-fm -> UserLogin
func operationID(handlerName string) string {
	name := handlerName[strings.LastIndex(handlerName, ".")+1:]
	return strings.TrimSuffix(name, "-fm")
}
