package policy

import (
	"net/http"
	"strings"
)

type Access int

const (
	Authenticated Access = iota // 没有匹配到规则时的默认值
	Public
	Admin
)

func (a Access) String() string {
	switch a {
	case Public:
		return "PUBLIC"
	case Admin:
		return "ADMIN"
	default:
		return "AUTHENTICATED"
	}
}

type Rule struct {
	Method  string // * 匹配任意方法
	Pattern string // * 匹配一段路径， ** 匹配零到多段
	Access  Access

	segments []string
	weight   int // 非 ** 段的数量，越大越优先
}

type Table struct {
	rules []Rule
}

func New() *Table {
	return &Table{}
}

func (t *Table) Add(method string, pattern string, access Access) *Table {
	segments := split(pattern)
	weight := 0
	for _, s := range segments {
		if s != "**" {
			weight++
		}
	}

	t.rules = append(t.rules, Rule{
		Method:   strings.ToUpper(method),
		Pattern:  pattern,
		Access:   access,
		segments: segments,
		weight:   weight,
	})
	return t
}

// Classify 最长匹配优先，长度相同时先注册的优先
func (t *Table) Classify(method string, path string) Access {
	method = strings.ToUpper(method)
	segments := split(path)

	best := -1
	for i, r := range t.rules {
		if r.Method != "*" && r.Method != method {
			continue
		}
		if !match(r.segments, segments) {
			continue
		}
		if best < 0 || r.weight > t.rules[best].weight {
			best = i
		}
	}

	if best < 0 {
		return Authenticated
	}
	return t.rules[best].Access
}

func (t *Table) Rules() []Rule {
	rules := make([]Rule, len(t.rules))
	copy(rules, t.rules)
	return rules
}

func split(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func match(pattern []string, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	switch pattern[0] {
	case "**":
		// 依次尝试吞掉 0..n 段
		for i := 0; i <= len(path); i++ {
			if match(pattern[1:], path[i:]) {
				return true
			}
		}
		return false
	case "*":
		return len(path) > 0 && match(pattern[1:], path[1:])
	default:
		return len(path) > 0 && pattern[0] == path[0] && match(pattern[1:], path[1:])
	}
}

// Default 博客接口的访问控制表
func Default() *Table {
	return New().
		// 公开
		Add(http.MethodPost, "/api/user/login", Public).
		Add(http.MethodPost, "/api/user/admin/login", Public).
		Add(http.MethodPost, "/api/user/register", Public).
		// 仅管理员
		Add(http.MethodPost, "/api/user/adduser", Admin).
		Add(http.MethodGet, "/api/user/getalluser", Admin).
		Add(http.MethodDelete, "/api/user/deleteuser/*", Admin).
		Add(http.MethodDelete, "/api/tag/deletetag/*", Admin).
		Add(http.MethodDelete, "/api/media/deletemedia/*", Admin).
		Add(http.MethodGet, "/api/comment/getallcomment/**", Admin).
		Add(http.MethodPut, "/api/comment/updatecomment/**", Admin).
		Add(http.MethodDelete, "/api/category/deletecategory/*", Admin).
		Add(http.MethodDelete, "/api/article/deletearticle/*", Admin)
}
