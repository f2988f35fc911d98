// Package api 内嵌的 OpenAPI 契约
package api

import "embed"

// SpecPath 契约文件在 OpenAPIFS 中的路径
const SpecPath = "openapi/jobboard.yaml"

//go:embed openapi/*.yaml
var OpenAPIFS embed.FS

// Spec 返回 OpenAPI 契约原文
func Spec() ([]byte, error) {
	return OpenAPIFS.ReadFile(SpecPath)
}
