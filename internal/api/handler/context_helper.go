package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"uni-guide/backend/pkg/response"
)

// MustGetParam 从路径参数中读取非空值。
// 参数缺失时写入 400 响应并返回 false，调用方应直接 return。
func MustGetParam(c *gin.Context, name, message string) (string, bool) {
	v := strings.TrimSpace(c.Param(name))
	if v == "" {
		response.BadRequest(c, 10001, message)
		return "", false
	}
	return v, true
}

// MustBindJSON 绑定并校验 JSON 请求体；失败时写入 400 响应
func MustBindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
		return false
	}
	return true
}

// MustBindQuery 绑定并校验查询参数；失败时写入 400 响应
func MustBindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
		return false
	}
	return true
}
