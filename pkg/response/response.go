/*
 * @Description: 错误响应的统一 JSON 结构
 * @Date: 2026-10-10 09:02:11
 * @LastEditTime: 2026-10-12 17:25:40
 */
package response

import (
	"github.com/gin-gonic/gin"
)

// Response 是统一的API错误返回结构体
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Fail 失败响应
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// AbortWithFail 失败响应并终止后续处理器
func AbortWithFail(c *gin.Context, code int, message string) {
	Fail(c, code, message)
	c.Abort()
}
