package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// 业务成功码
// 后端同时存在 200 和 0 两种成功约定, 两者都需要兼容
const (
	CodeOK      = 200
	CodeOKAlias = 0
)

// Envelope 后端统一响应结构 { code, data, message|msg }
type Envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Msg     string          `json:"msg,omitempty"`
}

// IsSuccessCode 判断业务码是否表示成功
// 参数: code 业务码
// 返回值: bool 是否成功
func IsSuccessCode(code int) bool {
	return code == CodeOK || code == CodeOKAlias
}

// Success 当前响应是否业务成功
func (e *Envelope) Success() bool {
	return e != nil && IsSuccessCode(e.Code)
}

// Text 返回响应携带的提示信息, message 优先
func (e *Envelope) Text() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

// HasData 响应是否携带有效的 data 字段
func (e *Envelope) HasData() bool {
	if e == nil || len(e.Data) == 0 {
		return false
	}
	return !bytes.Equal(bytes.TrimSpace(e.Data), []byte("null"))
}

// Decode 将 data 字段反序列化到 v
// 参数: v 目标对象指针
// 返回值: error 错误信息
func (e *Envelope) Decode(v any) error {
	if !e.HasData() {
		return fmt.Errorf("响应中没有 data 字段")
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("解析 data 字段失败: %w", err)
	}
	return nil
}
