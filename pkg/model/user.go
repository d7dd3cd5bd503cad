package model

// UserInfo 用户资料
// 前端不关心资料的具体结构, 原样保存后端返回的内容
type UserInfo map[string]any

// Clone 返回资料的浅拷贝
func (u UserInfo) Clone() UserInfo {
	out := make(UserInfo, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// LoginRequest 登录请求结构
type LoginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	CaptchaKey  string `json:"captchaKey,omitempty"`
	CaptchaCode string `json:"captchaCode,omitempty"`
}

// RegisterRequest 注册请求结构, 必须携带验证码
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Nickname    string `json:"nickname,omitempty"`
	CaptchaKey  string `json:"captchaKey"`
	CaptchaCode string `json:"captchaCode"`
}

// LoginResult 登录响应中的 data 部分
type LoginResult struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Captcha 验证码
type Captcha struct {
	Key   string `json:"captchaKey"`
	Image string `json:"captchaImg"`
}

// PasswordChange 修改密码请求结构
type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
