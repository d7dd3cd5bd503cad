package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vera-byte/vgo-diet/pkg/client"
	"github.com/vera-byte/vgo-diet/pkg/model"
)

// UserAPI 认证与个人信息接口
type UserAPI struct {
	d Doer
}

// GetCaptcha 获取验证码
func (a *UserAPI) GetCaptcha(ctx context.Context) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/auth/captcha",
		Method: http.MethodGet,
	})
}

// Login 登录, 验证码参数可选
func (a *UserAPI) Login(ctx context.Context, data model.LoginRequest) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/user/login",
		Method: http.MethodPost,
		Data:   data,
	})
}

// Register 注册, 必须携带验证码
func (a *UserAPI) Register(ctx context.Context, data model.RegisterRequest) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/user/register",
		Method: http.MethodPost,
		Data:   data,
	})
}

// GetUserInfo 获取当前用户资料
func (a *UserAPI) GetUserInfo(ctx context.Context) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/user/info",
		Method: http.MethodGet,
	})
}

// UpdateUserInfo 修改当前用户资料
func (a *UserAPI) UpdateUserInfo(ctx context.Context, data any) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/user/update",
		Method: http.MethodPost,
		Data:   data,
	})
}

// UpdatePassword 修改密码
func (a *UserAPI) UpdatePassword(ctx context.Context, data model.PasswordChange) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/user/updatePassword",
		Method: http.MethodPost,
		Data:   data,
	})
}

// LoginStore 保存登录信息
type LoginStore interface {
	SetLoginInfo(user model.UserInfo, token string) error
}

// LoginAndStore 登录成功后把 token 和用户资料写入登录态
// 返回值: *model.LoginResult 登录结果, error 错误信息
func (a *UserAPI) LoginAndStore(ctx context.Context, data model.LoginRequest, store LoginStore) (*model.LoginResult, error) {
	env, err := a.Login(ctx, data)
	if err != nil {
		return nil, err
	}
	var result model.LoginResult
	if err := env.Decode(&result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("登录响应中缺少 token")
	}
	if err := store.SetLoginInfo(result.User, result.Token); err != nil {
		return nil, err
	}
	return &result, nil
}
