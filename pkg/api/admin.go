package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vera-byte/vgo-diet/pkg/client"
	"github.com/vera-byte/vgo-diet/pkg/model"
)

// AdminAPI 管理员用户管理接口
type AdminAPI struct {
	d Doer
}

// ListUsers 分页查询用户列表
func (a *AdminAPI) ListUsers(ctx context.Context, q model.UserQuery) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/admin/user/list",
		Method: http.MethodGet,
		Params: q.Values(),
	})
}

// AddUser 新增用户
func (a *AdminAPI) AddUser(ctx context.Context, data any) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/admin/user/add",
		Method: http.MethodPost,
		Data:   data,
	})
}

// UpdateUser 修改用户信息
func (a *AdminAPI) UpdateUser(ctx context.Context, data any) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/admin/user/update",
		Method: http.MethodPost,
		Data:   data,
	})
}

// DeleteUser 删除用户
func (a *AdminAPI) DeleteUser(ctx context.Context, id int64) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    fmt.Sprintf("/admin/user/delete/%d", id),
		Method: http.MethodDelete,
	})
}
