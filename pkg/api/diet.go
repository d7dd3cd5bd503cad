package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vera-byte/vgo-diet/pkg/client"
	"github.com/vera-byte/vgo-diet/pkg/model"
)

// DietAPI 饮食记录接口
type DietAPI struct {
	d Doer
}

// AddDietRecord 添加饮食记录
func (a *DietAPI) AddDietRecord(ctx context.Context, data any) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/diet/add",
		Method: http.MethodPost,
		Data:   data,
	})
}

// ListDietRecords 分页查询饮食记录
func (a *DietAPI) ListDietRecords(ctx context.Context, q model.DietQuery) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/diet/list",
		Method: http.MethodGet,
		Params: q.Values(),
	})
}

// DeleteDietRecord 删除饮食记录
func (a *DietAPI) DeleteDietRecord(ctx context.Context, id int64) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    fmt.Sprintf("/diet/delete/%d", id),
		Method: http.MethodDelete,
	})
}
