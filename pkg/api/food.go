package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vera-byte/vgo-diet/pkg/client"
	"github.com/vera-byte/vgo-diet/pkg/model"
)

// FoodAPI 食物库接口
type FoodAPI struct {
	d Doer
}

// ListFoods 分页搜索食物
func (a *FoodAPI) ListFoods(ctx context.Context, q model.FoodQuery) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/food/list",
		Method: http.MethodGet,
		Params: q.Values(),
	})
}

// AddFood 新增食物
func (a *FoodAPI) AddFood(ctx context.Context, data any) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/food/add",
		Method: http.MethodPost,
		Data:   data,
	})
}

// DeleteFood 删除食物
func (a *FoodAPI) DeleteFood(ctx context.Context, id int64) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    fmt.Sprintf("/food/delete/%d", id),
		Method: http.MethodDelete,
	})
}
