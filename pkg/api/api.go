// Package api 后端接口封装, 每个函数只负责把参数映射为请求描述并交给客户端发送
package api

import (
	"context"

	"github.com/vera-byte/vgo-diet/pkg/client"
	"github.com/vera-byte/vgo-diet/pkg/model"
)

// Doer 发送请求描述, *client.Client 实现了该接口
type Doer interface {
	Do(ctx context.Context, req client.Request) (*model.Envelope, error)
}

// API 所有资源接口的集合
type API struct {
	User     *UserAPI
	Admin    *AdminAPI
	Food     *FoodAPI
	Diet     *DietAPI
	Analysis *AnalysisAPI
	File     *FileAPI
}

// New 创建接口集合
// 参数: d 请求发送者
// 返回值: *API 接口集合
func New(d Doer) *API {
	return &API{
		User:     &UserAPI{d: d},
		Admin:    &AdminAPI{d: d},
		Food:     &FoodAPI{d: d},
		Diet:     &DietAPI{d: d},
		Analysis: &AnalysisAPI{d: d},
		File:     &FileAPI{d: d},
	}
}
