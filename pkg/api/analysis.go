package api

import (
	"context"
	"net/http"

	"github.com/vera-byte/vgo-diet/pkg/client"
	"github.com/vera-byte/vgo-diet/pkg/model"
)

// AnalysisAPI 营养分析接口
type AnalysisAPI struct {
	d Doer
}

// GetAnalysisReport 获取指定日期的营养分析报告
func (a *AnalysisAPI) GetAnalysisReport(ctx context.Context, q model.AnalysisQuery) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/analysis/report",
		Method: http.MethodGet,
		Params: q.Values(),
	})
}
