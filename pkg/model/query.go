package model

import (
	"net/url"
	"strconv"
)

// PageQuery 分页参数
type PageQuery struct {
	PageNum  int
	PageSize int
}

// Values 转换为查询参数, 零值字段不输出
func (q PageQuery) Values() url.Values {
	v := url.Values{}
	if q.PageNum > 0 {
		v.Set("pageNum", strconv.Itoa(q.PageNum))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

// UserQuery 管理员查询用户列表参数
type UserQuery struct {
	PageQuery
	Username string
}

// Values 转换为查询参数
func (q UserQuery) Values() url.Values {
	v := q.PageQuery.Values()
	if q.Username != "" {
		v.Set("username", q.Username)
	}
	return v
}

// FoodQuery 食物搜索参数
type FoodQuery struct {
	PageQuery
	Keyword string
}

// Values 转换为查询参数
func (q FoodQuery) Values() url.Values {
	v := q.PageQuery.Values()
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	return v
}

// DietQuery 饮食记录查询参数
type DietQuery struct {
	PageQuery
	UserID int64
}

// Values 转换为查询参数
func (q DietQuery) Values() url.Values {
	v := q.PageQuery.Values()
	if q.UserID > 0 {
		v.Set("userId", strconv.FormatInt(q.UserID, 10))
	}
	return v
}

// AnalysisQuery 营养分析报告参数
// UserID 可选, 管理员查询他人时使用; Date 格式 YYYY-MM-DD
type AnalysisQuery struct {
	UserID int64
	Date   string
}

// Values 转换为查询参数
func (q AnalysisQuery) Values() url.Values {
	v := url.Values{}
	if q.UserID > 0 {
		v.Set("userId", strconv.FormatInt(q.UserID, 10))
	}
	if q.Date != "" {
		v.Set("date", q.Date)
	}
	return v
}
