package model

import "encoding/json"

// Page 分页列表数据
// 后端分页结构有 records 和 list 两种写法
type Page[T any] struct {
	Records []T   `json:"-"`
	Total   int64 `json:"total"`
}

// UnmarshalJSON 兼容 records / list 两种字段名, 也兼容直接返回数组
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	var arr []T
	if err := json.Unmarshal(b, &arr); err == nil {
		p.Records = arr
		p.Total = int64(len(arr))
		return nil
	}

	var raw struct {
		Records []T   `json:"records"`
		List    []T   `json:"list"`
		Total   int64 `json:"total"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.Records = raw.Records
	if p.Records == nil {
		p.Records = raw.List
	}
	p.Total = raw.Total
	return nil
}

// Record 列表中的单条记录, 字段由后端决定
type Record map[string]any
