package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// Request 请求描述, 每次调用时构造, 不复用
type Request struct {
	URL     string
	Method  string
	Params  url.Values
	Data    any
	Headers http.Header
}

// Multipart 文件上传请求体
type Multipart struct {
	// FieldName 文件字段名, 默认 file
	FieldName string
	FileName  string
	Reader    io.Reader
	Fields    map[string]string
}

// encode 编码为 multipart/form-data
// 返回值: 请求体, Content-Type, 错误信息
func (m *Multipart) encode() (io.Reader, string, error) {
	if m.Reader == nil {
		return nil, "", fmt.Errorf("multipart body has no file reader")
	}
	field := m.FieldName
	if field == "" {
		field = "file"
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile(field, m.FileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, m.Reader); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// resolveURL 拼接基础地址与请求路径, 绝对地址原样使用
func resolveURL(base, path string, params url.Values) (string, error) {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if path != "" && !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		target = strings.TrimRight(base, "/") + path
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// encodeBody 根据 Data 的类型编码请求体
// 返回值: 请求体, Content-Type, 错误信息
func encodeBody(data any) (io.Reader, string, error) {
	switch v := data.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "application/json", nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(raw), "application/json", nil
	}
}

// newHTTPRequest 将请求描述转换为 *http.Request
func newHTTPRequest(ctx context.Context, base string, req Request) (*http.Request, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	target, err := resolveURL(base, req.URL, req.Params)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req.Data)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" {
		// 调用方给出的 multipart/form-data 不带 boundary, 以编码结果为准
		if existing := httpReq.Header.Get("Content-Type"); existing == "" || strings.HasPrefix(contentType, "multipart/") {
			httpReq.Header.Set("Content-Type", contentType)
		}
	}
	httpReq.Header.Set("Accept", "application/json, text/plain, */*")
	return httpReq, nil
}
