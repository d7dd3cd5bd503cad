package api

import (
	"context"
	"io"
	"net/http"

	"github.com/vera-byte/vgo-diet/pkg/client"
	"github.com/vera-byte/vgo-diet/pkg/model"
)

// UploadActionURL 上传地址, 含接口前缀, 供直接提交表单的调用方使用
const UploadActionURL = "/api/file/upload"

// FileAPI 文件上传接口
type FileAPI struct {
	d Doer
}

// UploadFile 以 multipart/form-data 上传文件, 文件字段名为 file
func (a *FileAPI) UploadFile(ctx context.Context, fileName string, r io.Reader) (*model.Envelope, error) {
	return a.d.Do(ctx, client.Request{
		URL:    "/file/upload",
		Method: http.MethodPost,
		Data:   &client.Multipart{FileName: fileName, Reader: r},
		Headers: http.Header{
			"Content-Type": {"multipart/form-data"},
		},
	})
}
