package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Sink 错误提示的展示端
type Sink interface {
	Show(msg string)
}

// SinkFunc 函数适配器
type SinkFunc func(msg string)

// Show 调用函数本身
func (f SinkFunc) Show(msg string) { f(msg) }

// ConsoleSink 在终端中以红色输出错误提示
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink 创建终端输出端, w 为 nil 时使用 stderr
func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleSink{w: w}
}

// Show 输出提示
func (s *ConsoleSink) Show(msg string) {
	fmt.Fprintf(s.w, "\x1b[31m✖ %s\x1b[0m\n", msg)
}

// ZapSink 将错误提示写入日志
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink 创建日志输出端
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// Show 输出提示
func (s *ZapSink) Show(msg string) {
	s.logger.Error("request failed", zap.String("message", msg))
}

// Recorder 记录所有展示过的提示
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Show 记录提示
func (r *Recorder) Show(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages 返回已记录提示的副本
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Len 已记录的提示数量
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}
