package client

import "time"

// SessionInvalidated 登录态被服务端判定失效 (HTTP 401)
// 事件发出时登录态已经清除
type SessionInvalidated struct {
	Reason string
	At     time.Time
}

// Subscribe 订阅登录失效事件
// 参数: fn 回调, 在发出请求的 goroutine 中同步执行
// 返回值: 取消订阅函数
func (c *Client) Subscribe(fn func(SessionInvalidated)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

func (c *Client) publish(ev SessionInvalidated) {
	c.mu.RLock()
	handlers := make([]func(SessionInvalidated), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		handlers = append(handlers, fn)
	}
	c.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
