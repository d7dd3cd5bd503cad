package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vera-byte/vgo-diet/pkg/model"

	"go.uber.org/zap"
)

// Store 登录态: token 与用户资料
// token 为空即视为未登录
type Store struct {
	storage  Storage
	logger   *zap.Logger
	mu       sync.RWMutex
	token    string
	userInfo model.UserInfo
}

// Load 从存储中恢复登录态
// 读取失败或资料损坏时回退为空值, 不会返回错误
// 参数: storage 持久化存储, logger 日志记录器
// 返回值: *Store 实例
func Load(storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage:  storage,
		logger:   logger,
		userInfo: model.UserInfo{},
	}

	token, _, err := storage.Get(KeyToken)
	if err != nil {
		logger.Warn("failed to read stored token", zap.Error(err))
	}
	s.token = token

	raw, ok, err := storage.Get(KeyUserInfo)
	if err != nil {
		logger.Warn("failed to read stored user info", zap.Error(err))
	}
	if ok && raw != "" {
		var info model.UserInfo
		if err := json.Unmarshal([]byte(raw), &info); err != nil || info == nil {
			logger.Warn("stored user info is malformed, using empty profile", zap.Error(err))
		} else {
			s.userInfo = info
		}
	}
	return s
}

// Token 当前 token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserInfo 当前用户资料的副本
func (s *Store) UserInfo() model.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userInfo.Clone()
}

// LoggedIn 是否已登录
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// SetLoginInfo 保存登录信息, 覆盖内存与持久化中的旧值
// 持久化失败时内存中的登录态保持不变
// 参数: user 用户资料, token 登录凭证
// 返回值: error 持久化失败时返回
func (s *Store) SetLoginInfo(user model.UserInfo, token string) error {
	if user == nil {
		user = model.UserInfo{}
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("序列化用户资料失败: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 持久化成功后才更新内存, 失败时保持原登录态
	if err := s.storage.Set(KeyToken, token); err != nil {
		return fmt.Errorf("保存 token 失败: %w", err)
	}
	if err := s.storage.Set(KeyUserInfo, string(raw)); err != nil {
		if rerr := s.storage.Set(KeyToken, s.token); rerr != nil {
			s.logger.Warn("failed to restore stored token", zap.Error(rerr))
		}
		return fmt.Errorf("保存用户资料失败: %w", err)
	}

	s.token = token
	s.userInfo = user.Clone()
	return nil
}

// Logout 清除登录态
// 内存中的状态总是会被清空, 返回的错误只反映持久化结果
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.userInfo = model.UserInfo{}

	if err := s.storage.Remove(KeyToken); err != nil {
		return fmt.Errorf("删除 token 失败: %w", err)
	}
	if err := s.storage.Remove(KeyUserInfo); err != nil {
		return fmt.Errorf("删除用户资料失败: %w", err)
	}
	return nil
}
