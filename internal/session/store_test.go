package session_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vera-byte/vgo-diet/internal/session"
	"github.com/vera-byte/vgo-diet/pkg/model"
)

func TestLoadDefaults(t *testing.T) {
	s := session.Load(session.NewMemoryStorage(), nil)
	if s.Token() != "" {
		t.Errorf("expected empty token, got %q", s.Token())
	}
	if info := s.UserInfo(); info == nil || len(info) != 0 {
		t.Errorf("expected empty profile, got %v", info)
	}
	if s.LoggedIn() {
		t.Error("expected logged out")
	}
}

func TestLoadMalformedUserInfo(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "garbage", raw: "{not json"},
		{name: "null", raw: "null"},
		{name: "array", raw: "[1,2]"},
		{name: "string", raw: `"hello"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := session.NewMemoryStorage()
			_ = st.Set(session.KeyToken, "T")
			_ = st.Set(session.KeyUserInfo, tt.raw)

			s := session.Load(st, nil)
			if s.Token() != "T" {
				t.Errorf("token = %q, want T", s.Token())
			}
			if info := s.UserInfo(); info == nil || len(info) != 0 {
				t.Errorf("expected empty profile, got %v", info)
			}
		})
	}
}

func TestSetLoginInfoPersists(t *testing.T) {
	st := session.NewMemoryStorage()
	s := session.Load(st, nil)

	user := model.UserInfo{"id": float64(1), "username": "a"}
	if err := s.SetLoginInfo(user, "T1"); err != nil {
		t.Fatal(err)
	}

	token, _, _ := st.Get(session.KeyToken)
	if token != "T1" {
		t.Errorf("stored token = %q, want T1", token)
	}
	raw, _, _ := st.Get(session.KeyUserInfo)
	want, _ := json.Marshal(user)
	if raw != string(want) {
		t.Errorf("stored userInfo = %s, want %s", raw, want)
	}
	if !s.LoggedIn() || s.UserInfo()["username"] != "a" {
		t.Errorf("unexpected in-memory state: %q %v", s.Token(), s.UserInfo())
	}
}

func TestLogoutClears(t *testing.T) {
	st := session.NewMemoryStorage()
	s := session.Load(st, nil)
	_ = s.SetLoginInfo(model.UserInfo{"id": 1}, "T1")

	if err := s.Logout(); err != nil {
		t.Fatal(err)
	}
	if s.LoggedIn() || len(s.UserInfo()) != 0 {
		t.Error("expected cleared session")
	}
	if _, ok, _ := st.Get(session.KeyToken); ok {
		t.Error("token still persisted")
	}
	if _, ok, _ := st.Get(session.KeyUserInfo); ok {
		t.Error("userInfo still persisted")
	}
}

func TestUserInfoIsCopy(t *testing.T) {
	s := session.Load(session.NewMemoryStorage(), nil)
	_ = s.SetLoginInfo(model.UserInfo{"id": 1}, "T")
	info := s.UserInfo()
	info["id"] = 2
	if s.UserInfo()["id"] != 1 {
		t.Error("UserInfo must return a copy")
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	st := session.NewFileStorage(path, nil)

	s := session.Load(st, nil)
	if err := s.SetLoginInfo(model.UserInfo{"id": float64(7)}, "T7"); err != nil {
		t.Fatal(err)
	}

	reloaded := session.Load(session.NewFileStorage(path, nil), nil)
	if reloaded.Token() != "T7" || reloaded.UserInfo()["id"] != float64(7) {
		t.Errorf("reloaded state = %q %v", reloaded.Token(), reloaded.UserInfo())
	}

	if err := reloaded.Logout(); err != nil {
		t.Fatal(err)
	}
	if again := session.Load(session.NewFileStorage(path, nil), nil); again.LoggedIn() {
		t.Error("expected logged out after reload")
	}
}

func TestFileStorageCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("!!"), 0600); err != nil {
		t.Fatal(err)
	}
	s := session.Load(session.NewFileStorage(path, nil), nil)
	if s.LoggedIn() || len(s.UserInfo()) != 0 {
		t.Error("corrupt storage should hydrate an empty session")
	}
}

func TestLoginOverCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("!!"), 0600); err != nil {
		t.Fatal(err)
	}
	s := session.Load(session.NewFileStorage(path, nil), nil)
	if err := s.SetLoginInfo(model.UserInfo{"id": 1}, "T1"); err != nil {
		t.Fatalf("SetLoginInfo on corrupt file: %v", err)
	}
	if s.Token() != "T1" {
		t.Errorf("token = %q, want T1", s.Token())
	}

	reloaded := session.Load(session.NewFileStorage(path, nil), nil)
	if reloaded.Token() != "T1" || reloaded.UserInfo()["id"] != float64(1) {
		t.Errorf("reloaded = %q %v", reloaded.Token(), reloaded.UserInfo())
	}
}

func TestLogoutOverCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	s := session.Load(session.NewFileStorage(path, nil), nil)
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout on corrupt file: %v", err)
	}
}

type failingStorage struct {
	session.Storage
	failKey string
}

func (f failingStorage) Set(key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Storage.Set(key, value)
}

func TestSetLoginInfoFailureKeepsSession(t *testing.T) {
	for _, key := range []string{session.KeyToken, session.KeyUserInfo} {
		t.Run(key, func(t *testing.T) {
			mem := session.NewMemoryStorage()
			s := session.Load(mem, nil)
			if err := s.SetLoginInfo(model.UserInfo{"id": 1}, "OLD"); err != nil {
				t.Fatal(err)
			}

			s = session.Load(failingStorage{Storage: mem, failKey: key}, nil)
			if err := s.SetLoginInfo(model.UserInfo{"id": 2}, "NEW"); err == nil {
				t.Fatal("expected persistence error")
			}
			if s.Token() != "OLD" || s.UserInfo()["id"] != float64(1) {
				t.Errorf("in-memory session changed: %q %v", s.Token(), s.UserInfo())
			}
			if tok, _, _ := mem.Get(session.KeyToken); tok != "OLD" {
				t.Errorf("stored token = %q, want OLD", tok)
			}
		})
	}
}

func TestNewStorage(t *testing.T) {
	tests := []struct {
		name    string
		cfg     session.StorageConfig
		wantErr bool
	}{
		{name: "file", cfg: session.StorageConfig{Type: "file", Path: filepath.Join(t.TempDir(), "s.json")}},
		{name: "file without path", cfg: session.StorageConfig{Type: "file"}, wantErr: true},
		{name: "memory", cfg: session.StorageConfig{Type: "memory"}},
		{name: "redis", cfg: session.StorageConfig{Type: "redis", RedisAddr: "127.0.0.1:0"}},
		{name: "unknown", cfg: session.StorageConfig{Type: "cookie"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := session.NewStorage(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStorage() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
