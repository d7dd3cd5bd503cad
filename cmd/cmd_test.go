package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/vera-byte/vgo-diet/pkg/model"

	"github.com/gin-gonic/gin"
)

func TestParseFields(t *testing.T) {
	got := parseFields(map[string]string{
		"id":       "3",
		"name":     "rice",
		"enabled":  "true",
		"calories": "1.5",
		"tags":     `["a"]`,
	})
	want := map[string]any{"id": float64(3), "name": "rice", "enabled": true, "calories": 1.5, "tags": `["a"]`}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %#v, want %#v", k, got[k], v)
		}
	}
}

func TestRecordColumns(t *testing.T) {
	records := []model.Record{
		{"name": "rice", "id": 1, "zinc": 0},
		{"id": 2, "calories": 130},
	}
	got := strings.Join(recordColumns(records, []string{"id", "name", "missing"}), ",")
	if got != "id,name,calories,zinc" {
		t.Errorf("columns = %s", got)
	}
}

func TestCellTruncatesOnRunes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "short", in: "米饭", want: "米饭"},
		{name: "exact", in: strings.Repeat("米", 40), want: strings.Repeat("米", 40)},
		{name: "long cjk", in: strings.Repeat("米", 50), want: strings.Repeat("米", 37) + "..."},
		{name: "long ascii", in: strings.Repeat("a", 41), want: strings.Repeat("a", 37) + "..."},
		{name: "number", in: float64(52.5), want: "52.5"},
		{name: "nil", in: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cell(tt.in)
			if got != tt.want {
				t.Errorf("cell() = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("cell() produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "42", want: 42},
		{in: "0", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestLoginThenListDiet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/user/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"token": "T1", "user": gin.H{"id": 1, "username": "a"}}})
	})
	r.GET("/api/diet/list", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "T1" {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{
			"records": []gin.H{{"id": 5, "foodName": "apple", "calories": 52}},
			"total":   1,
		}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgBody := fmt.Sprintf("server:\n  address: %s\nsession:\n  storage: file\n  path: %s\nlog:\n  level: error\n",
		srv.URL, filepath.Join(dir, "storage.json"))
	if err := os.WriteFile(cfgPath, []byte(cfgBody), 0o600); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		RootCmd.SetOut(&out)
		RootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
		err := RootCmd.Execute()
		return out.String(), err
	}

	if _, err := run("diet", "list"); err == nil || !strings.Contains(err.Error(), "login") {
		t.Fatalf("expected login required, got %v", err)
	}

	out, err := run("login", "-u", "a", "-p", "b")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "/dashboard") {
		t.Errorf("login output = %q", out)
	}

	out, err = run("diet", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "apple") || !strings.Contains(out, "total: 1") {
		t.Errorf("diet list output = %q", out)
	}

	if _, err := run("logout"); err != nil {
		t.Fatal(err)
	}
	if _, err := run("diet", "list"); err == nil {
		t.Error("expected login required after logout")
	}
}

func TestConfigCommandHidesSecrets(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "server:\n  address: http://diet.example:9000\nnotify:\n  type: redis\n  redis_pass: hunter2\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"--config", cfgPath, "config"})
	if err := RootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "http://diet.example:9000") || !strings.Contains(out.String(), "notify.redis_addr") {
		t.Errorf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "hunter2") {
		t.Error("password leaked")
	}
}
