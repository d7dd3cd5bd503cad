package main

import (
	cmd "github.com/vera-byte/vgo-diet/cmd"
	vgokit "github.com/vera-byte/vgo-kit"
	"go.uber.org/zap"
)

// main VGO Diet 客户端主入口
func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		vgokit.Log.Fatal("Failed to execute command", zap.Error(err))
	}
}
