package commands

import (
	"fmt"
	"runtime"
	"time"
)

// Greet 返回问候语
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

// Timestamp 返回 now 对应的 UNIX 秒。系统时钟早于纪元视为致命错误。
func Timestamp(now time.Time) uint64 {
	secs := now.Unix()
	if secs < 0 {
		panic(fmt.Sprintf("系统时钟早于 UNIX 纪元: %s", now.Format(time.RFC3339)))
	}
	return uint64(secs)
}

// SystemInfo 返回宿主操作系统类型
func SystemInfo() string {
	return fmt.Sprintf("操作系统类型: %s", runtime.GOOS)
}
