package services

import "strings"

// ParseBrowser 从 User-Agent 中识别浏览器，按特征串优先级匹配
func ParseBrowser(userAgent string) string {
	switch {
	case userAgent == "":
		return "Unknown"
	case strings.Contains(userAgent, "Edge"), strings.Contains(userAgent, "Edg/"):
		return "Edge"
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	case strings.Contains(userAgent, "Opera"):
		return "Opera"
	case strings.Contains(userAgent, "MSIE"), strings.Contains(userAgent, "Trident"):
		return "IE"
	default:
		return "Unknown"
	}
}

// ParseOS 从 User-Agent 中识别操作系统
func ParseOS(userAgent string) string {
	switch {
	case userAgent == "":
		return "Unknown"
	case strings.Contains(userAgent, "Windows NT 10"):
		return "Windows 10"
	case strings.Contains(userAgent, "Windows NT 6.3"):
		return "Windows 8.1"
	case strings.Contains(userAgent, "Windows NT 6.2"):
		return "Windows 8"
	case strings.Contains(userAgent, "Windows NT 6.1"):
		return "Windows 7"
	case strings.Contains(userAgent, "Windows"):
		return "Windows"
	// 移动端的 UA 同时包含 Linux / Mac OS X，需要先匹配
	case strings.Contains(userAgent, "Android"):
		return "Android"
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"):
		return "iOS"
	case strings.Contains(userAgent, "Mac OS X"):
		return "macOS"
	case strings.Contains(userAgent, "Linux"):
		return "Linux"
	default:
		return "Unknown"
	}
}
