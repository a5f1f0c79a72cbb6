package jwt

import (
	"strconv"
	"time"
)

// DefaultExpires 无法识别的有效期配置回退到 15 分钟
const DefaultExpires = 15 * time.Minute

// ParseExpires 解析 "<整数><单位>" 格式的有效期，单位为 s/m/h/d
func ParseExpires(s string) time.Duration {
	if len(s) < 2 {
		return DefaultExpires
	}

	digits, unit := s[:len(s)-1], s[len(s)-1]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return DefaultExpires
		}
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return DefaultExpires
	}

	switch unit {
	case 's':
		return time.Duration(value) * time.Second
	case 'm':
		return time.Duration(value) * time.Minute
	case 'h':
		return time.Duration(value) * time.Hour
	case 'd':
		return time.Duration(value) * 24 * time.Hour
	default:
		return DefaultExpires
	}
}
