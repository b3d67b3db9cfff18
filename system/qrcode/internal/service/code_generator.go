package service

import (
	"crypto/rand"
)

// codeAlphabet 去掉了易混淆的 0 O 1 I l
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const maxCodeLength = 32

// GenerateShortCode 生成指定长度的随机短码
func GenerateShortCode(length int) (string, error) {
	if length <= 0 {
		length = 7
	}

	// 拒绝采样，避免取模偏差
	limit := 256 - 256%len(codeAlphabet)
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// IsWellFormedCode 短码只允许字母数字，长度受限
func IsWellFormedCode(code string) bool {
	if code == "" || len(code) > maxCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
