package common

import (
	"fmt"
	"strings"
	"time"
)

// FlexTime 请求参数里的时间，兼容多种格式；不带时区的格式按 UTC 解释
type FlexTime struct {
	time.Time
}

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999",
	"2006-01-02 15:04:05.999",
	"2006-01-02",
}

func ParseFlexTime(str string) (FlexTime, error) {
	var parseErr error
	for _, format := range timeFormats {
		parsed, err := time.ParseInLocation(format, str, time.UTC)
		if err == nil {
			return FlexTime{Time: parsed.UTC()}, nil
		}
		parseErr = err
	}
	return FlexTime{}, fmt.Errorf("无法解析时间格式: %s, 错误: %v", str, parseErr)
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), "\"")
	if str == "" || str == "null" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := ParseFlexTime(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON 统一输出 UTC 的 RFC3339
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("\"%s\"", t.Time.UTC().Format(time.RFC3339))), nil
}

// ToTime 空值返回 nil
func (t *FlexTime) ToTime() *time.Time {
	if t == nil || t.Time.IsZero() {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func FromTime(t *time.Time) *FlexTime {
	if t == nil {
		return nil
	}
	return &FlexTime{Time: t.UTC()}
}
