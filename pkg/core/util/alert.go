package util

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"
)

// Alerter 运维告警推送（企业微信/钉钉机器人 webhook）
type Alerter struct {
	webhook string
	prefix  string
	client  *fasthttp.Client
}

func NewAlerter(webhook, env string) *Alerter {
	return &Alerter{
		webhook: webhook,
		prefix:  fmt.Sprintf("[%s] ", env),
		client:  &fasthttp.Client{},
	}
}

type webhookMessage struct {
	MsgType string      `json:"msgtype"`
	Text    textContent `json:"text"`
}

type textContent struct {
	Content string `json:"content"`
}

// Send 推送文本告警；未配置 webhook 时静默跳过
func (a *Alerter) Send(ctx context.Context, message string) error {
	if a == nil || a.webhook == "" {
		return nil
	}

	body, err := json.Marshal(&webhookMessage{
		MsgType: "text",
		Text:    textContent{Content: a.prefix + message},
	})
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetRequestURI(a.webhook)
	req.SetBody(body)

	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := a.client.DoTimeout(req, resp, timeout); err != nil {
		return err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("webhook 返回状态码 %d", resp.StatusCode())
	}

	result := gjson.ParseBytes(resp.Body())
	if result.Get("errcode").Int() != 0 {
		return errors.New(result.Get("errmsg").String())
	}
	return nil
}
