package config

import (
	"github.com/openzipkin/zipkin-go"
	"github.com/openzipkin/zipkin-go/reporter/http"
)

type ZipkinConfig struct {
	Url string `yaml:"url"`
	// SampleMod 采样取模，1 表示全量采样
	SampleMod uint64 `yaml:"sample-mod"`
}

// InitZipkin 未配置上报地址时返回 nil
func InitZipkin(zipkinConfig ZipkinConfig, appName, host string) (*zipkin.Tracer, error) {
	if zipkinConfig.Url == "" {
		return nil, nil
	}

	reporter := http.NewReporter(zipkinConfig.Url)
	endpoint, err := zipkin.NewEndpoint(appName, host)
	if err != nil {
		return nil, err
	}

	mod := zipkinConfig.SampleMod
	if mod == 0 {
		mod = 1
	}

	return zipkin.NewTracer(
		reporter,
		zipkin.WithLocalEndpoint(endpoint),
		zipkin.WithSampler(zipkin.NewModuloSampler(mod)),
	)
}
