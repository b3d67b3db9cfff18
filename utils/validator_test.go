package utils

import (
	"testing"

	errorc "qrhub/pkg/core/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name   string `json:"name" validate:"required,max=10"`
	Target string `json:"targetUrl" validate:"required,http_url"`
	Kind   string `json:"type" validate:"omitempty,oneof=URL PROFILE"`
	Nested struct {
		Count int `json:"count" validate:"gte=1"`
	} `json:"nested"`
}

func TestValidate_ListsEveryField(t *testing.T) {
	req := sampleRequest{Kind: "OTHER"}
	err := Validate(&req)
	require.Error(t, err)
	assert.True(t, errorc.Is(err, errorc.ErrorCodeValid))

	e := errorc.ParseError(err)
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
		assert.NotEmpty(t, f.Message)
	}
	assert.ElementsMatch(t, []string{"name", "targetUrl", "type", "nested.count"}, names)
}

func TestValidate_OK(t *testing.T) {
	req := sampleRequest{Name: "promo", Target: "https://example.com/a"}
	req.Nested.Count = 1
	assert.NoError(t, Validate(&req))
}

func TestMergeFieldErrors_KeepsFirstPerField(t *testing.T) {
	body := []errorc.FieldError{{Field: "name", Message: "too long"}, {Field: "campaign.endDate", Message: "body"}}
	rules := []errorc.FieldError{{Field: "campaign.endDate", Message: "rule"}, {Field: "targetUrl", Message: "empty"}}

	merged := MergeFieldErrors(body, rules)
	assert.Equal(t, []errorc.FieldError{
		{Field: "name", Message: "too long"},
		{Field: "campaign.endDate", Message: "body"},
		{Field: "targetUrl", Message: "empty"},
	}, merged)
	assert.Empty(t, MergeFieldErrors(nil, nil))
}
