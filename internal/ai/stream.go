package ai

import (
	"fmt"
	"strings"

	tccommon "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	v20230901 "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/hunyuan/v20230901"
)

const hunyuanEndpoint = "hunyuan.ap-guangzhou.tencentcloudapi.com"

// streamChatCompletions runs one streamed chat completion through the
// Tencent Cloud SDK, invoking onDelta for each chunk in arrival order,
// and returns the accumulated text.
func (c *Client) streamChatCompletions(messages []*v20230901.Message, onDelta func(string)) (string, error) {
	if c.secretID == "" || c.secret == "" {
		return "", ErrNotConfigured
	}
	credential := tccommon.NewCredential(c.secretID, c.secret)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = hunyuanEndpoint
	client, err := v20230901.NewClient(credential, "", cpf)
	if err != nil {
		return "", fmt.Errorf("hunyuan client: %w", err)
	}

	req := v20230901.NewChatCompletionsRequest()
	req.Model = tccommon.StringPtr(c.model)
	req.Messages = messages
	req.Stream = tccommon.BoolPtr(true)

	resp, err := client.ChatCompletions(req)
	if err != nil {
		return "", fmt.Errorf("chat completions: %w", err)
	}

	var b strings.Builder
	if resp != nil && resp.Response != nil {
		for _, choice := range resp.Response.Choices {
			if choice.Delta != nil && choice.Delta.Content != nil {
				b.WriteString(*choice.Delta.Content)
				if onDelta != nil {
					onDelta(*choice.Delta.Content)
				}
			}
		}
	}
	return b.String(), nil
}
