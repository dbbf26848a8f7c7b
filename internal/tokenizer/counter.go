package tokenizer

import (
	"encoding/json"

	"github.com/mandalnilabja/promptgate/internal/types"
)

// Overhead values per OpenAI's counting guidance.
const (
	messageOverhead    = 3 // <|start|>role<|end|>
	replyPrimingTokens = 3 // assistant response priming
	nameOverhead       = 1

	// Image costs; detail-dependent tile count simplified to the documented
	// low/high bounds since request bodies carry no image dimensions.
	imageBaseTokens    = 85
	imageTileTokens    = 170
	imageHighDetailMax = 4
)

// CountRequest counts total prompt tokens for a full request.
func (t *TiktokenTokenizer) CountRequest(req *types.ChatCompletionRequest) (int, error) {
	total := 0

	for _, msg := range req.Messages {
		tokens, err := t.countMessage(msg, req.Model)
		if err != nil {
			return 0, err
		}
		total += tokens + messageOverhead
	}
	total += replyPrimingTokens

	if len(req.Tools) > 0 {
		toolTokens, err := t.countTools(req.Tools, req.Model)
		if err != nil {
			return 0, err
		}
		total += toolTokens
	}

	return total, nil
}

// countMessage counts tokens for a single message.
func (t *TiktokenTokenizer) countMessage(msg types.Message, model string) (int, error) {
	total := 0

	roleTokens, err := t.CountTokens(msg.Role, model)
	if err != nil {
		return 0, err
	}
	total += roleTokens

	contentTokens, err := t.countContent(msg.Content, model)
	if err != nil {
		return 0, err
	}
	total += contentTokens

	if msg.Name != "" {
		nameTokens, err := t.CountTokens(msg.Name, model)
		if err != nil {
			return 0, err
		}
		total += nameTokens + nameOverhead
	}

	for _, call := range msg.ToolCalls {
		callTokens, err := t.countToolCall(call, model)
		if err != nil {
			return 0, err
		}
		total += callTokens
	}

	if msg.ToolCallID != "" {
		idTokens, err := t.CountTokens(msg.ToolCallID, model)
		if err != nil {
			return 0, err
		}
		total += idTokens
	}

	return total, nil
}

// countContent counts tokens for text or multimodal content.
func (t *TiktokenTokenizer) countContent(content types.Content, model string) (int, error) {
	if content.Text != "" {
		return t.CountTokens(content.Text, model)
	}

	total := 0
	for _, part := range content.Parts {
		switch part.Type {
		case types.ContentTypeText:
			tokens, err := t.CountTokens(part.Text, model)
			if err != nil {
				return 0, err
			}
			total += tokens
		case types.ContentTypeImageURL:
			total += countImageTokens(part.ImageURL)
		}
	}
	return total, nil
}

// countImageTokens estimates the token cost of an image reference.
func countImageTokens(img *types.ImageURL) int {
	if img == nil {
		return 0
	}
	if img.Detail == "low" {
		return imageBaseTokens + imageTileTokens
	}
	// "high", "auto" and unspecified all get the high-detail estimate
	return imageBaseTokens + imageHighDetailMax*imageTileTokens
}

// countTools counts tokens for tool definitions.
func (t *TiktokenTokenizer) countTools(tools []types.Tool, model string) (int, error) {
	total := 0
	for _, tool := range tools {
		nameTokens, err := t.CountTokens(tool.Function.Name, model)
		if err != nil {
			return 0, err
		}
		total += nameTokens

		if tool.Function.Description != "" {
			descTokens, err := t.CountTokens(tool.Function.Description, model)
			if err != nil {
				return 0, err
			}
			total += descTokens
		}

		if tool.Function.Parameters != nil {
			paramsJSON, err := json.Marshal(tool.Function.Parameters)
			if err != nil {
				return 0, err
			}
			paramsTokens, err := t.CountTokens(string(paramsJSON), model)
			if err != nil {
				return 0, err
			}
			total += paramsTokens
		}

		total += 7 // structural overhead per tool definition
	}
	return total, nil
}

// countToolCall counts tokens for one tool call on an assistant message.
func (t *TiktokenTokenizer) countToolCall(call types.ToolCall, model string) (int, error) {
	total := 0

	idTokens, err := t.CountTokens(call.ID, model)
	if err != nil {
		return 0, err
	}
	total += idTokens

	nameTokens, err := t.CountTokens(call.Function.Name, model)
	if err != nil {
		return 0, err
	}
	total += nameTokens

	if call.Function.Arguments != "" {
		argTokens, err := t.CountTokens(call.Function.Arguments, model)
		if err != nil {
			return 0, err
		}
		total += argTokens
	}

	total += 5 // structural overhead per call
	return total, nil
}
