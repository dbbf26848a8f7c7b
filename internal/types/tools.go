package types

import "encoding/json"

// ToolTypeFunction is the only tool type currently defined by the API.
const ToolTypeFunction = "function"

// Tool declares a tool available to the model.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function describes a callable function.
type Function struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  interface{} `json:"parameters,omitempty"` // JSON Schema object
	Strict      *bool       `json:"strict,omitempty"`
}

// ToolCall is a call emitted by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
	Index    *int         `json:"index,omitempty"` // Streaming only
}

// FunctionCall carries the function name and raw JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolChoice is "none", "auto", "required", or a specific tool object.
type ToolChoice struct {
	Type     string          `json:"type,omitempty"`
	Function *ToolChoiceFunc `json:"function,omitempty"`
	Auto     bool            `json:"-"`
	None     bool            `json:"-"`
	Required bool            `json:"-"`
}

// ToolChoiceFunc names a specific function to call.
type ToolChoiceFunc struct {
	Name string `json:"name"`
}

// MarshalJSON emits the string shorthands when set.
func (tc ToolChoice) MarshalJSON() ([]byte, error) {
	switch {
	case tc.None:
		return []byte(`"none"`), nil
	case tc.Auto:
		return []byte(`"auto"`), nil
	case tc.Required:
		return []byte(`"required"`), nil
	}
	type alias ToolChoice
	return json.Marshal(alias(tc))
}

// UnmarshalJSON accepts both the string shorthands and the object form.
func (tc *ToolChoice) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		switch str {
		case "none":
			tc.None = true
		case "auto":
			tc.Auto = true
		case "required":
			tc.Required = true
		}
		return nil
	}
	type alias ToolChoice
	return json.Unmarshal(data, (*alias)(tc))
}
