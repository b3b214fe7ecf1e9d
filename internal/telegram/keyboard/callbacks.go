package keyboard

import (
	"fmt"
	"strings"
)

// Callback actions
const (
	ActionConfirm  = "confirm"
	ActionNew      = "new"
	ActionLoad     = "load"
	ActionDownload = "dl"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	action, value, ok := strings.Cut(data, ":")
	if !ok || action == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: action,
		Value:  value,
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return action + ":" + value
}
