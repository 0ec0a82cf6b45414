package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrUnsupportedValue is returned when a score field is neither a string nor a number
var ErrUnsupportedValue = errors.New("value must be a string or a number")

// SignupRequest is the request body for registering the account
type SignupRequest struct {
	UserHandle string `json:"userHandle"`
	Password   string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	UserHandle string `json:"userHandle"`
	Password   string `json:"password"`
}

// SubmitScoreRequest is the request body for posting a high score
type SubmitScoreRequest struct {
	Level      FlexString `json:"level"`
	UserHandle FlexString `json:"userHandle"`
	Score      FlexString `json:"score"`
	Timestamp  FlexString `json:"timestamp"`
}

// FlexString accepts a JSON string or a JSON number and keeps its text.
// Null and numeric zero decode to the empty string, which callers treat as missing.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(n.String(), 64); err == nil && v == 0 {
			*f = ""
			return nil
		}
		*f = FlexString(n.String())
		return nil
	default:
		return ErrUnsupportedValue
	}
}
