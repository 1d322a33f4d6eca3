package web

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// actionSignals is what the page posts with select and submit actions.
type actionSignals struct {
	Selected string  `json:"selected"`
	Text     string  `json:"text"`
	Rating   flexInt `json:"rating"`
}

// flexInt accepts a JSON number or a numeric string, since a bound
// <select> may report its value either way.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}
