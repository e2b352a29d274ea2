package model

import (
	"bytes"
	"encoding/json"
)

// Restaurant is one entry of a /recommend response. Field names are
// case-sensitive on the wire.
type Restaurant struct {
	Name        string `json:"Name"`
	FullAddress string `json:"Full_Address"`
	AverageCost Cost   `json:"AverageCost"`
	Cuisines    string `json:"Cuisines"`
	URL         string `json:"URL"`
}

// Cost keeps the textual form of a value the backend may send either as a
// JSON number or a JSON string.
type Cost string

func (c *Cost) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cost(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*c = Cost(n.String())
	}
	return nil
}

func (c Cost) String() string {
	return string(c)
}

// ErrorBody is the JSON object the backend returns with a non-2xx status.
type ErrorBody struct {
	Error string `json:"error"`
}
