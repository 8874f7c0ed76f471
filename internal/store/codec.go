package store

import (
	"encoding/json"

	"github.com/soaringjerry/formdrop/internal/models"
)

// encodeResponses renders the full collection as an indented JSON array.
// A nil slice still encodes as [] so the file never contains "null".
func encodeResponses(rs []models.Response) ([]byte, error) {
	if rs == nil {
		rs = []models.Response{}
	}
	return json.MarshalIndent(rs, "", "    ")
}

// decodeResponses parses the collection file contents. Callers treat any
// error as "no records yet"; corruption must never take the collector down.
func decodeResponses(data []byte) ([]models.Response, error) {
	rs := []models.Response{}
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}
