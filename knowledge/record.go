package knowledge

import (
	"fmt"
	"strings"

	"github.com/growbot/faqrag/codec"
)

// Record is one knowledge base entry. ID is its position in the store.
type Record struct {
	ID       int    `json:"id"`
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
}

// RawRecord is a build input before ids are assigned.
type RawRecord struct {
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
}

// Hit is a retrieved record with its squared Euclidean distance to the query.
type Hit struct {
	Record
	Distance float32 `json:"distance"`
}

// ParseRawRecords decodes a JSON array of {"problem", "solution"} objects.
func ParseRawRecords(data []byte) ([]RawRecord, error) {
	var raw []RawRecord
	if err := codec.Default.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("knowledge: parse records: %w", err)
	}
	for i, r := range raw {
		if strings.TrimSpace(r.Problem) == "" {
			return nil, fmt.Errorf("knowledge: record %d has an empty problem", i)
		}
	}
	if raw == nil {
		raw = []RawRecord{}
	}
	return raw, nil
}
