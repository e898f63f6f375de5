package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Attachment references an uploaded file.
type Attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// EncodeAttachments serialises attachments into a JSON column value.
func EncodeAttachments(items []Attachment) (datatypes.JSON, error) {
	if items == nil {
		items = []Attachment{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(payload), nil
}

// DecodeAttachments parses a JSON column value. Empty or invalid payloads yield an empty slice.
func DecodeAttachments(raw datatypes.JSON) []Attachment {
	items := []Attachment{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Attachment{}
	}
	return items
}
