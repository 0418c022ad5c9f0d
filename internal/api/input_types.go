package api

import (
	"bytes"
	"encoding/json"
)

type diaryEntryPayload struct {
	Date            string          `json:"date"`
	Reflection      string          `json:"reflection"`
	AdditionalNotes string          `json:"additional_notes"`
	Praises         []praisePayload `json:"praises"`
}

type diaryEntryUpdatePayload struct {
	Reflection      *string          `json:"reflection"`
	AdditionalNotes *string          `json:"additional_notes"`
	Praises         *[]praisePayload `json:"praises"`
}

// praisePayload accepts a bare JSON string or an object carrying the text
// under "text", "praiseText" or "praise_text".
type praisePayload struct {
	Text string `json:"text"`
}

func (payload *praisePayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &payload.Text)
	}

	var decoded struct {
		Text       *string `json:"text"`
		PraiseText *string `json:"praiseText"`
		SnakeText  *string `json:"praise_text"`
	}
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	payload.Text = ""
	for _, candidate := range []*string{decoded.Text, decoded.PraiseText, decoded.SnakeText} {
		if candidate != nil {
			payload.Text = *candidate
			break
		}
	}
	return nil
}

type habitPayload struct {
	Name                     string  `json:"name"`
	SupplementaryDescription *string `json:"supplementary_description"`
}

type inquiryPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func praiseTexts(payloads []praisePayload) []string {
	texts := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		texts = append(texts, payload.Text)
	}
	return texts
}
