package dto

import "psi/internal/domain/enums"

// EnumValueResponse represents one enum value.
type EnumValueResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Code    string `json:"code"`
	Display string `json:"display"`
}

// FromEnumValues maps enum values to responses.
func FromEnumValues(values []enums.EnumValue) []EnumValueResponse {
	out := make([]EnumValueResponse, len(values))
	for i, v := range values {
		out[i] = EnumValueResponse{
			ID:      v.ID.String(),
			Type:    v.Type,
			Code:    v.Code,
			Display: v.Display,
		}
	}
	return out
}
