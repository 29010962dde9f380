package jobs

import (
	"encoding/json"
	"fmt"
	"strings"
)

func EncodePayload(t JobType, payload any) ([]byte, error) {
	if !t.IsValid() {
		return nil, ErrInvalidJobType
	}

	switch t {
	case JobWelcomeEmail:
		_, ok := payload.(WelcomeEmailPayload)

		if !ok {
			_, ok2 := payload.(*WelcomeEmailPayload)

			if !ok2 {
				return nil, ErrPayloadTypeMismatch
			}
		}
	}

	b, err := json.Marshal(payload)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
	}

	return b, nil
}

// DecodeWelcomeEmail unmarshals and minimally validates a welcome email payload.
func DecodeWelcomeEmail(raw json.RawMessage) (WelcomeEmailPayload, error) {
	if len(raw) == 0 {
		return WelcomeEmailPayload{}, ErrInvalidJobPayload
	}

	var p WelcomeEmailPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return WelcomeEmailPayload{}, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
	}

	if strings.TrimSpace(p.UserID) == "" || strings.TrimSpace(p.Email) == "" {
		return WelcomeEmailPayload{}, ErrInvalidJobPayload
	}

	return p, nil
}
