package jobs

import (
	"encoding/json"
	"time"
)

const TypeWelcomeEmail = string(JobWelcomeEmail)

type WelcomeEmailPayload struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func (p WelcomeEmailPayload) JSON() (json.RawMessage, error) {
	b, err := json.Marshal(p)

	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
