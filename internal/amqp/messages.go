package amqp

import (
	"encoding/json"
	"time"
)

// ContributionStatusMessage announces that a contribution's approval status
// changed. Consumers that need the full record fetch it from the database.
type ContributionStatusMessage struct {
	ContributionID int64     `json:"contribution_id"`
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewContributionStatusMessage(id int64, status string) *ContributionStatusMessage {
	return &ContributionStatusMessage{
		ContributionID: id,
		Status:         status,
		Timestamp:      time.Now(),
	}
}

func (m *ContributionStatusMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ContributionStatusMessageFromJSON(data []byte) (*ContributionStatusMessage, error) {
	var msg ContributionStatusMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
