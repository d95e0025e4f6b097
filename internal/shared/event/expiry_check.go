package event

const CheckRequestedDestination string = "expiry_check_requested"
const CheckRequestedConsumerExpiry string = "expiry_check_requested_expiry"

// CheckRequestedMessage asks for a check run. An empty Date means today.
type CheckRequestedMessage struct {
	Date   string `json:"date,omitempty"`
	Source string `json:"source,omitempty"`
}

const CheckCompletedDestination string = "expiry_check_completed"

type CheckCompletedMessage struct {
	RunID      int64  `json:"run_id"`
	Date       string `json:"date"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
	Issues     int    `json:"issues"`
	FinishedAt string `json:"finished_at"`
}
