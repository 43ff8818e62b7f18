package notifier

import "encoding/json"

// Tipe event yang dipublish setelah transaksi utama commit.
const (
	EventVerifyEmail   = "user.verify_email"
	EventResetPassword = "user.reset_password"
	EventThreadReply   = "thread.reply"
)

type Event struct {
	Type    string `json:"type"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Token   string `json:"token,omitempty"`
	Subject string `json:"subject,omitempty"` // subject thread untuk notifikasi balasan
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalEvent(raw string) (Event, error) {
	var e Event
	err := json.Unmarshal([]byte(raw), &e)
	return e, err
}
