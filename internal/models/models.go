package models

// SessionState хранит прогресс пользователя в сценарии записи.
// Живет только на время незавершенного сценария и не переживает рестарт процесса.
type SessionState struct {
	UserID   int64  `json:"user_id"`
	Step     string `json:"step"`
	Service  string `json:"service,omitempty"`
	Date     string `json:"date,omitempty"`
	UserName string `json:"user_name,omitempty"`
}

// HasService сообщает, выбрана ли услуга на предыдущем шаге.
func (s *SessionState) HasService() bool {
	return s != nil && s.Service != ""
}

// HasDate сообщает, выбрана ли дата на предыдущем шаге.
func (s *SessionState) HasDate() bool {
	return s != nil && s.Date != ""
}
