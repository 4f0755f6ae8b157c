package health

import "time"

// Service reports process liveness.
type Service struct {
	startedAt time.Time
	now       func() time.Time
}

// NewService constructs a health service anchored at the current time.
func NewService() *Service {
	return &Service{startedAt: time.Now(), now: time.Now}
}

// Status is the /health payload.
type Status struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

// Status returns liveness and uptime in seconds.
func (s *Service) Status() Status {
	return Status{
		Status: "ok",
		Uptime: s.now().Sub(s.startedAt).Seconds(),
	}
}
