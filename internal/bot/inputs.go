package bot

import "sync"

type inputStep string

const (
	stepNone         inputStep = "none"
	stepLoginEmail   inputStep = "login_email"
	stepLoginPass    inputStep = "login_pass"
	stepSignupName   inputStep = "signup_name"
	stepSignupEmail  inputStep = "signup_email"
	stepSignupPass   inputStep = "signup_pass"
	stepSignupRepeat inputStep = "signup_repeat"
	stepTodoTitle    inputStep = "todo_title"
	stepTodoDesc     inputStep = "todo_desc"
	stepHolidayDate  inputStep = "holiday_date"
	stepAdminEmail   inputStep = "admin_email"
	stepAdminPass    inputStep = "admin_pass"
	stepServiceName  inputStep = "service_name"
	stepServicePrice inputStep = "service_price"
	stepServiceDur   inputStep = "service_duration"
	stepStaffName    inputStep = "staff_name"
	stepStaffAge     inputStep = "staff_age"
	stepStaffGender  inputStep = "staff_gender"
	stepWeeklyOff    inputStep = "weekly_off"
	stepWorkingHours inputStep = "working_hours"
)

// inputState is the pending text prompt for one user plus the values already
// collected.
type inputState struct {
	Step   inputStep
	Fields map[string]string
}

type inputStore struct {
	mu sync.Mutex
	m  map[int64]*inputState
}

func newInputStore() *inputStore {
	return &inputStore{m: make(map[int64]*inputState)}
}

func (s *inputStore) step(userID int64) inputStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.m[userID]
	if st == nil {
		return stepNone
	}
	return st.Step
}

func (s *inputStore) set(userID int64, step inputStep, fields map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.m[userID]
	if st == nil {
		st = &inputState{Fields: make(map[string]string)}
		s.m[userID] = st
	}
	st.Step = step
	for k, v := range fields {
		st.Fields[k] = v
	}
}

func (s *inputStore) fields(userID int64) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.m[userID]
	if st == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(st.Fields))
	for k, v := range st.Fields {
		out[k] = v
	}
	return out
}

func (s *inputStore) reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}
