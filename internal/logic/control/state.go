package control

import "sync"

// State holds the actuator state for the whole run: tracked current angles
// and commanded target angles for both axes. Each field has a single
// writer — the dispatcher writes targets, the motion controllers write
// currents — but the mutex lets other goroutines (web status) take
// consistent snapshots.
type State struct {
	mu             sync.Mutex
	stepperCurrent float64
	stepperTarget  float64
	servoCurrent   int
	servoTarget    int
}

// NewState creates the state with both axes resting at their minimum
// angle, matching power-on.
func NewState(stepperMin float64, servoMin int) *State {
	return &State{
		stepperCurrent: stepperMin,
		stepperTarget:  stepperMin,
		servoCurrent:   servoMin,
		servoTarget:    servoMin,
	}
}

func (s *State) StepperTarget() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepperTarget
}

func (s *State) SetStepperTarget(angle float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepperTarget = angle
}

func (s *State) StepperCurrent() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepperCurrent
}

func (s *State) setStepperCurrent(angle float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepperCurrent = angle
}

func (s *State) ServoTarget() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servoTarget
}

func (s *State) SetServoTarget(angle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servoTarget = angle
}

func (s *State) ServoCurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servoCurrent
}

func (s *State) setServoCurrent(angle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servoCurrent = angle
}

// Snapshot is a consistent copy of the state for observers.
type Snapshot struct {
	StepperCurrent float64 `json:"stepper_current"`
	StepperTarget  float64 `json:"stepper_target"`
	ServoCurrent   int     `json:"servo_current"`
	ServoTarget    int     `json:"servo_target"`
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		StepperCurrent: s.stepperCurrent,
		StepperTarget:  s.stepperTarget,
		ServoCurrent:   s.servoCurrent,
		ServoTarget:    s.servoTarget,
	}
}
