package coach

// WeightRx is a prescribed load split by gender, in whatever unit the
// whiteboard used (lbs unless stated otherwise).
type WeightRx struct {
	Male   string `json:"male"`
	Female string `json:"female"`
}

type Movement struct {
	Name      string    `json:"name"`
	Reps      string    `json:"reps"`
	WeightRx  *WeightRx `json:"weightRx,omitempty"`
	Equipment string    `json:"equipment,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// ParsedWorkout is the structured form of a whiteboard workout photo.
type ParsedWorkout struct {
	WorkoutType string     `json:"workoutType"`
	TimeCap     *float64   `json:"timeCap,omitempty"`
	Rounds      *int       `json:"rounds,omitempty"`
	Movements   []Movement `json:"movements"`
	Notes       string     `json:"notes,omitempty"`
	Confidence  string     `json:"confidence"`
}

type ScalingEntry struct {
	Movement string `json:"movement"`
	Original string `json:"original"`
	Scaled   string `json:"scaled"`
	Reason   string `json:"reason"`
}

type SetBreakdown struct {
	Movement string `json:"movement"`
	Strategy string `json:"strategy"`
}

type EstimatedTime struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type SubstitutionOption struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type Substitution struct {
	Movement string               `json:"movement"`
	Options  []SubstitutionOption `json:"options"`
}

// WodStrategy is a personalized execution plan for a parsed workout.
type WodStrategy struct {
	Scaling       []ScalingEntry `json:"scaling,omitempty"`
	Pacing        string         `json:"pacing"`
	SetBreakdowns []SetBreakdown `json:"setBreakdowns"`
	EstimatedTime EstimatedTime  `json:"estimatedTime"`
	Tips          []string       `json:"tips"`
	Cautions      []string       `json:"cautions,omitempty"`
	Substitutions []Substitution `json:"substitutions,omitempty"`
}

// UserProfile is the athlete's stored fitness context, all fields optional.
type UserProfile struct {
	ExperienceLevel string         `json:"experienceLevel,omitempty"`
	Skills          map[string]int `json:"skills,omitempty"`
	StrengthNumbers map[string]int `json:"strengthNumbers,omitempty"`
	Limitations     []string       `json:"limitations,omitempty"`
}
