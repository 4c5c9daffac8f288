package coach

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const parseSystemPrompt = `You are an expert CrossFit coach reading a whiteboard workout photo.
Extract the workout into JSON with this exact shape:
{"workoutType": "AMRAP"|"For Time"|"EMOM"|"Chipper"|"Intervals"|"Other", "timeCap": number, "rounds": number, "movements": [{"name": string, "reps": string, "weightRx": {"male": string, "female": string}, "equipment": string, "notes": string}], "notes": string, "confidence": "high"|"medium"|"low"}
Omit optional fields you cannot read. Set confidence to "low" when handwriting is unclear.
Respond with a single JSON object and nothing else.`

const parseUserPrompt = `Parse the workout written on this whiteboard.`

const strategySystemPrompt = `You are an expert CrossFit coach writing an execution strategy for one athlete.
Respond with JSON in this exact shape:
{"scaling": [{"movement": string, "original": string, "scaled": string, "reason": string}], "pacing": string, "setBreakdowns": [{"movement": string, "strategy": string}], "estimatedTime": {"min": number, "max": number}, "tips": [string], "cautions": [string], "substitutions": [{"movement": string, "options": [{"name": string, "reason": string}]}]}
Every movement in the workout needs a setBreakdowns entry. Only include scaling, cautions and substitutions when the athlete's profile warrants them.
Respond with a single JSON object and nothing else.`

// builds the user turn for a strategy request. Built deterministically so
// identical inputs produce identical prompts.
func buildStrategyPrompt(workout *ParsedWorkout, profile *UserProfile) (string, error) {
	workoutJSON, err := json.Marshal(workout)
	if err != nil {
		return "", fmt.Errorf("failed to marshal workout: %w", err)
	}

	var b strings.Builder

	b.WriteString("Workout:\n")
	b.Write(workoutJSON)
	b.WriteString("\n\nAthlete profile:\n")

	if profile == nil {
		b.WriteString("No profile on record. Assume an intermediate athlete with no limitations.\n")
		return b.String(), nil
	}

	if profile.ExperienceLevel != "" {
		fmt.Fprintf(&b, "Experience level: %s\n", profile.ExperienceLevel)
	}

	writeSortedInts(&b, "Skill levels (1-5)", profile.Skills)
	writeSortedInts(&b, "Strength numbers (lbs)", profile.StrengthNumbers)

	if len(profile.Limitations) > 0 {
		fmt.Fprintf(&b, "Limitations: %s\n", strings.Join(profile.Limitations, ", "))
	}

	return b.String(), nil
}

func writeSortedInts(b *strings.Builder, label string, values map[string]int) {
	if len(values) == 0 {
		return
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "%s:\n", label)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %d\n", k, values[k])
	}
}
