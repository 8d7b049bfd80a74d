package deal

import "strings"

// ResolveFollowUp implements the rule for locating where the conversation
// stopped: scan from step 5 down to 1 for the last step with a non-blank
// description. Returns the last answered step (0 when none), the next step
// clamped to [1,5], and the temperature recorded at the last answered step.
func ResolveFollowUp(descriptions, temperatures [Steps]string) (last, next int, temperature string) {
	temperature = NotInformedF

	for i := Steps - 1; i >= 0; i-- {
		if strings.TrimSpace(descriptions[i]) == "" {
			continue
		}
		last = i + 1
		if t := strings.TrimSpace(temperatures[i]); t != "" {
			temperature = t
		}
		break
	}

	switch {
	case last == 0:
		next = 1
	case last < Steps:
		next = last + 1
	default:
		// Sequence exhausted: there is no step 6, stay at 5.
		next = Steps
	}

	return last, next, temperature
}

// Resolve annotates a record with its derived follow-up fields.
func Resolve(r *Record) {
	r.LastStep, r.NextStep, r.CurrentTemperature = ResolveFollowUp(r.Descriptions, r.Temperatures)
}
