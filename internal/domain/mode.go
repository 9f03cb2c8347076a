package domain

// Mode selects which analyzer produces the result.
type Mode string

const (
	// ModeRule is the deterministic rule cascade.
	ModeRule Mode = "rule"
	// ModeML is the statistical model.
	ModeML Mode = "ml"
	// ModeLLM is the generative text model.
	ModeLLM Mode = "llm"
)

// ParseMode maps a caller-supplied string onto a known mode. ok is false
// for anything unknown so callers can substitute their default.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeRule, ModeML, ModeLLM:
		return Mode(s), true
	default:
		return "", false
	}
}

func (m Mode) String() string {
	return string(m)
}
