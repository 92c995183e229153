package quiz

import "github.com/verte-zerg/cprtrain/internal/model"

// Assessment is the letter grade and advice for a quiz score.
type Assessment struct {
	Grade   string
	Type    model.Severity
	Message string
}

// Assess maps a percentage score to a grade.
func Assess(score float64) Assessment {
	switch {
	case score >= 90:
		return Assessment{Grade: "A+", Type: model.SeveritySuccess,
			Message: "Outstanding! You have excellent CPR knowledge and are well-prepared for emergency situations."}
	case score >= 80:
		return Assessment{Grade: "A", Type: model.SeveritySuccess,
			Message: "Great job! You have solid CPR knowledge. Review the questions you missed to improve further."}
	case score >= 70:
		return Assessment{Grade: "B", Type: model.SeverityWarning,
			Message: "Good effort! You have basic CPR knowledge. Study the guidelines and retake the quiz."}
	case score >= 60:
		return Assessment{Grade: "C", Type: model.SeverityWarning,
			Message: "Keep studying! Review the CPR guidelines before retaking the quiz."}
	default:
		return Assessment{Grade: "D", Type: model.SeverityError,
			Message: "More practice needed! Spend time with the guidelines and the trainer before retaking the quiz."}
	}
}
