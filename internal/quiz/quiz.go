package quiz

import (
	"time"

	"github.com/verte-zerg/cprtrain/internal/model"
)

// Question is a multiple-choice question.
type Question struct {
	Text        string
	Options     []string
	Correct     int
	Explanation string
}

// DefaultCount is the number of questions in a quiz.
const DefaultCount = 10

// Bank returns the built-in question bank.
func Bank() []Question {
	return append([]Question(nil), bank...)
}

// Grade scores answered questions. Unanswered trailing questions are
// ignored; ok is false when nothing was answered.
func Grade(questions []Question, answers []int, now time.Time) (model.QuizResult, bool) {
	if len(answers) == 0 {
		return model.QuizResult{}, false
	}
	if len(answers) > len(questions) {
		answers = answers[:len(questions)]
	}
	correct := 0
	for i, a := range answers {
		if a == questions[i].Correct {
			correct++
		}
	}
	return model.QuizResult{
		Score:       float64(correct) / float64(len(answers)) * 100,
		Correct:     correct,
		Total:       len(answers),
		CompletedAt: now,
	}, true
}

var bank = []Question{
	{
		Text:        "What is the correct compression rate for adult CPR?",
		Options:     []string{"60-80 BPM", "80-100 BPM", "100-120 BPM", "120-140 BPM"},
		Correct:     2,
		Explanation: "The American Heart Association recommends 100-120 compressions per minute for effective CPR.",
	},
	{
		Text:        "How deep should chest compressions be for an adult?",
		Options:     []string{"At least 1 inch (2.5 cm)", "At least 1.5 inches (3.8 cm)", "At least 2 inches (5 cm)", "At least 3 inches (7.6 cm)"},
		Correct:     2,
		Explanation: "Adult chest compressions should be at least 2 inches (5 cm) deep to be effective.",
	},
	{
		Text:        "What is the compression-to-ventilation ratio for single-rescuer adult CPR?",
		Options:     []string{"15:2", "30:2", "5:1", "10:1"},
		Correct:     1,
		Explanation: "The standard ratio is 30 compressions to 2 rescue breaths for single-rescuer adult CPR.",
	},
	{
		Text:        "Where should you place your hands for adult chest compressions?",
		Options:     []string{"Upper chest", "Lower chest", "Center of chest between nipples", "Left side of chest"},
		Correct:     2,
		Explanation: "Place the heel of your hand on the center of the chest between the nipples on the lower half of the breastbone.",
	},
	{
		Text:        "How often should you switch compressors during team CPR?",
		Options:     []string{"Every 30 seconds", "Every 1 minute", "Every 2 minutes", "Every 5 minutes"},
		Correct:     2,
		Explanation: "Switch compressors every 2 minutes to prevent fatigue and maintain compression quality.",
	},
	{
		Text:        "What should you do if an AED becomes available during CPR?",
		Options:     []string{"Continue CPR and ignore the AED", "Stop CPR immediately and use the AED", "Finish the current cycle then use the AED", "Use the AED only if CPR isn't working"},
		Correct:     2,
		Explanation: "Complete the current cycle of compressions, then apply the AED as soon as possible.",
	},
	{
		Text:        "For infant CPR, what is the preferred compression method for healthcare providers?",
		Options:     []string{"One hand", "Two fingers", "Two thumbs encircling technique", "Palm of hand"},
		Correct:     2,
		Explanation: "Healthcare providers should use the two-thumb encircling technique for infant CPR.",
	},
	{
		Text:        "What is the first step in the Chain of Survival?",
		Options:     []string{"Early CPR", "Early defibrillation", "Early recognition and activation of emergency response", "Advanced life support"},
		Correct:     2,
		Explanation: "Early recognition of cardiac arrest and activation of the emergency response system is the first critical step.",
	},
	{
		Text:        "When should you NOT perform CPR?",
		Options:     []string{"If the person is unconscious", "If the person is breathing normally", "If you don't know the person", "If you're not certified"},
		Correct:     1,
		Explanation: "CPR is only for unresponsive victims who are not breathing normally.",
	},
	{
		Text:        "What does 'hands-only CPR' mean?",
		Options:     []string{"CPR using only one hand", "CPR without rescue breathing", "CPR without checking pulse", "CPR for trained professionals only"},
		Correct:     1,
		Explanation: "Hands-only CPR means continuous chest compressions without rescue breathing.",
	},
	{
		Text:        "How long should you check for breathing before starting CPR?",
		Options:     []string{"No more than 5 seconds", "No more than 10 seconds", "No more than 15 seconds", "At least 30 seconds"},
		Correct:     1,
		Explanation: "Check for normal breathing for no more than 10 seconds, then start CPR if breathing is absent or only gasping.",
	},
	{
		Text:        "What is the correct hand position for infant chest compressions using the two-finger technique?",
		Options:     []string{"Center of chest", "Just below the nipple line", "Upper chest", "Just above the nipple line"},
		Correct:     1,
		Explanation: "Place two fingers just below the nipple line on the lower half of the breastbone.",
	},
}
