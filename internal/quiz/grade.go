package quiz

import (
	"math"

	"progression-service/internal/domain"
)

// GradeSession grades answers keyed by presented option ID against a session
// built from the attempt's seed. Unknown or missing answers count as
// incorrect; grading itself never fails. Zero-question sessions grade as
// {0, 0, 0, false}.
func GradeSession(session domain.QuizSession, answers map[string]string, passThreshold int) domain.QuizResult {
	total := len(session.Questions)
	if total == 0 {
		return domain.QuizResult{}
	}

	correct := 0
	for _, q := range session.Questions {
		selected, ok := answers[q.ID]
		if !ok {
			continue
		}
		for _, opt := range q.Options {
			if opt.OptionID == selected {
				if opt.OriginalIndex == q.CorrectOriginalIndex {
					correct++
				}
				break
			}
		}
	}
	return result(correct, total, passThreshold)
}

// GradeQuiz grades answers keyed by canonical option index, for callers that
// bypass randomized presentation. Scoring semantics are identical to
// GradeSession.
func GradeQuiz(payload domain.QuizPayload, answers map[string]int, passThreshold int) domain.QuizResult {
	total := len(payload.Questions)
	if total == 0 {
		return domain.QuizResult{}
	}

	correct := 0
	for _, q := range payload.Questions {
		if idx, ok := answers[q.ID]; ok && idx == q.CorrectIndex {
			correct++
		}
	}
	return result(correct, total, passThreshold)
}

// ValidateAnswers rejects submissions that reference unknown questions or
// options. Run before grading; grading itself is permissive.
func ValidateAnswers(session domain.QuizSession, answers map[string]string) error {
	byQuestion := make(map[string]domain.PresentedQuestion, len(session.Questions))
	for _, q := range session.Questions {
		byQuestion[q.ID] = q
	}
	for questionID, selected := range answers {
		q, ok := byQuestion[questionID]
		if !ok {
			return domain.NewValidationError("answers", "unknown question "+questionID)
		}
		found := false
		for _, opt := range q.Options {
			if opt.OptionID == selected {
				found = true
				break
			}
		}
		if !found {
			return domain.NewValidationError("answers", "unknown option for question "+questionID)
		}
	}
	return nil
}

func result(correct, total, passThreshold int) domain.QuizResult {
	score := int(math.Round(100 * float64(correct) / float64(total)))
	return domain.QuizResult{
		TotalQuestions: total,
		CorrectAnswers: correct,
		ScorePercent:   score,
		Passed:         score >= passThreshold,
	}
}
