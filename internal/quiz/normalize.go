package quiz

import (
	"fmt"
	"strings"

	"progression-service/internal/domain"
)

// Validate enforces the authoring contract: every question needs a non-empty
// prompt, at least two non-empty options, and a correct index that points at
// one of them. Authoring-time callers must reject payloads that fail this
// rather than coerce them.
func Validate(payload domain.QuizPayload) error {
	if len(payload.Questions) == 0 {
		return domain.NewValidationError("questions", "quiz has no questions")
	}
	for i, q := range payload.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(q.Prompt) == "" {
			return domain.NewValidationError(field+".prompt", "prompt is empty")
		}
		if len(q.Options) < 2 {
			return domain.NewValidationError(field+".options", "at least two options required")
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt.Text) == "" {
				return domain.NewValidationError(fmt.Sprintf("%s.options[%d]", field, j), "option text is empty")
			}
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return domain.NewValidationError(field+".correctIndex", "index out of range")
		}
	}
	return nil
}

// Normalize repairs potentially malformed persisted payloads instead of
// rejecting them: blank titles and missing question IDs get defaults, empty
// options are dropped, and out-of-range correct indexes are clamped to the
// first option. Use Validate for authoring input; Normalize only for data
// already in the store.
func Normalize(payload domain.QuizPayload) domain.QuizPayload {
	out := payload
	if strings.TrimSpace(out.Title) == "" {
		out.Title = "Untitled quiz"
	}

	questions := make([]domain.Question, 0, len(out.Questions))
	for i, q := range out.Questions {
		if strings.TrimSpace(q.ID) == "" {
			q.ID = fmt.Sprintf("q-%d", i+1)
		}
		q.Prompt = strings.TrimSpace(q.Prompt)

		options := make([]domain.Option, 0, len(q.Options))
		correct := q.CorrectIndex
		for j, opt := range q.Options {
			text := strings.TrimSpace(opt.Text)
			if text == "" {
				// Dropping an option shifts indexes after it.
				if j < correct {
					correct--
				} else if j == correct {
					correct = 0
				}
				continue
			}
			options = append(options, domain.Option{Text: text})
		}
		if correct < 0 || correct >= len(options) {
			correct = 0
		}
		q.Options = options
		q.CorrectIndex = correct
		questions = append(questions, q)
	}
	out.Questions = questions
	return out
}
