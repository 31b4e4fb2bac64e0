package quiz

import (
	"errors"
	"testing"

	"progression-service/internal/domain"
)

// answerSession picks a presented option ID for every question: the correct
// one unless the question ID appears in wrong.
func answerSession(session domain.QuizSession, wrong map[string]bool) map[string]string {
	answers := make(map[string]string, len(session.Questions))
	for _, q := range session.Questions {
		for _, opt := range q.Options {
			if wrong[q.ID] {
				if opt.OriginalIndex != q.CorrectOriginalIndex {
					answers[q.ID] = opt.OptionID
					break
				}
			} else if opt.OriginalIndex == q.CorrectOriginalIndex {
				answers[q.ID] = opt.OptionID
				break
			}
		}
	}
	return answers
}

func TestGradeSessionScores(t *testing.T) {
	payload := fourQuestionPayload()
	session := BuildSession(payload, "u1:m1:1")

	cases := []struct {
		name    string
		wrong   map[string]bool
		correct int
		score   int
		passed  bool
	}{
		{"all correct", nil, 4, 100, true},
		{"one wrong", map[string]bool{"q3": true}, 3, 75, true},
		{"two wrong", map[string]bool{"q2": true, "q4": true}, 2, 50, false},
		{"all wrong", map[string]bool{"q1": true, "q2": true, "q3": true, "q4": true}, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GradeSession(session, answerSession(session, tc.wrong), 70)
			want := domain.QuizResult{
				TotalQuestions: 4,
				CorrectAnswers: tc.correct,
				ScorePercent:   tc.score,
				Passed:         tc.passed,
			}
			if got != want {
				t.Fatalf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestGradeSessionMissingAnswersIncorrect(t *testing.T) {
	session := BuildSession(fourQuestionPayload(), "u1:m1:1")
	answers := answerSession(session, nil)
	delete(answers, "q1")
	delete(answers, "q2")

	got := GradeSession(session, answers, 70)
	if got.CorrectAnswers != 2 || got.ScorePercent != 50 || got.Passed {
		t.Fatalf("got %+v, want 2 correct / 50%% / failed", got)
	}
}

func TestGradeSessionZeroQuestions(t *testing.T) {
	session := BuildSession(domain.QuizPayload{ModuleID: "m-empty"}, "u1:m-empty:1")
	got := GradeSession(session, nil, 70)
	if got != (domain.QuizResult{}) {
		t.Fatalf("zero-question session graded as %+v, want zero value", got)
	}
}

func TestGradeQuizMatchesGradeSession(t *testing.T) {
	payload := fourQuestionPayload()
	session := BuildSession(payload, "u1:m1:2")

	// Translate presented answers back to canonical indexes and grade both
	// ways; results must agree.
	wrong := map[string]bool{"q2": true}
	presented := answerSession(session, wrong)

	canonical := make(map[string]int, len(presented))
	for _, q := range session.Questions {
		selected := presented[q.ID]
		for _, opt := range q.Options {
			if opt.OptionID == selected {
				canonical[q.ID] = opt.OriginalIndex
			}
		}
	}

	fromSession := GradeSession(session, presented, 70)
	fromQuiz := GradeQuiz(payload, canonical, 70)
	if fromSession != fromQuiz {
		t.Fatalf("GradeSession %+v disagrees with GradeQuiz %+v", fromSession, fromQuiz)
	}
}

func TestGradeRounding(t *testing.T) {
	payload := domain.QuizPayload{
		ModuleID: "m-3",
		Questions: []domain.Question{
			{ID: "q1", Prompt: "p", Options: []domain.Option{{Text: "a"}, {Text: "b"}}, CorrectIndex: 0},
			{ID: "q2", Prompt: "p", Options: []domain.Option{{Text: "a"}, {Text: "b"}}, CorrectIndex: 0},
			{ID: "q3", Prompt: "p", Options: []domain.Option{{Text: "a"}, {Text: "b"}}, CorrectIndex: 0},
		},
	}
	// 2/3 rounds to 67, 1/3 to 33.
	got := GradeQuiz(payload, map[string]int{"q1": 0, "q2": 0, "q3": 1}, 70)
	if got.ScorePercent != 67 {
		t.Fatalf("2/3 scored %d, want 67", got.ScorePercent)
	}
	got = GradeQuiz(payload, map[string]int{"q1": 0}, 70)
	if got.ScorePercent != 33 {
		t.Fatalf("1/3 scored %d, want 33", got.ScorePercent)
	}
}

func TestValidateAnswers(t *testing.T) {
	session := BuildSession(fourQuestionPayload(), "u1:m1:1")
	good := answerSession(session, nil)

	if err := ValidateAnswers(session, good); err != nil {
		t.Fatalf("valid answers rejected: %v", err)
	}

	var verr *domain.ValidationError

	bad := map[string]string{"nope": good["q1"]}
	if err := ValidateAnswers(session, bad); !errors.As(err, &verr) {
		t.Fatalf("unknown question not rejected, got %v", err)
	}

	bad = map[string]string{"q1": "not-an-option-id"}
	if err := ValidateAnswers(session, bad); !errors.As(err, &verr) {
		t.Fatalf("unknown option not rejected, got %v", err)
	}
}
