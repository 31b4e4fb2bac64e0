package quiz

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"progression-service/internal/domain"
)

// BuildSession derives the randomized presentation of a quiz for one attempt.
// The same (payload, seed) always produces the same question order, option
// order, and option IDs. Question order comes from an RNG keyed by the seed;
// each question's options are shuffled with an independent sub-seed, so
// editing one question never disturbs the ordering of the others.
func BuildSession(payload domain.QuizPayload, seed string) domain.QuizSession {
	order := make([]int, len(payload.Questions))
	for i := range order {
		order[i] = i
	}
	rng := newRNG(seed)
	shuffle(len(order), rng, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	questions := make([]domain.PresentedQuestion, 0, len(order))
	for _, qi := range order {
		q := payload.Questions[qi]
		questions = append(questions, presentQuestion(q, qi, seed))
	}

	return domain.QuizSession{
		ModuleID:  payload.ModuleID,
		Title:     payload.Title,
		Seed:      seed,
		Questions: questions,
	}
}

func presentQuestion(q domain.Question, canonicalIndex int, seed string) domain.PresentedQuestion {
	perm := make([]int, len(q.Options))
	for i := range perm {
		perm[i] = i
	}
	subSeed := fmt.Sprintf("%s:%s:%d", seed, q.ID, canonicalIndex)
	rng := newRNG(subSeed)
	shuffle(len(perm), rng, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	options := make([]domain.PresentedOption, 0, len(perm))
	for _, orig := range perm {
		options = append(options, domain.PresentedOption{
			OptionID:      optionID(seed, q.ID, orig),
			Label:         q.Options[orig].Text,
			OriginalIndex: orig,
		})
	}

	return domain.PresentedQuestion{
		ID:                   q.ID,
		Prompt:               q.Prompt,
		Options:              options,
		CorrectOriginalIndex: q.CorrectIndex,
		Explanation:          q.Explanation,
	}
}

// optionID is an opaque per-attempt identifier for one answer choice. It is a
// hash of (seed, question, original index) so a rebuilt session yields the
// same IDs while the ID itself reveals nothing about correctness or canonical
// position.
func optionID(seed, questionID string, originalIndex int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", seed, questionID, originalIndex)))
	return hex.EncodeToString(sum[:])[:10]
}
