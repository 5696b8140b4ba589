package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	localCache "git.solsynth.dev/hypernet/polls/pkg/internal/cache"
	"git.solsynth.dev/hypernet/polls/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

func GetQuestionResultsCacheKey(questionId uint) string {
	return fmt.Sprintf("question-results#%d", questionId)
}

// Bumped after every committed write touching a question's tallies.
// Cached results stamped with an older generation are never served.
var questionResultsGenerations sync.Map

type cachedQuestionResults struct {
	Generation uint64                 `json:"generation"`
	Results    models.QuestionResults `json:"results"`
}

func questionResultsGeneration(id uint) *atomic.Uint64 {
	val, _ := questionResultsGenerations.LoadOrStore(id, new(atomic.Uint64))
	return val.(*atomic.Uint64)
}

func CalcQuestionResults(question models.Question) models.QuestionResults {
	total := lo.SumBy(question.Choices, func(item models.Choice) int64 {
		return item.Votes
	})

	return models.QuestionResults{
		Question: question,
		Total:    total,
		Choices: lo.Map(question.Choices, func(item models.Choice, _ int) models.ChoiceResults {
			var percentage float64
			if total > 0 {
				percentage = float64(item.Votes) / float64(total)
			}
			return models.ChoiceResults{
				ID:         item.ID,
				ChoiceText: item.ChoiceText,
				Votes:      item.Votes,
				Percentage: percentage,
			}
		}),
	}
}

// GetQuestionResults tallies the votes of a published question, served from the local cache when possible.
func GetQuestionResults(id uint, now time.Time) (models.QuestionResults, error) {
	generation := questionResultsGeneration(id)
	seen := generation.Load()

	var marshal *marshaler.Marshaler
	ctx := context.Background()
	if localCache.S != nil {
		marshal = marshaler.New(cache.New[any](localCache.S))
		if val, err := marshal.Get(ctx, GetQuestionResultsCacheKey(id), new(cachedQuestionResults)); err == nil {
			cached := *val.(*cachedQuestionResults)
			if cached.Generation == seen && cached.Results.Question.IsPublished(now) {
				return cached.Results, nil
			}
		}
	}

	question, err := GetPublishedQuestion(id, now)
	if err != nil {
		return models.QuestionResults{}, err
	}

	results := CalcQuestionResults(question)

	// A write committed since the read above; the tally may already be stale.
	if marshal == nil || generation.Load() != seen {
		return results, nil
	}

	ttl := viper.GetDuration("cache.results_ttl")
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if err := marshal.Set(
		ctx,
		GetQuestionResultsCacheKey(id),
		cachedQuestionResults{Generation: seen, Results: results},
		store.WithExpiration(ttl),
	); err != nil {
		log.Warn().Err(err).Uint("question", id).Msg("An error occurred when caching question results...")
	}

	return results, nil
}

// InvalidateQuestionResults must be called after the write it reflects has committed.
func InvalidateQuestionResults(id uint) {
	questionResultsGeneration(id).Add(1)
	if localCache.S == nil {
		return
	}
	marshal := marshaler.New(cache.New[any](localCache.S))
	_ = marshal.Delete(context.Background(), GetQuestionResultsCacheKey(id))
}
