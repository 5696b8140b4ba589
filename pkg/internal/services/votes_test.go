package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	localCache "git.solsynth.dev/hypernet/polls/pkg/internal/cache"
	"git.solsynth.dev/hypernet/polls/pkg/internal/database"
	"git.solsynth.dev/hypernet/polls/pkg/internal/models"
	"git.solsynth.dev/hypernet/polls/pkg/internal/testutil"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
)

func TestAddVote(t *testing.T) {
	testutil.SetupTestDB(t)

	question := testutil.CreateQuestion(t, "Tabs or spaces?", -1, "Tabs", "Spaces")
	other := testutil.CreateQuestion(t, "Vim or Emacs?", -1, "Vim", "Emacs")
	future := testutil.CreateQuestion(t, "Future?", 30, "Yes")

	choice, err := AddVote(question.ID, question.Choices[1].ID, time.Now(), map[string]any{"ip": "127.0.0.1"})
	if err != nil {
		t.Fatalf("AddVote() error = %v", err)
	}
	if choice.Votes != 1 {
		t.Errorf("expected 1 vote, got %d", choice.Votes)
	}

	fetched, _ := GetQuestion(question.ID)
	if fetched.Choices[0].Votes != 0 || fetched.Choices[1].Votes != 1 {
		t.Errorf("expected votes [0 1], got [%d %d]", fetched.Choices[0].Votes, fetched.Choices[1].Votes)
	}

	var vote models.Vote
	if err := database.C.Where("question_id = ?", question.ID).First(&vote).Error; err != nil {
		t.Fatalf("expected a vote record: %v", err)
	}
	if vote.ChoiceID != question.Choices[1].ID || vote.Meta["ip"] != "127.0.0.1" {
		t.Errorf("unexpected vote record %+v", vote)
	}

	if _, err := AddVote(question.ID, other.Choices[0].ID, time.Now(), nil); !errors.Is(err, ErrChoiceNotFound) {
		t.Errorf("expected ErrChoiceNotFound for a foreign choice, got %v", err)
	}
	if _, err := AddVote(future.ID, future.Choices[0].ID, time.Now(), nil); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound for a future question, got %v", err)
	}

	if count, _ := CountVotes(question.ID); count != 1 {
		t.Errorf("expected 1 vote record, got %d", count)
	}
}

func TestAddVoteConcurrent(t *testing.T) {
	testutil.SetupTestDB(t)

	question := testutil.CreateQuestion(t, "Tabs or spaces?", -1, "Tabs", "Spaces")

	const voters = 20
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := AddVote(question.ID, question.Choices[0].ID, time.Now(), nil); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("AddVote() error = %v", err)
	}

	fetched, _ := GetQuestion(question.ID)
	if fetched.Choices[0].Votes != voters {
		t.Errorf("expected %d votes, got %d", voters, fetched.Choices[0].Votes)
	}
}

func TestGetQuestionResults(t *testing.T) {
	testutil.SetupTestDB(t)

	question := testutil.CreateQuestion(t, "Tabs or spaces?", -1, "Tabs", "Spaces")
	future := testutil.CreateQuestion(t, "Future?", 30, "Yes")

	if _, err := GetQuestionResults(future.ID, time.Now()); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound for a future question, got %v", err)
	}

	results, err := GetQuestionResults(question.ID, time.Now())
	if err != nil {
		t.Fatalf("GetQuestionResults() error = %v", err)
	}
	if results.Total != 0 || len(results.Choices) != 2 {
		t.Fatalf("expected an empty tally over 2 choices, got %+v", results)
	}

	for _, idx := range []int{0, 0, 0, 1} {
		if _, err := AddVote(question.ID, question.Choices[idx].ID, time.Now(), nil); err != nil {
			t.Fatalf("AddVote() error = %v", err)
		}
	}

	results, err = GetQuestionResults(question.ID, time.Now())
	if err != nil {
		t.Fatalf("GetQuestionResults() error = %v", err)
	}
	if results.Total != 4 {
		t.Errorf("expected 4 votes in total, got %d", results.Total)
	}
	if results.Choices[0].Votes != 3 || results.Choices[1].Votes != 1 {
		t.Errorf("expected votes [3 1], got [%d %d]", results.Choices[0].Votes, results.Choices[1].Votes)
	}
	if math.Abs(results.Choices[0].Percentage-0.75) > 1e-9 {
		t.Errorf("expected 75%% for Tabs, got %v", results.Choices[0].Percentage)
	}
}

func TestGetQuestionResultsIgnoresOlderGeneration(t *testing.T) {
	testutil.SetupTestDB(t)

	question := testutil.CreateQuestion(t, "Tabs or spaces?", -1, "Tabs", "Spaces")

	stale, err := GetQuestionResults(question.ID, time.Now())
	if err != nil {
		t.Fatalf("GetQuestionResults() error = %v", err)
	}
	seen := questionResultsGeneration(question.ID).Load()

	if _, err := AddVote(question.ID, question.Choices[0].ID, time.Now(), nil); err != nil {
		t.Fatalf("AddVote() error = %v", err)
	}

	// A reader that loaded its tally before the vote writes it back late.
	marshal := marshaler.New(cache.New[any](localCache.S))
	if err := marshal.Set(
		context.Background(),
		GetQuestionResultsCacheKey(question.ID),
		cachedQuestionResults{Generation: seen, Results: stale},
		store.WithExpiration(time.Minute),
	); err != nil {
		t.Fatalf("Failed to seed cache: %v", err)
	}

	results, err := GetQuestionResults(question.ID, time.Now())
	if err != nil {
		t.Fatalf("GetQuestionResults() error = %v", err)
	}
	if results.Total != 1 {
		t.Errorf("expected the vote to be counted, got total %d", results.Total)
	}
}

func TestGetQuestionResultsWhileVoting(t *testing.T) {
	testutil.SetupTestDB(t)

	question := testutil.CreateQuestion(t, "Tabs or spaces?", -1, "Tabs", "Spaces")

	const readers = 8
	const votes = 60

	stop := make(chan struct{})
	errs := make(chan error, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, err := GetQuestionResults(question.ID, time.Now()); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	for i := 1; i <= votes; i++ {
		if _, err := AddVote(question.ID, question.Choices[i%2].ID, time.Now(), nil); err != nil {
			t.Errorf("AddVote() error = %v", err)
			break
		}
		results, err := GetQuestionResults(question.ID, time.Now())
		if err != nil {
			t.Errorf("GetQuestionResults() error = %v", err)
			break
		}
		if results.Total != int64(i) {
			t.Errorf("after vote #%d the results report total %d", i, results.Total)
			break
		}
	}

	close(stop)
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("GetQuestionResults() error = %v", err)
	}
}

func TestCalcQuestionResults(t *testing.T) {
	results := CalcQuestionResults(models.Question{
		Choices: []models.Choice{
			{ChoiceText: "A", Votes: 0},
			{ChoiceText: "B", Votes: 0},
		},
	})
	if results.Total != 0 {
		t.Errorf("expected no votes, got %d", results.Total)
	}
	for _, choice := range results.Choices {
		if choice.Percentage != 0 {
			t.Errorf("expected 0%% without votes, got %v", choice.Percentage)
		}
	}
}
