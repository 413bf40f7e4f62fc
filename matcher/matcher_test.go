package matcher_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foundit-campus/foundit-api/matcher"
	"github.com/foundit-campus/foundit-api/models"
)

func item(title, category, color string, createdAt time.Time) models.FoundItem {
	return models.FoundItem{
		ID: primitive.NewObjectID(),
		Details: models.FoundItemDetails{
			Title:     title,
			Category:  category,
			Color:     color,
			Status:    models.StatusWithFinder,
			CreatedAt: primitive.NewDateTimeFromTime(createdAt),
		},
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"blue", "wallet"}, matcher.Tokenize("  Blue Wallet "))
	assert.Equal(t, []string{"wallet"}, matcher.Tokenize("WALLET"))
}

func TestTokenize_SplitsOnWhitespaceRuns(t *testing.T) {
	// Search queries join name, description and location; descriptions come
	// from multi-line text fields, so tabs and newlines separate tokens just
	// like spaces do.
	assert.Equal(t, []string{"blue", "wallet"}, matcher.Tokenize("blue\twallet"))
	assert.Equal(t, []string{"blue", "wallet"}, matcher.Tokenize("blue\nwallet"))
	assert.Equal(t, []string{"blue", "wallet"}, matcher.Tokenize("blue   wallet"))
	assert.Equal(t, []string{"blue", "wallet", "library"}, matcher.Tokenize("Blue Wallet\r\n Library"))
	assert.Equal(t, []string{""}, matcher.Tokenize(""))
	assert.Equal(t, []string{""}, matcher.Tokenize(" \t\n "))
}

func TestMatch_MultiLineQuery(t *testing.T) {
	corpus := []models.FoundItem{
		item("Blue Wallet", "Wallet", "Blue", time.Now()),
	}

	matches := matcher.Match("blue\nwallet", corpus)

	assert.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].MatchScore)
}

func TestMatch_ScoresTokenOverlap(t *testing.T) {
	corpus := []models.FoundItem{
		item("Blue Wallet", "Wallet", "Blue", time.Now()),
	}

	matches := matcher.Match("wallet personal blue", corpus)

	assert.Len(t, matches, 1)
	// "wallet" hits, "personal" misses, "blue" hits twice but counts once
	// per query token, so the score is exactly 2.
	assert.Equal(t, 2, matches[0].MatchScore)
}

func TestMatch_ScoreNeverExceedsTokenCount(t *testing.T) {
	corpus := []models.FoundItem{
		item("Blue Blue Blue Wallet", "Wallet", "Blue", time.Now()),
	}

	matches := matcher.Match("blue wallet", corpus)

	assert.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].MatchScore)
}

func TestMatch_ExcludesZeroScores(t *testing.T) {
	corpus := []models.FoundItem{
		item("Red Umbrella", "Umbrella", "Red", time.Now()),
		item("Blue Wallet", "Wallet", "Blue", time.Now()),
	}

	matches := matcher.Match("wallet", corpus)

	assert.Len(t, matches, 1)
	assert.Equal(t, "Blue Wallet", matches[0].Details.Title)
}

func TestMatch_SortsByScoreThenNewest(t *testing.T) {
	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	corpus := []models.FoundItem{
		item("Wallet", "Wallet", "Black", old),
		item("Blue Wallet", "Wallet", "Blue", old),
		item("Wallet", "Wallet", "Brown", recent),
	}

	matches := matcher.Match("blue wallet", corpus)

	assert.Len(t, matches, 3)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].MatchScore, matches[i].MatchScore)
	}
	// Top result is the two-token hit, then the tie between the single-token
	// wallets breaks newest first.
	assert.Equal(t, "Blue Wallet", matches[0].Details.Title)
	assert.Equal(t, "Brown", matches[1].Details.Color)
	assert.Equal(t, "Black", matches[2].Details.Color)
}

func TestMatch_SkipsEmptySearchableText(t *testing.T) {
	corpus := []models.FoundItem{
		item("", "", "", time.Now()),
		item("Blue Wallet", "Wallet", "Blue", time.Now()),
	}

	matches := matcher.Match("wallet", corpus)

	assert.Len(t, matches, 1)
}

func TestMatch_SubstringSemantics(t *testing.T) {
	corpus := []models.FoundItem{
		item("Wallets", "Accessories", "Blue", time.Now()),
	}

	// "wallet" is a substring of "wallets"; no word-boundary rules apply.
	matches := matcher.Match("wallet", corpus)
	assert.Len(t, matches, 1)
}

func TestFilterMinScore(t *testing.T) {
	candidates := []models.MatchCandidate{
		{MatchScore: 3},
		{MatchScore: 2},
		{MatchScore: 1},
		{MatchScore: 0},
	}

	filtered := matcher.FilterMinScore(candidates, 2)

	assert.Len(t, filtered, 2)
	assert.Equal(t, 3, filtered[0].MatchScore)
	assert.Equal(t, 2, filtered[1].MatchScore)
}

func TestFilterMinScore_EmptyInput(t *testing.T) {
	assert.Empty(t, matcher.FilterMinScore(nil, 2))
}
