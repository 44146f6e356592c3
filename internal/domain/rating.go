package domain

// RatingTally keeps the running sum and count of review ratings so the mean
// can be updated per review without refolding the list.
type RatingTally struct {
	Sum   int
	Count int
}

// TallyOf folds a review list into a tally.
func TallyOf(reviews []Review) RatingTally {
	var t RatingTally
	for _, r := range reviews {
		t.Add(r.Rating)
	}
	return t
}

// Add records one rating.
func (t *RatingTally) Add(rating int) {
	t.Sum += rating
	t.Count++
}

// Mean returns the average rating, or 0 when nothing has been recorded.
func (t RatingTally) Mean() float64 {
	if t.Count == 0 {
		return 0
	}
	return float64(t.Sum) / float64(t.Count)
}
