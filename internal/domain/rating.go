package domain

import (
	"math"
	"strconv"
)

type RatingBucket struct {
	Stars int
	Count int
}

// RatingSummary is the derived aggregate kept denormalized on the
// professional profile. Distribution covers every star value 1..5 and is
// ordered descending for presentation.
type RatingSummary struct {
	AverageRating float64
	NumReviews    int
	Distribution  []RatingBucket
}

// DistributionMap renders the buckets as a star->count map for storage.
func (s RatingSummary) DistributionMap() map[string]int {
	out := make(map[string]int, len(s.Distribution))
	for _, b := range s.Distribution {
		out[strconv.Itoa(b.Stars)] = b.Count
	}
	return out
}

// SummarizeRatings aggregates the full review ledger of one professional.
// The average is the mean rounded to one decimal, 0.0 when there are no
// reviews. Fractional ratings are bucketed by truncation, so 4.9 counts
// toward the 4-star bucket.
func SummarizeRatings(ratings []float64) RatingSummary {
	counts := make(map[int]int, 5)
	sum := 0.0
	for _, r := range ratings {
		sum += r
		stars := int(r)
		if stars < 1 {
			stars = 1
		}
		if stars > 5 {
			stars = 5
		}
		counts[stars]++
	}

	avg := 0.0
	if len(ratings) > 0 {
		avg = math.Round(sum/float64(len(ratings))*10) / 10
	}

	dist := make([]RatingBucket, 0, 5)
	for stars := 5; stars >= 1; stars-- {
		dist = append(dist, RatingBucket{Stars: stars, Count: counts[stars]})
	}

	return RatingSummary{
		AverageRating: avg,
		NumReviews:    len(ratings),
		Distribution:  dist,
	}
}

// SummaryFromProfile rebuilds the presentation form from the stored
// denormalized fields.
func SummaryFromProfile(p ProfessionalProfile) RatingSummary {
	dist := make([]RatingBucket, 0, 5)
	for stars := 5; stars >= 1; stars-- {
		dist = append(dist, RatingBucket{Stars: stars, Count: p.RatingDistribution[strconv.Itoa(stars)]})
	}
	return RatingSummary{
		AverageRating: p.Rating,
		NumReviews:    p.NumReviews,
		Distribution:  dist,
	}
}
