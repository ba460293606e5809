package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Koveh/scrape-yandex-maps/models"
)

// InsightService computes and prints aggregates over a finished run.
type InsightService struct {
	logger *log.Logger
}

// NewInsightService creates an InsightService with the given logger.
func NewInsightService(logger *log.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate builds the report over the scraped places.
func (s *InsightService) Generate(places []*models.Place) *models.ScrapeReport {
	report := &models.ScrapeReport{
		PlacesByCategory: make(map[string]int),
	}

	if len(places) == 0 {
		return report
	}

	report.TotalPlaces = len(places)

	var rated []*models.Place
	var ratingTotal float64

	for _, p := range places {
		if rating, err := strconv.ParseFloat(p.Rating, 64); err == nil && rating > 0 {
			rated = append(rated, p)
			ratingTotal += rating
		}
		if p.Website != "" {
			report.WithWebsite++
		}
		report.PhotosDownloaded += len(p.Photos)
		report.ReviewsCollected += len(p.Reviews)

		for _, cat := range strings.Split(p.Category, ", ") {
			if cat = strings.TrimSpace(cat); cat != "" {
				report.PlacesByCategory[cat]++
			}
		}
	}

	report.RatedPlaces = len(rated)
	if len(rated) > 0 {
		report.AverageRating = round2(ratingTotal / float64(len(rated)))
	}

	sort.SliceStable(rated, func(i, j int) bool {
		return parseRating(rated[i].Rating) > parseRating(rated[j].Rating)
	})
	if len(rated) > 5 {
		report.TopRated = rated[:5]
	} else {
		report.TopRated = rated
	}

	return report
}

// Print renders the report to stdout.
func (s *InsightService) Print(r *models.ScrapeReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 SCRAPE INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Places scraped    : \033[1m%d\033[0m\n", r.TotalPlaces)
	fmt.Printf("  With a website    : \033[1m%d\033[0m\n", r.WithWebsite)
	fmt.Printf("  Photos downloaded : \033[1m%d\033[0m\n", r.PhotosDownloaded)
	fmt.Printf("  Reviews collected : \033[1m%d\033[0m\n", r.ReviewsCollected)
	fmt.Println()

	fmt.Printf("\033[1;33m  Ratings\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.RatedPlaces > 0 {
		fmt.Printf("  Rated places   : \033[1m%d\033[0m\n", r.RatedPlaces)
		fmt.Printf("  Average rating : \033[1;32m%.2f ★\033[0m\n", r.AverageRating)
	} else {
		fmt.Printf("  No rating data available\n")
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Top Rated Places\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopRated) == 0 {
		fmt.Printf("  No rated places found\n")
	} else {
		for i, p := range r.TopRated {
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m%s ★\033[0m\n",
				i+1, truncate(p.Name, 38), p.Rating)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Places by Category\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.PlacesByCategory) == 0 {
		fmt.Printf("  No category data\n")
	} else {
		type catCount struct {
			cat   string
			count int
		}
		var cats []catCount
		for cat, cnt := range r.PlacesByCategory {
			cats = append(cats, catCount{cat, cnt})
		}
		sort.Slice(cats, func(i, j int) bool {
			if cats[i].count != cats[j].count {
				return cats[i].count > cats[j].count
			}
			return cats[i].cat < cats[j].cat
		})
		for _, cc := range cats {
			bar := strings.Repeat("█", cc.count)
			fmt.Printf("  %-30s %s (%d)\n", truncate(cc.cat, 28), bar, cc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func parseRating(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
