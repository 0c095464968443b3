// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"time"

	"github.com/jeranaias/verifact-tui/internal/model"
)

// MockRecords returns the demonstration history shown before any real
// verification has been recorded. Exactly one record is debunked.
func MockRecords() []Record {
	return []Record{
		{
			ID:               "1",
			ClaimText:        "Scientists discover that cats can actually photosynthesize...",
			OriginalSource:   "Fictional News Today",
			VerificationDate: time.Date(2023, time.November, 15, 10, 30, 0, 0, time.UTC),
			Status:           model.StatusDebunked,
			Summary:          "No scientific evidence...",
			Details: "No peer-reviewed research supports the idea that cats, or any mammal, can photosynthesize. " +
				"Photosynthesis requires chloroplasts, which animal cells do not have.\n\n" +
				"The story appears to originate from a satirical site and was later shared without that context.",
		},
		{
			ID: "2",
			ClaimText: "A new study shows that drinking coffee can increase your lifespan by an average of 5 years, " +
				"as reported by multiple news outlets and supported by preliminary findings from the Institute of Longevity.",
			OriginalSource:   "Global Health Times",
			ImageURL:         "https://images.unsplash.com/photo-1559496417-e7f25cb247f3",
			VerificationDate: time.Date(2023, time.October, 22, 14, 0, 0, 0, time.UTC),
			Status:           model.StatusVerified,
			Summary:          "Multiple studies suggest...",
			Details: "Multiple peer-reviewed epidemiological studies have indeed found a correlation between regular " +
				"coffee consumption (typically 2-4 cups per day) and a reduced risk of mortality from various causes, " +
				"including heart disease, stroke, and some cancers. While these studies are largely observational and " +
				"don't definitively prove causation, the consistency of findings across large populations is significant.\n\n" +
				"The claim of an 'average of 5 years' increase is likely an oversimplification or an optimistic " +
				"interpretation of some specific study's findings. The actual impact on lifespan is complex and varies " +
				"based on individual genetics, lifestyle, and the type of coffee consumed. However, the general consensus " +
				"is that moderate coffee consumption is associated with health benefits for most adults.\n\n" +
				"It's important to note that excessive coffee intake can have negative side effects, and individuals " +
				"with certain health conditions should consult their doctor.",
			EvidenceLinks: []EvidenceLink{
				{Title: "Harvard T.H. Chan: Coffee and Health", URL: "https://www.hsph.harvard.edu/nutritionsource/food-features/coffee/"},
				{Title: "BMJ Meta-Analysis on Coffee Consumption", URL: "https://www.bmj.com/content/359/bmj.j5024"},
			},
		},
		{
			ID:               "3",
			ClaimText:        "Is it true that the Great Wall of China is the only man-made structure...",
			VerificationDate: time.Date(2023, time.September, 5, 9, 15, 0, 0, time.UTC),
			Status:           model.StatusInconclusive,
			Summary:          "This is a common misconception...",
			Details: "The Great Wall is long but narrow, and astronauts report it is very hard to see from low orbit " +
				"without aid. Many other structures, such as city lights and airports, are easier to spot.\n\n" +
				"Whether it is visible at all depends on altitude, lighting and what counts as \"visible\".",
		},
		{
			ID:               "4",
			ClaimText:        "Image claim: A dolphin was seen swimming in the canals of Venice...",
			ImageURL:         "https://images.unsplash.com/photo-1570481662207-eda411065908",
			VerificationDate: time.Date(2023, time.December, 1, 12, 45, 0, 0, time.UTC),
			Status:           model.StatusPending,
			Summary:          "Verification is currently in progress...",
		},
	}
}

// seed fills an empty repository with MockRecords.
func seed(repo Repository) error {
	ctx := context.Background()
	existing, err := repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return err
	}
	for _, rec := range MockRecords() {
		if _, err := repo.Record(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
