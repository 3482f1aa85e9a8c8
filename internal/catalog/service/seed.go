package service

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/bookstore/catalog/pkg/response"
)

// fallbackShelf keeps browsing usable when the catalog service is down.
func fallbackShelf() []response.Book {
	return []response.Book{
		{
			Id:          "1",
			Title:       "Godan",
			Author:      "Munshi Premchand",
			Description: "A classic Hindi novel depicting the life of Indian peasants and their struggles.",
			Language:    "Hindi",
			Genre:       "Fiction",
			Price:       decimal.NewFromInt(299),
			Stock:       15,
		},
		{
			Id:          "2",
			Title:       "Madhushala",
			Author:      "Harivansh Rai Bachchan",
			Description: "A collection of Hindi poems that explore the philosophy of life through the metaphor of wine.",
			Language:    "Hindi",
			Genre:       "Poetry",
			Price:       decimal.NewFromInt(199),
			Stock:       20,
		},
		{
			Id:          "3",
			Title:       "Raag Darbari",
			Author:      "Shrilal Shukla",
			Description: "A satirical Hindi novel that portrays the rural life and politics in post-independence India.",
			Language:    "Hindi",
			Genre:       "Fiction",
			Price:       decimal.NewFromInt(249),
			Stock:       18,
		},
		{
			Id:          "4",
			Title:       "Pather Panchali",
			Author:      "Bibhutibhushan Bandyopadhyay",
			Description: "A Bengali novel that follows the life of a poor family in rural Bengal.",
			Language:    "Bengali",
			Genre:       "Fiction",
			Price:       decimal.NewFromInt(349),
			Stock:       18,
		},
		{
			Id:          "5",
			Title:       "Gora",
			Author:      "Rabindranath Tagore",
			Description: "A Bengali novel that explores themes of nationalism, religion, and social reform.",
			Language:    "Bengali",
			Genre:       "Fiction",
			Price:       decimal.NewFromInt(399),
			Stock:       12,
		},
	}
}
