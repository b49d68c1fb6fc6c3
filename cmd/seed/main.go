package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/repository"
	"bookstore-catalog/pkg/container"
	"bookstore-catalog/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	force := flag.Bool("force", false, "Insert even when the catalog already has books")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := container.NewContainer(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize container")
	}
	defer c.Cleanup()

	n, err := seed(ctx, c.BookRepo, *force)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	logger.Info("Seed finished", map[string]interface{}{"inserted": n})
}

// seed inserts the sample catalog in one batch. A non-empty store is left
// alone unless force is set.
func seed(ctx context.Context, repo repository.RepositoryInterface, force bool) (int, error) {
	_, total, err := repo.ListPage(ctx, model.BookFilter{Limit: 1})
	if err != nil {
		return 0, err
	}
	if total > 0 && !force {
		log.Info().Int("existing", total).Msg("Catalog not empty, skipping (use -force)")
		return 0, nil
	}

	books := make([]*model.Book, 0, len(sampleBooks))
	for i, req := range sampleBooks {
		req.Normalize()
		if err := req.Validate(); err != nil {
			return 0, fmt.Errorf("sample book %d: %w", i, err)
		}
		b := req.ToBook(0)
		books = append(books, &b)
	}
	if err := repo.CreateBatch(ctx, books); err != nil {
		return 0, err
	}
	return len(books), nil
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var sampleBooks = []model.BookRequest{
	{Title: "Pride and Prejudice", Author: "Jane Austen", Publisher: "Penguin Classics", ISBN: "978-0-14-143951-8", Category: "Fiction", Classification: "823.7", PageCount: 480, Price: price("9.99")},
	{Title: "A Brief History of Time", Author: "Stephen Hawking", Publisher: "Bantam", ISBN: "978-0-553-38016-3", Category: "Science", Classification: "523.1", PageCount: 212, Price: price("18.00")},
	{Title: "The Guns of August", Author: "Barbara W. Tuchman", Publisher: "Random House", ISBN: "978-0-345-47609-8", Category: "History", Classification: "940.4", PageCount: 606, Price: price("20.00")},
	{Title: "Dune", Author: "Frank Herbert", Publisher: "Ace", ISBN: "978-0-441-17271-9", Category: "Fiction", Classification: "813.54", PageCount: 896, Price: price("10.99")},
	{Title: "The Selfish Gene", Author: "Richard Dawkins", Publisher: "Oxford University Press", ISBN: "978-0-19-878860-7", Category: "Science", Classification: "591.5", PageCount: 544, Price: price("16.95")},
	{Title: "SPQR", Author: "Mary Beard", Publisher: "Liveright", ISBN: "978-1-63149-222-8", Category: "History", Classification: "937", PageCount: 608, Price: price("19.95")},
	{Title: "One Hundred Years of Solitude", Author: "Gabriel García Márquez", Publisher: "Harper Perennial", ISBN: "978-0-06-088328-7", Category: "Fiction", Classification: "863.64", PageCount: 417, Price: price("17.99")},
	{Title: "Cosmos", Author: "Carl Sagan", Publisher: "Ballantine", ISBN: "978-0-345-53943-4", Category: "Science", Classification: "520", PageCount: 432, Price: price("18.99")},
	{Title: "À la recherche du temps perdu", Author: "Marcel Proust", Publisher: "Gallimard", Category: "Fiction", Classification: "843.912", PageCount: 2400, Price: price("45.00")},
	{Title: "The Histories", Author: "Herodotus", Publisher: "Penguin Classics", ISBN: "978-0-14-044908-2", Category: "History", Classification: "930", PageCount: 768, Price: price("15.00")},
	{Title: "The Double Helix", Author: "James D. Watson", Publisher: "Touchstone", ISBN: "978-0-7432-1630-2", Category: "Science", Classification: "574.87", PageCount: 256, Price: price("16.00")},
	{Title: "Beloved", Author: "Toni Morrison", Publisher: "Vintage", ISBN: "978-1-4000-3341-6", Category: "Fiction", Classification: "813.54", PageCount: 324, Price: price("15.95")},
}
