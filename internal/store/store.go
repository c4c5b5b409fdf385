// Package store implements relational persistence for users, listings,
// keyword associations and favorite edges.
//
// All queries use parameterized statements. Methods return explicit errors;
// "not found" and "already exists" are distinguished from storage failures
// through the ErrNotFound and ErrExists sentinels.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobrec/search-service/internal/model"
)

var (
	// ErrNotFound marks a lookup that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrExists marks an insert that conflicted with an existing row.
	ErrExists = errors.New("already exists")
)

// Store wraps a pgx connection pool with the service's relational operations.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store over pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// AddUser inserts a new user row. Returns ErrExists when the user id is
// already taken, or a wrapped error on storage failure.
func (s *Store) AddUser(ctx context.Context, userID, passwordHash, firstName, lastName string) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, password_hash, first_name, last_name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, passwordHash, firstName, lastName,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}
	return nil
}

// GetCredentials returns the stored password hash for userID.
// Returns ErrNotFound when no such user exists.
func (s *Store) GetCredentials(ctx context.Context, userID string) (string, error) {
	var hash string
	err := s.pool.QueryRow(ctx,
		`SELECT password_hash FROM users WHERE user_id = $1`,
		userID,
	).Scan(&hash)
	if err != nil {
		if isNoRows(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("query credentials: %w", err)
	}
	return hash, nil
}

// GetFullName returns "FirstName LastName" for userID, or the empty string
// when the user does not exist.
func (s *Store) GetFullName(ctx context.Context, userID string) (string, error) {
	var first, last string
	err := s.pool.QueryRow(ctx,
		`SELECT first_name, last_name FROM users WHERE user_id = $1`,
		userID,
	).Scan(&first, &last)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("query full name: %w", err)
	}
	return first + " " + last, nil
}

// SaveListing upserts the listing's identifying fields and its keyword
// associations, silently ignoring rows that already exist.
func (s *Store) SaveListing(ctx context.Context, l model.Listing) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO listings (listing_id, title, location, url)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (listing_id) DO NOTHING`,
		l.ID, l.Title, l.Location, l.URL,
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}

	for _, kw := range l.Keywords {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO keywords (listing_id, keyword)
			 VALUES ($1, $2)
			 ON CONFLICT (listing_id, keyword) DO NOTHING`,
			l.ID, kw,
		)
		if err != nil {
			return fmt.Errorf("insert keyword %q: %w", kw, err)
		}
	}
	return nil
}

// SetFavorite persists the listing then inserts the favorite edge,
// ignoring an edge that already exists.
func (s *Store) SetFavorite(ctx context.Context, userID string, l model.Listing) error {
	if err := s.SaveListing(ctx, l); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO favorites (user_id, listing_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, listing_id) DO NOTHING`,
		userID, l.ID,
	)
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// UnsetFavorite deletes the favorite edge if present; deleting a missing
// edge is a no-op, not an error.
func (s *Store) UnsetFavorite(ctx context.Context, userID, listingID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`,
		userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// GetFavoriteIDs returns the set of listing ids currently favorited by userID.
func (s *Store) GetFavoriteIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT listing_id FROM favorites WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query favorite ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// GetFavoriteListings reconstructs the user's favorited listings from
// storage, newest favorite first, with the favorite flag forced true and the
// keyword set joined in. Only the fields persisted by SaveListing are
// available; description and highlights are not stored.
func (s *Store) GetFavoriteListings(ctx context.Context, userID string) ([]model.Listing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT l.listing_id, l.title, l.location, l.url
		 FROM favorites f
		 JOIN listings l ON l.listing_id = f.listing_id
		 WHERE f.user_id = $1
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query favorite listings: %w", err)
	}
	defer rows.Close()

	listings := make([]model.Listing, 0)
	for rows.Next() {
		var l model.Listing
		if err := rows.Scan(&l.ID, &l.Title, &l.Location, &l.URL); err != nil {
			return nil, fmt.Errorf("scan favorite listing: %w", err)
		}
		l.Favorite = true
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range listings {
		kws, err := s.GetKeywords(ctx, listings[i].ID)
		if err != nil {
			return nil, err
		}
		listings[i].Keywords = kws
	}
	return listings, nil
}

// GetKeywords returns the keywords associated with a listing, sorted for
// stable output.
func (s *Store) GetKeywords(ctx context.Context, listingID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT keyword FROM keywords WHERE listing_id = $1 ORDER BY keyword`,
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	var kws []string
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		kws = append(kws, kw)
	}
	return kws, rows.Err()
}
