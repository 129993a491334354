package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Venipa/taiga/internal/anime"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("library record not found")

const itemColumns = `id, source, last_modified, title, type, image_url, trailer_url,
    producers_json, date_start, synopsis, age_rating, genres_json`

// FindByExternalID returns the record mapped to externalID on the given
// service. When several records carry the same identifier the oldest wins.
func (s *Store) FindByExternalID(ctx context.Context, externalID string, service anime.ServiceID) (anime.ID, bool, error) {
	ctx = ensureContext(ctx)
	if externalID == "" {
		return 0, false, nil
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT anime_id FROM anime_ids WHERE service_id = ? AND external_id = ?
         ORDER BY anime_id LIMIT 1`,
		int(service), externalID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find by external id: %w", err)
	}
	return anime.ID(id), true, nil
}

// FindByID returns the record with the given identifier, or nil when it
// does not exist.
func (s *Store) FindByID(ctx context.Context, id anime.ID) (*anime.Item, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM anime WHERE id = ?", int64(id))
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}
	ids, err := s.externalIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	item.IDs = ids
	return item, nil
}

// All returns every record in insertion order.
func (s *Store) All(ctx context.Context) ([]*anime.Item, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT "+itemColumns+" FROM anime ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var items []*anime.Item
	byID := make(map[anime.ID]*anime.Item)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		items = append(items, item)
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close record rows: %w", err)
	}

	idRows, err := s.db.QueryContext(ctx, "SELECT anime_id, service_id, external_id FROM anime_ids")
	if err != nil {
		return nil, fmt.Errorf("list external ids: %w", err)
	}
	defer idRows.Close()
	for idRows.Next() {
		var (
			animeID    int64
			serviceID  int
			externalID string
		)
		if err := idRows.Scan(&animeID, &serviceID, &externalID); err != nil {
			return nil, fmt.Errorf("scan external id: %w", err)
		}
		if item, ok := byID[anime.ID(animeID)]; ok {
			item.SetExternalID(externalID, anime.ServiceID(serviceID))
		}
	}
	if err := idRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate external ids: %w", err)
	}
	return items, nil
}

// Count returns the number of records in the library.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM anime").Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// Insert stores a new record with its external identifiers and returns the
// identifier SQLite assigned.
func (s *Store) Insert(ctx context.Context, item *anime.Item) (anime.ID, error) {
	ctx = ensureContext(ctx)
	if item == nil {
		return 0, errors.New("library: insert nil record")
	}
	values, err := itemValues(item)
	if err != nil {
		return 0, err
	}

	var id anime.ID
	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin insert: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx,
			`INSERT INTO anime (source, last_modified, title, type, image_url, trailer_url,
                producers_json, date_start, synopsis, age_rating, genres_json)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			values...,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert record id: %w", err)
		}
		if err := writeExternalIDs(ctx, tx, anime.ID(newID), item.IDs); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit insert: %w", err)
		}
		id = anime.ID(newID)
		return nil
	})
	if err != nil {
		return 0, err
	}
	item.ID = id
	return id, nil
}

// UpdateExisting replaces every stored field of record id, including its
// external identifiers, with the values of item.
func (s *Store) UpdateExisting(ctx context.Context, id anime.ID, item *anime.Item) error {
	ctx = ensureContext(ctx)
	if item == nil {
		return errors.New("library: update nil record")
	}
	values, err := itemValues(item)
	if err != nil {
		return err
	}

	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin update: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx,
			`UPDATE anime SET source = ?, last_modified = ?, title = ?, type = ?, image_url = ?,
                trailer_url = ?, producers_json = ?, date_start = ?, synopsis = ?,
                age_rating = ?, genres_json = ?
             WHERE id = ?`,
			append(values, int64(id))...,
		)
		if err != nil {
			return fmt.Errorf("update record %d: %w", id, err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("update record %d: %w", id, ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM anime_ids WHERE anime_id = ?", int64(id)); err != nil {
			return fmt.Errorf("clear external ids: %w", err)
		}
		if err := writeExternalIDs(ctx, tx, id, item.IDs); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit update: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

// Delete removes a record and its external identifiers.
func (s *Store) Delete(ctx context.Context, id anime.ID) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin delete: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM anime_ids WHERE anime_id = ?", int64(id)); err != nil {
			return fmt.Errorf("delete external ids of %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM anime WHERE id = ?", int64(id))
		if err != nil {
			return fmt.Errorf("delete record %d: %w", id, err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("delete record %d: %w", id, ErrNotFound)
		}
		return tx.Commit()
	})
}

func (s *Store) externalIDs(ctx context.Context, id anime.ID) (map[anime.ServiceID]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT service_id, external_id FROM anime_ids WHERE anime_id = ?", int64(id))
	if err != nil {
		return nil, fmt.Errorf("list external ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[anime.ServiceID]string)
	for rows.Next() {
		var (
			serviceID  int
			externalID string
		)
		if err := rows.Scan(&serviceID, &externalID); err != nil {
			return nil, fmt.Errorf("scan external id: %w", err)
		}
		ids[anime.ServiceID(serviceID)] = externalID
	}
	return ids, rows.Err()
}

func writeExternalIDs(ctx context.Context, tx *sql.Tx, id anime.ID, ids map[anime.ServiceID]string) error {
	for service, externalID := range ids {
		if externalID == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO anime_ids (anime_id, service_id, external_id) VALUES (?, ?, ?)",
			int64(id), int(service), externalID,
		); err != nil {
			return fmt.Errorf("insert external id: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*anime.Item, error) {
	var (
		id           int64
		source       int
		lastModified sql.NullInt64
		itemType     int
		producers    string
		dateStart    string
		synopsis     sql.NullString
		genres       string
		item         anime.Item
	)
	if err := row.Scan(
		&id,
		&source,
		&lastModified,
		&item.Title,
		&itemType,
		&item.ImageURL,
		&item.TrailerURL,
		&producers,
		&dateStart,
		&synopsis,
		&item.AgeRating,
		&genres,
	); err != nil {
		return nil, err
	}
	item.ID = anime.ID(id)
	item.Source = anime.ServiceID(source)
	item.Type = anime.Type(itemType)
	if lastModified.Valid {
		item.LastModified = time.Unix(lastModified.Int64, 0).UTC()
	}
	if err := decodeList(producers, &item.Producers); err != nil {
		return nil, fmt.Errorf("decode producers: %w", err)
	}
	if err := decodeList(genres, &item.Genres); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	date, err := anime.ParseDate(dateStart)
	if err != nil {
		return nil, err
	}
	item.DateStart = date
	if synopsis.Valid {
		text := synopsis.String
		item.Synopsis = &text
	}
	return &item, nil
}

func itemValues(item *anime.Item) ([]any, error) {
	producers, err := encodeList(item.Producers)
	if err != nil {
		return nil, fmt.Errorf("encode producers: %w", err)
	}
	genres, err := encodeList(item.Genres)
	if err != nil {
		return nil, fmt.Errorf("encode genres: %w", err)
	}
	var lastModified sql.NullInt64
	if !item.LastModified.IsZero() {
		lastModified = sql.NullInt64{Int64: item.LastModified.Unix(), Valid: true}
	}
	var dateStart string
	if item.DateStart != (anime.Date{}) {
		dateStart = item.DateStart.String()
	}
	var synopsis sql.NullString
	if item.Synopsis != nil {
		synopsis = sql.NullString{String: *item.Synopsis, Valid: true}
	}
	return []any{
		int(item.Source),
		lastModified,
		item.Title,
		int(item.Type),
		item.ImageURL,
		item.TrailerURL,
		producers,
		dateStart,
		synopsis,
		item.AgeRating,
		genres,
	}, nil
}

func encodeList(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(raw string, dest *[]string) error {
	if raw == "" || raw == "[]" {
		*dest = nil
		return nil
	}
	return json.Unmarshal([]byte(raw), dest)
}
