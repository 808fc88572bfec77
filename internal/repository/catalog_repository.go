package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/photomap-backend-go/internal/database"
	"github.com/jengzang/photomap-backend-go/internal/models"
)

// CatalogRepository handles database operations for the image catalog
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Count returns the number of stored images
func (r *CatalogRepository) Count() (int64, error) {
	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM images").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return total, nil
}

// Save replaces the catalog content with ds
func (r *CatalogRepository) Save(ds *models.Dataset) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{"DELETE FROM segments", "DELETE FROM images", "DELETE FROM categories"} {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to clear catalog: %w", err)
			}
		}

		imageStmt, err := tx.Prepare("INSERT INTO images (position, path, longitude, latitude) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare image insert: %w", err)
		}
		defer imageStmt.Close()

		segmentStmt, err := tx.Prepare(`INSERT INTO segments
			(image_id, ordinal, category, x_min, x_max, y_min, y_max, confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare segment insert: %w", err)
		}
		defer segmentStmt.Close()

		for i, rec := range ds.Records {
			res, err := imageStmt.Exec(i, rec.Path, rec.Longitude, rec.Latitude)
			if err != nil {
				return fmt.Errorf("failed to insert image %s: %w", rec.Path, err)
			}
			imageID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get image id: %w", err)
			}

			for j, s := range rec.Segments {
				_, err := segmentStmt.Exec(imageID, j, s.Category, s.XMin, s.XMax, s.YMin, s.YMax, s.Confidence)
				if err != nil {
					return fmt.Errorf("failed to insert segment %d of %s: %w", j, rec.Path, err)
				}
			}
		}

		for name, cat := range ds.Categories {
			if _, err := tx.Exec("INSERT INTO categories (name, color) VALUES (?, ?)", name, cat.Color); err != nil {
				return fmt.Errorf("failed to insert category %s: %w", name, err)
			}
		}

		return nil
	})
}

// Load reads the whole catalog, records ordered by position and segments by ordinal
func (r *CatalogRepository) Load() (*models.Dataset, error) {
	ds := &models.Dataset{
		Records:    []models.ImageRecord{},
		Categories: map[string]models.Category{},
	}

	rows, err := r.db.Query("SELECT id, path, longitude, latitude FROM images ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]int)
	for rows.Next() {
		var id int64
		rec := models.ImageRecord{Segments: []models.Segment{}}
		if err := rows.Scan(&id, &rec.Path, &rec.Longitude, &rec.Latitude); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		byID[id] = len(ds.Records)
		ds.Records = append(ds.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate images: %w", err)
	}

	segRows, err := r.db.Query(`SELECT image_id, category, x_min, x_max, y_min, y_max, confidence
		FROM segments ORDER BY image_id, ordinal`)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer segRows.Close()

	for segRows.Next() {
		var imageID int64
		var s models.Segment
		if err := segRows.Scan(&imageID, &s.Category, &s.XMin, &s.XMax, &s.YMin, &s.YMax, &s.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		idx, ok := byID[imageID]
		if !ok {
			continue
		}
		ds.Records[idx].Segments = append(ds.Records[idx].Segments, s)
	}
	if err := segRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate segments: %w", err)
	}

	catRows, err := r.db.Query("SELECT name, color FROM categories")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var name string
		var cat models.Category
		if err := catRows.Scan(&name, &cat.Color); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		ds.Categories[name] = cat
	}

	return ds, catRows.Err()
}
