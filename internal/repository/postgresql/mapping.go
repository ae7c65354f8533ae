package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/folhaplus/folha-backend-go/internal/domain/mapping"
	"github.com/folhaplus/folha-backend-go/internal/pkg/database"
)

type mappingRepositoryImpl struct {
	db *database.DB
}

func NewMappingRepository(db *database.DB) mapping.Repository {
	return &mappingRepositoryImpl{db: db}
}

// List implements mapping.Repository.
func (r *mappingRepositoryImpl) List(ctx context.Context) ([]mapping.Mapping, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, header_signature, fields, created_at
		FROM header_mappings
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list header mappings: %w", err)
	}
	defer rows.Close()

	var mappings []mapping.Mapping
	for rows.Next() {
		var m mapping.Mapping
		var fields []byte
		if err := rows.Scan(&m.ID, &m.Name, &m.HeaderSignature, &fields, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan header mapping: %w", err)
		}
		if err := json.Unmarshal(fields, &m.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode mapping fields: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate header mappings: %w", err)
	}

	return mappings, nil
}

// Create implements mapping.Repository.
func (r *mappingRepositoryImpl) Create(ctx context.Context, m mapping.Mapping) (mapping.Mapping, error) {
	q := GetQuerier(ctx, r.db)

	fields, err := json.Marshal(m.Fields)
	if err != nil {
		return mapping.Mapping{}, fmt.Errorf("failed to encode mapping fields: %w", err)
	}

	query := `
		INSERT INTO header_mappings (id, name, header_signature, fields)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, header_signature, fields, created_at
	`

	var created mapping.Mapping
	var createdFields []byte
	err = q.QueryRow(ctx, query, m.ID, m.Name, m.HeaderSignature, fields).Scan(
		&created.ID,
		&created.Name,
		&created.HeaderSignature,
		&createdFields,
		&created.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return mapping.Mapping{}, mapping.ErrMappingNameExists
		}
		return mapping.Mapping{}, fmt.Errorf("failed to create header mapping: %w", err)
	}
	if err := json.Unmarshal(createdFields, &created.Fields); err != nil {
		return mapping.Mapping{}, fmt.Errorf("failed to decode mapping fields: %w", err)
	}

	return created, nil
}

// Delete implements mapping.Repository.
func (r *mappingRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM header_mappings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete header mapping with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return mapping.ErrMappingNotFound
	}

	return nil
}
