package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/models"
)

// registryRepository is the SQL-backed implementation of
// [RegistryRepository]. Each record is one row in the "registry_records"
// table with the full record serialized as JSON and the provider promoted to
// its own column. Records never contain secret material, only references.
type registryRepository struct {
	*DB
	logger *logger.Logger
}

// NewRegistryRepository constructs a [RegistryRepository] backed by the
// provided database connection and logger.
func NewRegistryRepository(db *DB, logger *logger.Logger) RegistryRepository {
	logger.Debug().Msg("creating registry repository")
	return &registryRepository{
		DB:     db,
		logger: logger,
	}
}

// Save persists record, replacing any previous row with the same id.
func (r *registryRepository) Save(ctx context.Context, record models.RegistryRecord) error {
	log := logger.FromContext(ctx)

	raw, err := json.Marshal(record)
	if err != nil {
		log.Err(err).Str("func", "*registryRepository.Save").Str("record_id", record.ID).Msg("error marshalling registry record")
		return fmt.Errorf("marshal registry record: %w", err)
	}

	query, args, err := buildSaveRegistryRecordQuery(record.ID, record.Provider, raw, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*registryRepository.Save").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*registryRepository.Save").
			Str("record_id", record.ID).
			Bool("retryable", r.DB.retryable(err)).
			Msg("error executing query for saving registry record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		log.Error().Str("func", "*registryRepository.Save").Str("record_id", record.ID).Msg("provided registry record was not saved")
		return ErrRegistryRecordNotSaved
	}

	return nil
}

// Delete removes the record with the given id. Deleting an absent record is
// a no-op.
func (r *registryRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteRegistryRecordQuery(id)
	if err != nil {
		log.Err(err).Str("func", "*registryRepository.Delete").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "*registryRepository.Delete").
			Str("record_id", id).
			Bool("retryable", r.DB.retryable(err)).
			Msg("error executing query for deleting registry record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// LoadAll returns every stored record. Called once at startup to rebuild the
// in-memory registry index.
func (r *registryRepository) LoadAll(ctx context.Context) ([]models.RegistryRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildLoadRegistryRecordsQuery()
	if err != nil {
		log.Err(err).Str("func", "*registryRepository.LoadAll").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*registryRepository.LoadAll").
			Bool("retryable", r.DB.retryable(err)).
			Msg("error executing query for loading registry records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.RegistryRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			log.Err(err).Str("func", "*registryRepository.LoadAll").Msg("error scanning registry record rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		var record models.RegistryRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			log.Err(err).Str("func", "*registryRepository.LoadAll").Msg("error unmarshalling registry record")
			return nil, fmt.Errorf("unmarshal registry record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*registryRepository.LoadAll").Msg("error iterating registry record rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}
