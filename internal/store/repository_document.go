package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/models"
)

// documentRepository is the SQL-backed implementation of
// [DocumentRepository]. It persists each document as one row in the
// "documents" table: the always-readable metadata and the (possibly
// encrypted) content are stored as separate JSON columns so list views never
// touch ciphertext.
//
// Every method obtains a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type documentRepository struct {
	*DB
	logger *logger.Logger
}

// NewDocumentRepository constructs a [DocumentRepository] backed by the
// provided database connection and logger.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	logger.Debug().Msg("creating document repository")
	return &documentRepository{
		DB:     db,
		logger: logger,
	}
}

// Save persists doc, replacing any previous row with the same id. It is used
// for both creation and every committed mutation; the upsert keeps the two
// paths identical.
func (r *documentRepository) Save(ctx context.Context, doc models.SecureDocument) error {
	log := logger.FromContext(ctx)

	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.Save").Str("document_id", doc.Metadata.ID).Msg("error marshalling document metadata")
		return fmt.Errorf("marshal document metadata: %w", err)
	}

	content, err := json.Marshal(doc.Content)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.Save").Str("document_id", doc.Metadata.ID).Msg("error marshalling document content")
		return fmt.Errorf("marshal document content: %w", err)
	}

	query, args, err := buildSaveDocumentQuery(doc.Metadata.ID, string(doc.Metadata.SecurityLevel), metadata, content, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.Save").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*documentRepository.Save").
			Str("document_id", doc.Metadata.ID).
			Bool("retryable", r.DB.retryable(err)).
			Msg("error executing query for saving document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		log.Error().Str("func", "*documentRepository.Save").Str("document_id", doc.Metadata.ID).Msg("provided document was not saved")
		return ErrDocumentNotSaved
	}

	return nil
}

// Get loads the document with the given id. Absence is reported via
// found=false, not an error.
func (r *documentRepository) Get(ctx context.Context, id string) (models.SecureDocument, bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetDocumentQuery(id)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.Get").Msg("failed to build query")
		return models.SecureDocument{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var metadata, content []byte
	row := r.DB.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&metadata, &content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SecureDocument{}, false, nil
		}
		log.Err(err).
			Str("func", "*documentRepository.Get").
			Str("document_id", id).
			Bool("retryable", r.DB.retryable(err)).
			Msg("error scanning document row")
		return models.SecureDocument{}, false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	var doc models.SecureDocument
	if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
		log.Err(err).Str("func", "*documentRepository.Get").Str("document_id", id).Msg("error unmarshalling document metadata")
		return models.SecureDocument{}, false, fmt.Errorf("unmarshal document metadata: %w", err)
	}
	if err := json.Unmarshal(content, &doc.Content); err != nil {
		log.Err(err).Str("func", "*documentRepository.Get").Str("document_id", id).Msg("error unmarshalling document content")
		return models.SecureDocument{}, false, fmt.Errorf("unmarshal document content: %w", err)
	}

	return doc, true, nil
}

// List returns the metadata of every stored document in creation order.
func (r *documentRepository) List(ctx context.Context) ([]models.DocumentMetadata, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListDocumentsQuery()
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.List").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*documentRepository.List").
			Bool("retryable", r.DB.retryable(err)).
			Msg("error executing query for listing documents")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var list []models.DocumentMetadata
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			log.Err(err).Str("func", "*documentRepository.List").Msg("error scanning document metadata rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		var meta models.DocumentMetadata
		if err := json.Unmarshal(raw, &meta); err != nil {
			log.Err(err).Str("func", "*documentRepository.List").Msg("error unmarshalling document metadata")
			return nil, fmt.Errorf("unmarshal document metadata: %w", err)
		}
		list = append(list, meta)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*documentRepository.List").Msg("error iterating document rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return list, nil
}

// Delete removes the document with the given id. Deleting an absent document
// is a no-op.
func (r *documentRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteDocumentQuery(id)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.Delete").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "*documentRepository.Delete").
			Str("document_id", id).
			Bool("retryable", r.DB.retryable(err)).
			Msg("error executing query for deleting document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
