// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Table names of the relational schema (see migrations/).
const (
	documentsTable       = "documents"
	registryRecordsTable = "registry_records"
)

// psql builds queries with $N placeholders. Both supported drivers accept
// that form: pgx natively, go-sqlite3 as ordinal parameters.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Upsert targets. EXCLUDED is understood by PostgreSQL and SQLite alike.
const (
	saveDocumentConflict = `ON CONFLICT (id) DO UPDATE SET
		security_level = EXCLUDED.security_level,
		metadata = EXCLUDED.metadata,
		content = EXCLUDED.content,
		updated_at = EXCLUDED.updated_at`

	saveRegistryRecordConflict = `ON CONFLICT (id) DO UPDATE SET
		provider = EXCLUDED.provider,
		record = EXCLUDED.record,
		updated_at = EXCLUDED.updated_at`
)

// buildSaveDocumentQuery builds the save-or-replace statement for one secure
// document. Metadata and content arrive pre-serialized so the same statement
// covers create and update.
func buildSaveDocumentQuery(id, securityLevel string, metadata, content []byte, updatedAt time.Time) (string, []any, error) {
	return psql.Insert(documentsTable).
		Columns("id", "security_level", "metadata", "content", "updated_at").
		Values(id, securityLevel, metadata, content, updatedAt).
		Suffix(saveDocumentConflict).
		ToSql()
}

// buildGetDocumentQuery builds the single-document lookup by id.
func buildGetDocumentQuery(id string) (string, []any, error) {
	return psql.Select("metadata", "content").
		From(documentsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

// buildListDocumentsQuery builds the metadata-only listing. Document ids are
// time-ordered (UUIDv7), so ordering by id yields creation order.
func buildListDocumentsQuery() (string, []any, error) {
	return psql.Select("metadata").
		From(documentsTable).
		OrderBy("id").
		ToSql()
}

// buildDeleteDocumentQuery builds the delete statement for one document.
func buildDeleteDocumentQuery(id string) (string, []any, error) {
	return psql.Delete(documentsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

// buildSaveRegistryRecordQuery builds the save-or-replace statement for one
// registry record.
func buildSaveRegistryRecordQuery(id, provider string, record []byte, updatedAt time.Time) (string, []any, error) {
	return psql.Insert(registryRecordsTable).
		Columns("id", "provider", "record", "updated_at").
		Values(id, provider, record, updatedAt).
		Suffix(saveRegistryRecordConflict).
		ToSql()
}

// buildDeleteRegistryRecordQuery builds the delete statement for one record.
func buildDeleteRegistryRecordQuery(id string) (string, []any, error) {
	return psql.Delete(registryRecordsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

// buildLoadRegistryRecordsQuery builds the full-registry load used at startup.
func buildLoadRegistryRecordsQuery() (string, []any, error) {
	return psql.Select("record").
		From(registryRecordsTable).
		OrderBy("id").
		ToSql()
}
