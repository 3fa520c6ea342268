package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBEmptyDatabaseError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaIndexError

	// Ingest errors
	IngestFetchError
	IngestDecodeError
	IngestCSVError
	IngestUpsertError

	// Enrich errors
	EnrichQueryError
	EnrichResolveError
	EnrichExtractError
	EnrichMergeError
	EnrichMissLogError

	// Requeue errors
	RequeueQueryError
)
