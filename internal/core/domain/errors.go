package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidSignature is returned when a signature carries no usable constraint or a malformed field.
	ErrInvalidSignature = zerr.New("invalid signature")

	// ErrEmptySignature is returned when a signature constrains nothing.
	ErrEmptySignature = zerr.New("signature constrains nothing")

	// ErrInvalidKind is returned when a signature requests an unknown entity kind.
	ErrInvalidKind = zerr.New("invalid signature type, expected class, function, object or module")

	// ErrInvalidNamePattern is returned when a signature name pattern does not compile.
	ErrInvalidNamePattern = zerr.New("invalid name pattern")

	// ErrNoMatchingCandidate is returned when no candidate passes structural validation.
	ErrNoMatchingCandidate = zerr.New("no candidate matched signature")

	// ErrRootNotDirectory is returned when the discovery root is not a directory.
	ErrRootNotDirectory = zerr.New("discovery root is not a directory")

	// ErrUnsupportedLanguage is returned by extractors for files they cannot parse.
	ErrUnsupportedLanguage = zerr.New("unsupported language")

	// ErrExtractionFailed is returned when metadata extraction fails.
	ErrExtractionFailed = zerr.New("failed to extract export metadata")

	// ErrExtractionTimeout is returned when an extractor exceeds its time budget.
	ErrExtractionTimeout = zerr.New("metadata extraction timed out")

	// ErrNoMetadata is returned by the module loader when a candidate has no export metadata.
	ErrNoMetadata = zerr.New("candidate has no export metadata")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrCacheReadFailed is returned when the persisted cache cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read discovery cache")

	// ErrCacheMarshalFailed is returned when the persisted cache cannot be marshaled.
	ErrCacheMarshalFailed = zerr.New("failed to marshal discovery cache")

	// ErrCacheWriteFailed is returned when the persisted cache cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write discovery cache")

	// ErrCacheClearFailed is returned when the persisted cache cannot be removed.
	ErrCacheClearFailed = zerr.New("failed to clear discovery cache")
)
