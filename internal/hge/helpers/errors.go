package helpers

import "errors"

var (
	// ErrConfigIsNil indicates a nil config was provided.
	ErrConfigIsNil = errors.New("config is nil")
	// ErrDataDirEmpty indicates the data directory is empty.
	ErrDataDirEmpty = errors.New("data directory is empty")
	// ErrAnotherInstanceIsRunning indicates another instance is already running.
	ErrAnotherInstanceIsRunning = errors.New("another instance is running")
	// ErrInvalidRadius indicates a search radius outside (0, 100] light years.
	ErrInvalidRadius = errors.New("radius must be greater than 0 and at most 100 ly")
	// ErrInvalidWatchInterval indicates a watch interval below the minimum.
	ErrInvalidWatchInterval = errors.New("watch interval is too short")

	// ErrProfileMissing indicates no commander profile is saved.
	ErrProfileMissing = errors.New("commander profile is missing, run `go-hge profile` or pass --system")
	// ErrProfileIncomplete indicates the profile lacks a commander name or API key.
	ErrProfileIncomplete = errors.New("commander profile requires a name and an API key")
	// ErrPromptCancelled indicates the interactive prompt was cancelled.
	ErrPromptCancelled = errors.New("prompt cancelled")

	// ErrMirrorFetchFailed indicates a remote mirror download failed.
	ErrMirrorFetchFailed = errors.New("mirror fetch failed")
	// ErrMirrorDecodeFailed indicates a remote payload could not be decoded.
	ErrMirrorDecodeFailed = errors.New("mirror payload decode failed")
	// ErrMirrorPersistFailed indicates a snapshot could not be written.
	ErrMirrorPersistFailed = errors.New("mirror snapshot persist failed")
	// ErrMirrorEmpty indicates a mirror holds no content.
	ErrMirrorEmpty = errors.New("mirror has no content")
	// ErrSnapshotCorrupt indicates a local snapshot could not be parsed.
	ErrSnapshotCorrupt = errors.New("local snapshot is corrupt")
	// ErrUnsupportedEncoding indicates an unknown Content-Encoding.
	ErrUnsupportedEncoding = errors.New("unsupported content encoding")
	// ErrLastModifiedMissing indicates a response carried no Last-Modified header.
	ErrLastModifiedMissing = errors.New("response has no Last-Modified header")

	// ErrUnknownFaction indicates a faction presence references an unknown faction id.
	ErrUnknownFaction = errors.New("unknown faction")
	// ErrUnknownMaterial indicates an unrecognized material name.
	ErrUnknownMaterial = errors.New("unknown material")

	// ErrPositionUnavailable indicates EDSM could not report the commander position.
	ErrPositionUnavailable = errors.New("commander position unavailable")
	// ErrSystemNameEmpty indicates an empty system name.
	ErrSystemNameEmpty = errors.New("system name is empty")

	// ErrDbNil indicates a nil Bolt DB was provided.
	ErrDbNil = errors.New("bolt DB is nil")
	// ErrStoreNil indicates a nil store was provided.
	ErrStoreNil = errors.New("store is nil")
	// ErrUnsupportedSchemaVersion indicates the store schema version is unsupported.
	ErrUnsupportedSchemaVersion = errors.New("unsupported store schema version")
)
