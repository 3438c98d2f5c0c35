package helpers

import "time"

const (
	// DirMod is the default permission for created directories.
	DirMod = 0o755
	// FileMod is the default permission for created files.
	FileMod = 0o644
	// SecretFileMod is the permission for files holding credentials.
	SecretFileMod = 0o600

	// FetchDefaultTimeout is the overall HTTP client timeout.
	FetchDefaultTimeout = 30 * time.Second
	// FetchMirrorTimeout is the overall timeout for EDDB dump downloads.
	FetchMirrorTimeout = 10 * time.Minute
	// FetchDialContextTimeout is the dial timeout for outbound connections.
	FetchDialContextTimeout = 10 * time.Second
	// FetchDialContextKeepAlive is the TCP keep-alive for dials.
	FetchDialContextKeepAlive = 30 * time.Second
	// FetchForceAttemptHTTP2 enables HTTP/2 attempts when possible.
	FetchForceAttemptHTTP2 = true
	// FetchMaxIdleConns is the maximum number of idle connections.
	FetchMaxIdleConns = 100
	// FetchMaxIdleConnsPerHost limits idle connections per host.
	FetchMaxIdleConnsPerHost = 10
	// FetchIdleConnTimeout is the idle connection timeout.
	FetchIdleConnTimeout = 30 * time.Second
	// FetchTLSHandshakeTimeout is the TLS handshake timeout.
	FetchTLSHandshakeTimeout = 5 * time.Second
	// FetchExpectContinueTimeout is the expect-continue timeout.
	FetchExpectContinueTimeout = 1 * time.Second

	// EDDBSystemsURL is the default source of the populated systems dump.
	EDDBSystemsURL = "https://eddb.io/archive/v6/systems_populated.json"
	// EDDBFactionsURL is the default source of the factions dump.
	EDDBFactionsURL = "https://eddb.io/archive/v6/factions.json"
	// EDDBAcceptEncoding is the Accept-Encoding sent for EDDB dumps.
	EDDBAcceptEncoding = "gzip"

	// EDSMServer is the default EDSM base URL.
	EDSMServer = "https://www.edsm.net"
	// EDSMPositionPath is the commander position endpoint.
	EDSMPositionPath = "/api-logs-v1/get-position"
	// EDSMSpherePath is the sphere systems endpoint.
	EDSMSpherePath = "/api-v1/sphere-systems"
	// EDSMMaxRadius is the largest sphere radius EDSM accepts, in light years.
	EDSMMaxRadius = 100.0
	// EDSMPositionOK is the msgnum EDSM returns for a successful position lookup.
	EDSMPositionOK = 100
	// EDSMRequestsPerSecond caps outbound EDSM requests.
	EDSMRequestsPerSecond = 2
	// EDSMRequestBurst is the limiter burst for EDSM requests.
	EDSMRequestBurst = 4

	// CacheSphereTTL is how long a sphere-systems response is served from cache.
	CacheSphereTTL = 10 * time.Minute
	// CachePruneAfter drops cached responses older than this on save.
	CachePruneAfter = 7 * 24 * time.Hour

	// WatchIndexRefresh is how often a watch session brings the index up to date.
	WatchIndexRefresh = time.Hour

	// IndexSchemaVersion is the schema version of the materialized index document.
	IndexSchemaVersion = 3

	// StoreDBLock is the data directory lock file name.
	StoreDBLock = ".go-hge.lock"
	// StoreDBCache is the response cache database filename.
	StoreDBCache = "go-hge-cache.db"
	// StoreSystemsSnapshot is the systems mirror snapshot filename.
	StoreSystemsSnapshot = "eddb_systems_populated.json"
	// StoreFactionsSnapshot is the factions mirror snapshot filename.
	StoreFactionsSnapshot = "eddb_factions.json"
	// StoreIndexSnapshot is the materialized index filename.
	StoreIndexSnapshot = "mmdb.json"
	// StoreProfile is the commander profile filename.
	StoreProfile = "profile.yml"
	// StoreConfig is the optional TOML configuration filename.
	StoreConfig = "go-hge.toml"

	// StoreBucketMeta is the bucket name for store metadata.
	StoreBucketMeta = "meta"
	// StoreBucketAPICache is the bucket name for API cache entries.
	StoreBucketAPICache = "api_cache"
	// StoreBucketLocations is the bucket name for last known commander locations.
	StoreBucketLocations = "locations"

	// StoreMetaSchemaVersion is the metadata key for the store schema version.
	StoreMetaSchemaVersion = "schema_version"
	// StoreMetaLastSnapshot is the metadata key for the last save time.
	StoreMetaLastSnapshot = "last_snapshot"
	// StoreSchemaVersion is the current response store schema version.
	StoreSchemaVersion = 1

	// SearchDefaultLimit is the number of rows shown per search.
	SearchDefaultLimit = 10
)
