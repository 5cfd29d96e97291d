package corpus

import "github.com/reflectoring/reflectoring.github.io-sub011/internal/runtimeconfig"

var (
	ErrContentDirRequired   = runtimeconfig.ErrContentDirRequired
	ErrPatternInvalid       = runtimeconfig.ErrPatternInvalid
	ErrWorkersInvalid       = runtimeconfig.ErrWorkersInvalid
	ErrDateLayoutEmpty      = runtimeconfig.ErrDateLayoutEmpty
	ErrStorageDriverUnknown = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired   = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid      = runtimeconfig.ErrCacheTTLInvalid
	ErrFeedLimitInvalid     = runtimeconfig.ErrFeedLimitInvalid
	ErrSiteBaseURLRequired  = runtimeconfig.ErrSiteBaseURLRequired
	ErrWatchDebounceInvalid = runtimeconfig.ErrWatchDebounceInvalid
	ErrLoggingLevelInvalid  = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	CorpusConfig     = runtimeconfig.CorpusConfig
	ValidationConfig = runtimeconfig.ValidationConfig
	MarkdownConfig   = runtimeconfig.MarkdownConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	SiteConfig       = runtimeconfig.SiteConfig
	WatchConfig      = runtimeconfig.WatchConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the opinionated defaults for validating a blog corpus
// checked out in the working directory.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
