package logger

// Exported for white-box testing of error chain rendering.
var (
	CollectMessages = collectMessages
	FormatChain     = formatChain
)

// FromEnv exposes the node constructor.
var FromEnv = fromEnv
