package logs

import logging "github.com/ipfs/go-log/v2"

// SetAllLoggers sets level on every logger and quiets chatty dependencies.
func SetAllLoggers(level logging.LogLevel) {
	logging.SetAllLoggers(level)
	// go-jsonrpc logs every reconnect and closed request at info
	_ = logging.SetLogLevel("rpc", "WARN")
}
