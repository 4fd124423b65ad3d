package main

// debugLog is silent unless --debug is given.  It goes through Logger, so once the log file is
// open debug lines land there as well.
func debugLog(format string, a ...any) {
	if !Debug {
		return
	}
	Logger.Printf("debug: "+format, a...)
}
