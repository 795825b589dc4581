// Package logging constructs the slog loggers used across the pipeline.
//
// It provides a human-oriented console handler and a JSON handler selected by
// configuration, attribute helpers so call sites stay terse, and context
// integration that stamps the current item hash and run session identifier on
// every record. Obtain loggers through New or NewTee so output format and
// level stay consistent between commands.
package logging
