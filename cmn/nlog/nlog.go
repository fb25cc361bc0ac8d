// Package nlog is the leveled logger used throughout this module.
//
// It mirrors the teacher's own logging package rather than wrapping a
// third-party structured logger: every call site logs through the
// package-level functions below, never through the standard "log"
// package directly.
package nlog

import (
	"log"
	"os"
	"sync/atomic"
)

type Level int32

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelDebug
)

var (
	level  atomic.Int32
	logger = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
)

func init() {
	level.Store(int32(LevelInfo))
}

// SetLevel adjusts the global verbosity. Safe for concurrent use.
func SetLevel(l Level) { level.Store(int32(l)) }

func enabled(l Level) bool { return Level(level.Load()) >= l }

func Errorf(format string, args ...any) {
	logger.Printf("E "+format, args...)
}

func Errorln(args ...any) {
	logger.Println(append([]any{"E"}, args...)...)
}

func Warningf(format string, args ...any) {
	if enabled(LevelWarning) {
		logger.Printf("W "+format, args...)
	}
}

func Warningln(args ...any) {
	if enabled(LevelWarning) {
		logger.Println(append([]any{"W"}, args...)...)
	}
}

func Infof(format string, args ...any) {
	if enabled(LevelInfo) {
		logger.Printf("I "+format, args...)
	}
}

func Infoln(args ...any) {
	if enabled(LevelInfo) {
		logger.Println(append([]any{"I"}, args...)...)
	}
}

func Debugf(format string, args ...any) {
	if enabled(LevelDebug) {
		logger.Printf("D "+format, args...)
	}
}

func Debugln(args ...any) {
	if enabled(LevelDebug) {
		logger.Println(append([]any{"D"}, args...)...)
	}
}
