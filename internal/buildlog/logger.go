// Package buildlog is a small thread-safe, periodic, leveled logger for
// the quadtree builder and CLI. It is adapted from tormol/AIS's logger
// package: same level scheme, same Compose-to-hold-the-lock pattern, same
// background periodic-logger goroutine, re-scoped from AIS connection
// bookkeeping to build-progress reporting.
package buildlog

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"
)

// Log message importance, highest (most verbose) to lowest.
const (
	Debug   int = 9
	Info    int = 7
	Warning int = 5
	Error   int = 3
	Fatal   int = 1
)

// initialInterval lets periodic loggers run soon after start, to show
// that a long build is actually progressing.
const initialInterval = 2 * time.Second

// fatalExitCode is the code Logger aborts the process with on a Fatal log.
const fatalExitCode int = 3

type loggerFunc func(l *Logger, sinceLast time.Duration)

type periodicLogger struct {
	id          string
	minInterval time.Duration
	lastRun     time.Time
	logger      loggerFunc
}

// Logger is a thread-safe, optionally periodic logger. Should not be
// copied or moved, as it embeds mutexes.
type Logger struct {
	writeTo             io.WriteCloser
	writeLock           sync.Mutex
	Threshold           int
	periodicLoggers     []periodicLogger
	periodicLoggersLock sync.Mutex
	walkInterval        time.Duration
}

// New creates a Logger writing to writeTo at the given level. If
// walkInterval is positive, a background goroutine runs registered
// periodic loggers at (at least) their configured interval.
func New(writeTo io.WriteCloser, level int, walkInterval time.Duration) *Logger {
	l := &Logger{
		writeTo:      writeTo,
		Threshold:    level,
		walkInterval: walkInterval,
	}
	if walkInterval > 0 {
		go func() {
			time.Sleep(initialInterval)
			for l.writeTo != nil {
				started := time.Now()
				l.RunPeriodicLoggers(started)
				toSleep := l.walkInterval - time.Since(started)
				time.Sleep(toSleep)
			}
		}()
	}
	return l
}

// NewStderr is a convenience constructor writing to os.Stderr with no
// periodic loggers.
func NewStderr(level int) *Logger {
	return New(nopCloser{os.Stderr}, level, 0)
}

// NewStderrPeriodic is NewStderr with a walk interval, for callers (the
// build command) that want to register a periodic progress logger.
func NewStderrPeriodic(level int, walkInterval time.Duration) *Logger {
	return New(nopCloser{os.Stderr}, level, walkInterval)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Close closes the underlying writer. Further logs are silently dropped.
func (l *Logger) Close() {
	l.writeLock.Lock()
	defer l.writeLock.Unlock()
	_ = l.writeTo.Close()
	l.writeTo = nil
}

// AddPeriodicLogger registers f to run at least every minInterval, rounded
// up to a multiple of the walkInterval the Logger was created with.
func (l *Logger) AddPeriodicLogger(id string, minInterval time.Duration, f loggerFunc) {
	if l.walkInterval <= 0 {
		l.Error("cannot add periodic logger %s: this logger has no walk interval", id)
		return
	}
	l.periodicLoggersLock.Lock()
	defer l.periodicLoggersLock.Unlock()
	for _, c := range l.periodicLoggers {
		if c.id == id {
			l.Error("a periodic logger with id %s already exists", id)
		}
	}
	l.periodicLoggers = append(l.periodicLoggers, periodicLogger{
		id:          id,
		minInterval: minInterval,
		lastRun:     time.Now().Add(-time.Hour),
		logger:      f,
	})
}

// RunPeriodicLoggers runs every registered periodic logger whose interval
// has elapsed. Exported so a caller can force a final run before exiting.
func (l *Logger) RunPeriodicLoggers(started time.Time) {
	l.periodicLoggersLock.Lock()
	defer l.periodicLoggersLock.Unlock()
	for i := range l.periodicLoggers {
		c := &l.periodicLoggers[i]
		d := started.Sub(c.lastRun)
		if d >= c.minInterval {
			c.lastRun = started
			c.logger(l, d)
		}
	}
}

func (l *Logger) prefixMessage(level int) {
	if l.Threshold < Debug {
		fmt.Fprint(l.writeTo, time.Now().Format("2006-01-02 15:04:05: "))
	}
	switch level {
	case Warning:
		fmt.Fprint(l.writeTo, "WARNING: ")
	case Error:
		fmt.Fprint(l.writeTo, "ERROR: ")
	case Fatal:
		fmt.Fprint(l.writeTo, "FATAL: ")
	}
}

// Log writes the message if level passes the logger's threshold.
func (l *Logger) Log(level int, format string, args ...interface{}) {
	if level > l.Threshold {
		return
	}
	l.writeLock.Lock()
	defer l.writeLock.Unlock()
	if l.writeTo == nil {
		return
	}
	l.prefixMessage(level)
	if len(args) == 0 {
		fmt.Fprint(l.writeTo, format)
	} else {
		fmt.Fprintf(l.writeTo, format, args...)
	}
	fmt.Fprintln(l.writeTo)
	if level == Fatal {
		os.Exit(fatalExitCode)
	}
}

func (l *Logger) Debug(format string, args ...interface{})   { l.Log(Debug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})    { l.Log(Info, format, args...) }
func (l *Logger) Warning(format string, args ...interface{}) { l.Log(Warning, format, args...) }
func (l *Logger) Error(format string, args ...interface{})   { l.Log(Error, format, args...) }
func (l *Logger) Fatal(format string, args ...interface{})   { l.Log(Fatal, format, args...) }

// FatalIfErr does nothing if err is nil, otherwise logs and aborts.
func (l *Logger) FatalIfErr(err error, format string, args ...interface{}) {
	if err != nil {
		args = append(args, err.Error())
		l.Fatal("failed to "+format+": %s", args...)
	}
}

// SiMultiple scales n down to Kilo/Mega/Giga/... (up to maxUnit), rounding
// half up on the last division, and appends the unit letter, for compact
// stats logging (e.g. oracle call counts).
func SiMultiple(n, multipleOf uint64, maxUnit byte) string {
	var steps, rem uint64
	units := " KMGTPEZY"
	for n >= multipleOf && units[steps] != maxUnit {
		rem = n % multipleOf
		n /= multipleOf
		steps++
	}
	if rem%multipleOf >= multipleOf/2 {
		n++
	}
	s := strconv.FormatUint(n, 10)
	if steps > 0 {
		s += units[steps : steps+1]
	}
	return s
}
