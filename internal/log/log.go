package logger

import (
	"github.com/sirupsen/logrus"
	"io"
	"os"
	"path/filepath"
)

const LogFileName = "getsrc.log"

var Log = logrus.New()

// InitLogger points the logger at the log file next to the assembled tree.
// The returned closer releases the file handle.
func InitLogger(verbose bool) io.Closer {

	file, err := os.OpenFile(GetLogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		logrus.Fatalf("Failed to open log file: %v", err)
	}

	Log.SetOutput(file)
	configure(verbose)
	return file
}

// InitLoggerWithOutput is InitLogger for callers that own the writer, mostly tests.
func InitLoggerWithOutput(out io.Writer, verbose bool) {
	Log.SetOutput(out)
	configure(verbose)
}

func configure(verbose bool) {
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		Log.SetLevel(logrus.DebugLevel)
		Log.Debugln("Verbose (debug) logging enabled")
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

func GetLogFilePath() string {
	path, err := filepath.Abs(LogFileName)
	if err != nil {
		return LogFileName
	}
	return path
}
