package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

// New creates a zerolog logger. Development gets console output, everything else JSON.
func New(out io.Writer, level, appEnv string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	logLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	if appEnv == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != os.Stdout}
	}
	return zerolog.New(out).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", "picks-site-backend").
		Logger()
}

// DailyFile writes to LOG_DIR/app-YYYY-MM-DD.log, switching files when the date changes
// and deleting files older than the retention window.
type DailyFile struct {
	Dir           string
	RetentionDays int
	Now           func() time.Time

	mu   sync.Mutex
	date string
	file *os.File
}

func OpenDailyFile(dir string, retentionDays int) (*DailyFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	d := &DailyFile{Dir: dir, RetentionDays: retentionDays}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.rotate(d.now().Format(dateLayout)); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DailyFile) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if date := d.now().Format(dateLayout); date != d.date || d.file == nil {
		if err := d.rotate(date); err != nil {
			return 0, err
		}
	}
	return d.file.Write(p)
}

func (d *DailyFile) rotate(date string) error {
	file, err := openLogFile(d.Dir, date)
	if err != nil {
		return err
	}
	if d.file != nil {
		_ = d.file.Close()
	}
	d.file = file
	d.date = date
	cleanupOldLogs(d.Dir, d.RetentionDays, d.now())
	return nil
}

func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

func openLogFile(logDir, date string) (*os.File, error) {
	filename := filepath.Join(logDir, fmt.Sprintf("app-%s.log", date))
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func cleanupOldLogs(logDir string, retentionDays int, now time.Time) {
	if retentionDays < 1 {
		return
	}
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}
	today, _ := time.Parse(dateLayout, now.Format(dateLayout))
	cutoff := today.AddDate(0, 0, -(retentionDays - 1))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		datePart := strings.TrimSuffix(strings.TrimPrefix(name, "app-"), ".log")
		logDate, err := time.Parse(dateLayout, datePart)
		if err != nil {
			continue
		}
		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(logDir, name))
		}
	}
}

// Setup logs to stdout and the daily file. The returned func closes the file.
func Setup(level, appEnv, dir string, retentionDays int) (zerolog.Logger, func(), error) {
	file, err := OpenDailyFile(dir, retentionDays)
	if err != nil {
		return New(os.Stdout, level, appEnv), func() {}, err
	}
	out := zerolog.MultiLevelWriter(consoleOrStdout(appEnv), file)
	log := New(out, level, "")
	return log, func() { _ = file.Close() }, nil
}

func consoleOrStdout(appEnv string) io.Writer {
	if appEnv == "development" {
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return os.Stdout
}
