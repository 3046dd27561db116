package urlhandler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Custom errors for file operations
var (
	ErrFileNotFound   = errors.New("input file not found")
	ErrFilePermission = errors.New("permission denied reading input file")
	ErrFileEmpty      = errors.New("input file is empty or contains no URLs")
	ErrReadingFile    = errors.New("error reading input file")
)

// ReadURLsFromFile reads one URL per line. Blank lines and lines starting with
// '#' are skipped. Lines that are not valid http(s) URLs are kept, so callers
// can report them per input, but they are counted and logged.
func ReadURLsFromFile(filePath string, logger zerolog.Logger) ([]string, error) {
	fileLogger := logger.With().Str("file_path", filePath).Logger()

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		fileLogger.Error().Err(err).Msg("Input file not found")
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if err != nil {
		fileLogger.Error().Err(err).Msg("Error checking file stat")
		return nil, fmt.Errorf("error checking file %s: %w", filePath, err)
	}
	if info.IsDir() {
		fileLogger.Error().Msg("Input path is a directory, not a file")
		return nil, fmt.Errorf("input path is a directory, not a file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsPermission(err) {
			fileLogger.Error().Err(err).Msg("Permission denied reading input file")
			return nil, fmt.Errorf("%w: %s", ErrFilePermission, filePath)
		}
		fileLogger.Error().Err(err).Msg("Error opening input file")
		return nil, fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}
	defer file.Close()

	urls, invalid, err := ReadURLs(file)
	if err != nil {
		fileLogger.Error().Err(err).Msg("Error during scanning of file")
		return nil, fmt.Errorf("%w: %s (scan error: %v)", ErrReadingFile, filePath, err)
	}

	fileLogger.Info().
		Int("url_count", len(urls)).
		Int("invalid_count", invalid).
		Msg("Finished reading URL file")

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileEmpty, filePath)
	}
	return urls, nil
}

// ReadURLs scans r line by line and returns the candidate URLs together with
// the number of lines that failed http(s) validation.
func ReadURLs(r io.Reader) ([]string, int, error) {
	var urls []string
	invalid := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !IsHTTPURL(line) {
			invalid++
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, invalid, err
	}
	return urls, invalid, nil
}
