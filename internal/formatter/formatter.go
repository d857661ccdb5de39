// package formatter provides functions to export publish history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/shared"
)

// ExportToCSV converts history records to CSV with one row per song,
// columns: Playlist, Published, Position, Title, Artist, Duration
func ExportToCSV(records []models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Playlist", "Published", "Position", "Title", "Artist", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		published := record.CreatedAt.Format("2006-01-02 15:04")
		for _, song := range record.Songs {
			row := []string{
				record.Title,
				published,
				strconv.Itoa(song.Position),
				song.Title,
				song.Artist,
				shared.FormatDuration(song.DurationMS),
			}
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts history records to a Markdown document with one
// section per playlist.
func ExportToMarkdown(records []models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Published Playlists\n\n")

	for _, record := range records {
		buf.WriteString(fmt.Sprintf("## %s\n\n", record.Title))
		buf.WriteString(fmt.Sprintf("**Published**: %s\n", record.CreatedAt.Format("January 2, 2006")))
		buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(record.Songs)))

		for _, song := range record.Songs {
			duration := shared.FormatDuration(song.DurationMS)
			buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", song.Position, song.Artist, song.Title, duration))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts history records to plain text.
func ExportToText(records []models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer

	for _, record := range records {
		buf.WriteString(fmt.Sprintf("Playlist: %s\n", record.Title))
		buf.WriteString(fmt.Sprintf("Published: %s\n", record.CreatedAt.Format("2006-01-02")))
		buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(record.Songs)))

		for _, song := range record.Songs {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", song.Position, song.Artist, song.Title))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ToJSON generates a JSON representation of history records.
func ToJSON(records []models.HistoryRecord) ([]byte, error) {
	return shared.MarshalJSON(records, true)
}

// WriteExport writes history records to path in the named format.
// Supported formats: csv, markdown, text, json.
func WriteExport(records []models.HistoryRecord, format, path string) (string, error) {
	var data []byte
	var err error
	var ext string

	switch format {
	case "csv":
		data, err = ExportToCSV(records)
		ext = ".csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(records)
		ext = ".md"
	case "text", "txt":
		data, err = ExportToText(records)
		ext = ".txt"
	case "json":
		data, err = ToJSON(records)
		ext = ".json"
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate export: %w", err)
	}

	if path == "" {
		path = "history" + ext
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
