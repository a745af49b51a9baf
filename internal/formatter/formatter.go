// package formatter exports a user's movies to CSV, Markdown, JSON or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

// Format names accepted by [Export] and [WriteExport].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatText     = "txt"
)

// Formats lists every supported export format.
var Formats = []string{FormatCSV, FormatMarkdown, FormatJSON, FormatText}

// MovieExport is a user together with the movies they own.
type MovieExport struct {
	User   *models.User    `json:"user"`
	Movies []*models.Movie `json:"movies"`
}

// Extension returns the file extension for format.
func Extension(format string) string {
	switch format {
	case FormatMarkdown:
		return "md"
	default:
		return format
	}
}

// Export renders export in the given format.
func Export(export *MovieExport, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatJSON:
		return ExportToJSON(export)
	case FormatText:
		return ExportToText(export)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q (want one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// ExportToCSV converts a MovieExport to CSV with columns: ID, Name, Director, Year, Poster URL.
// Absent values are written as empty cells.
func ExportToCSV(export *MovieExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Director", "Year", "Poster URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range export.Movies {
		record := []string{
			strconv.FormatInt(movie.ID(), 10),
			movie.Name(),
			movie.Director().OrElse(""),
			yearString(movie, ""),
			movie.PosterURL().OrElse(""),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a MovieExport to a Markdown document with one list entry per movie.
func ExportToMarkdown(export *MovieExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s's Favorite Movies\n\n", export.User.Name())
	fmt.Fprintf(&buf, "**Movies**: %d\n\n", len(export.Movies))

	if len(export.Movies) == 0 {
		buf.WriteString("_No movies yet._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("## Movies\n\n")
	for i, movie := range export.Movies {
		fmt.Fprintf(&buf, "%d. **%s**", i+1, movie.Name())
		if y, ok := movie.Year().Get(); ok {
			fmt.Fprintf(&buf, " (%d)", y)
		}
		if d, ok := movie.Director().Get(); ok {
			fmt.Fprintf(&buf, " - %s", d)
		}
		if p, ok := movie.PosterURL().Get(); ok {
			fmt.Fprintf(&buf, " [poster](%s)", p)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a MovieExport to indented JSON. Absent fields are null.
func ExportToJSON(export *MovieExport) ([]byte, error) {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToText converts a MovieExport to plain text
func ExportToText(export *MovieExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "User: %s\n", export.User.Name())
	fmt.Fprintf(&buf, "Movies: %d\n\n", len(export.Movies))

	for i, movie := range export.Movies {
		fmt.Fprintf(&buf, "%d. %s (%s) - %s\n", i+1, movie.Name(), yearString(movie, "?"), movie.Director().OrElse("unknown"))
	}

	return buf.Bytes(), nil
}

// WriteExport renders export in format and writes it to path.
//
// Defaults to user_{id}_movies.{ext} in the working directory.
func WriteExport(export *MovieExport, format, path string) (string, error) {
	data, err := Export(export, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("user_%d_movies.%s", export.User.ID(), Extension(format))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func yearString(movie *models.Movie, absent string) string {
	if y, ok := movie.Year().Get(); ok {
		return strconv.Itoa(y)
	}
	return absent
}
