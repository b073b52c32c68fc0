package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"review-reply/internal/database"
)

const TimestampFormat = "2006-01-02 15:04:05"

// utf8BOM lets spreadsheet applications detect the encoding of the file.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var Header = []string{"Timestamp", "Client", "Review", "Reply", "Sentiment"}

// WriteCSV writes the header followed by one row per history entry.
func WriteCSV(w io.Writer, entries []database.HistoryEntry) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}

	for _, entry := range entries {
		row := []string{
			entry.Timestamp.UTC().Format(TimestampFormat),
			entry.ClientLabel,
			entry.Review,
			entry.Reply,
			entry.Sentiment,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing csv: %w", err)
	}
	return nil
}

func RenderCSV(entries []database.HistoryEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func FileName(now time.Time) string {
	return fmt.Sprintf("review_replies_%s.csv", now.UTC().Format("20060102_150405"))
}
