// Package ticketcsv converts tickets to the exchange CSV used with the
// external ticket system, and parses the status files it sends back.
package ticketcsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ISO8601 matches the millisecond UTC timestamps the external system expects.
const ISO8601 = "2006-01-02T15:04:05.000Z07:00"

// byteOrderMark is written at the start of CSV files by spreadsheet exports.
const byteOrderMark = "\ufeff"

// ExportColumns is the fixed export header.
var ExportColumns = []string{
	"uuid",
	"ticketNumber",
	"workspaceUuid",
	"createdByUuid",
	"title",
	"description",
	"severity",
	"status",
	"dueDate",
	"createdAt",
}

var (
	ErrEmptyContent   = errors.New("CSV content cannot be empty")
	ErrNoDataRows     = errors.New("CSV must contain at least one data row")
	ErrMissingColumns = errors.New("CSV must contain uuid and status columns")
)

// ParseError wraps a structural CSV error.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("CSV parsing errors: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StatusRow is one data row of an import file. Values are trimmed but not
// validated.
type StatusRow struct {
	Line   int
	UUID   string
	Status string
}

// Encode writes tickets with a header row. Fields are quoted only when needed.
func Encode(tickets []domain.Ticket) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(ExportColumns); err != nil {
		return "", err
	}
	for _, t := range tickets {
		record := []string{
			t.UUID,
			t.TicketNumber,
			t.WorkspaceUUID,
			t.CreatedByUUID,
			t.Title,
			t.Description,
			string(t.Severity),
			string(t.Status),
			formatTime(t.DueDate),
			formatTime(t.CreatedAt),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// DecodeStatuses parses an import file. Structural problems are returned
// before any row is yielded: empty content, malformed CSV, no data rows, or
// a header without uuid and status. A leading byte-order mark is ignored.
func DecodeStatuses(content string) ([]StatusRow, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(content, byteOrderMark)))
	r.Comma = ','

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoDataRows
		}
		return nil, &ParseError{Err: err}
	}

	uuidIdx, statusIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "uuid":
			uuidIdx = i
		case "status":
			statusIdx = i
		}
	}

	var rows []StatusRow
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		if isBlank(record) {
			continue
		}
		line, _ := r.FieldPos(0)
		row := StatusRow{Line: line}
		if uuidIdx >= 0 {
			row.UUID = strings.TrimSpace(record[uuidIdx])
		}
		if statusIdx >= 0 {
			row.Status = strings.TrimSpace(record[statusIdx])
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	if uuidIdx < 0 || statusIdx < 0 {
		return nil, ErrMissingColumns
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func formatTime(t time.Time) string {
	return t.UTC().Format(ISO8601)
}
