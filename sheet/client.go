package sheet

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"ytpod/reconcile"
)

// ClientOptions configures a ledger Client.
type ClientOptions struct {
	// APIKey authenticates read requests.
	APIKey string
	// CredentialsFile is a service account key for appends. Optional;
	// without it the client is read-only.
	CredentialsFile string
	// SpreadsheetID identifies the ledger spreadsheet.
	SpreadsheetID string
	// SheetName is the ledger tab name.
	SheetName string
	// Range is the cell range read within the tab, e.g. "A1:G".
	Range string
	// YesToken is the ledger's "Yes" literal for the flag columns.
	YesToken string
}

// Client reads and appends ledger rows through the Sheets API. Reads use
// an API key; appends use service account credentials with the
// spreadsheets scope, matching how the ledger is shared.
type Client struct {
	reader        *sheets.Service
	writer        *sheets.Service
	spreadsheetID string
	sheetName     string
	readRange     string
	yesToken      string
}

// NewClient creates a ledger client. The writer service is only built when
// a credentials file is configured.
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("sheet: api key required")
	}
	if opts.SpreadsheetID == "" || opts.SheetName == "" {
		return nil, fmt.Errorf("sheet: spreadsheet id and sheet name required")
	}

	reader, err := sheets.NewService(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	c := &Client{
		reader:        reader,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
		readRange:     fmt.Sprintf("%s!%s", opts.SheetName, opts.Range),
		yesToken:      opts.YesToken,
	}

	if opts.CredentialsFile != "" {
		writer, err := sheets.NewService(ctx,
			option.WithCredentialsFile(opts.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsScope))
		if err != nil {
			return nil, fmt.Errorf("create sheets append service: %w", err)
		}
		c.writer = writer
	}

	return c, nil
}

// ListRows fetches the configured range and returns the parsed ledger
// rows, header excluded.
func (c *Client) ListRows(ctx context.Context) ([]reconcile.LedgerRow, error) {
	resp, err := c.reader.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", c.readRange, err)
	}
	if len(resp.Values) == 0 {
		return nil, ErrEmptyRange
	}
	return parseRows(resp.Values, c.yesToken)
}

// AppendRows appends the given rows after the ledger's last row in a
// single batch, using RAW value input so the literals land unmodified.
func (c *Client) AppendRows(ctx context.Context, rows [][]string) error {
	if c.writer == nil {
		return ErrReadOnly
	}
	if len(rows) == 0 {
		return nil
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		values[i] = cells
	}

	_, err := c.writer.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows to %s: %w", len(rows), c.sheetName, err)
	}
	return nil
}
