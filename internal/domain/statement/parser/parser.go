// Package parser defines the statement parser contract, the parsed statement
// model, the shared amount/date normalization helpers and the per-bank parser
// registry. Each supported bank contributes one StatementParser implementation
// that encodes its fixed PDF layout as pattern rules over extracted text.
package parser

import "context"

// LineItemType classifies a statement line item.
type LineItemType string

const (
	LineItemPurchase LineItemType = "purchase"
	LineItemPayment  LineItemType = "payment"
)

// ParsedLineItem is one transaction row detected within a statement.
// Amount is a canonical decimal string with exactly two fractional digits
// and may be negative for refunds/credits.
type ParsedLineItem struct {
	Date        string       `json:"date"` // ISO calendar date (YYYY-MM-DD)
	Description string       `json:"description"`
	Amount      string       `json:"amount"`
	Type        LineItemType `json:"type"`
	Category    string       `json:"category,omitempty"` // bank-supplied label, when present
}

// ParsedStatement is the full result of parsing one statement file. The six
// monetary summary fields are always syntactically valid non-negative
// decimals; optional figures absent from the document default to "0.00".
// Instances are created fresh per parse call and never retained by the core.
type ParsedStatement struct {
	BankCode         string           `json:"bank_code"`
	StatementDate    string           `json:"statement_date"`
	DueDate          string           `json:"due_date"`
	PreviousBalance  string           `json:"previous_balance"`
	PaymentsReceived string           `json:"payments_received"`
	Purchases        string           `json:"purchases"`
	Fees             string           `json:"fees"`
	Interest         string           `json:"interest"`
	TotalAmount      string           `json:"total_amount"`
	LineItems        []ParsedLineItem `json:"line_items"` // source document order
}

// TextExtractor is the extraction capability a parser needs to turn the
// uploaded bytes into the flat text stream its pattern rules run against.
// Satisfied by extractor.Service.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// StatementParser is the capability every bank-specific parser implements.
type StatementParser interface {
	// BankCode returns the stable lowercase key identifying the bank.
	BankCode() string

	// CanParse is a cheap, side-effect-free marker test deciding whether
	// this parser's layout rules plausibly apply to the extracted text.
	// It runs against every registered parser during auto-detection.
	CanParse(text string) bool

	// Parse runs the full extraction pipeline for one file. It verifies
	// the layout matches before extracting anything, and every failure it
	// returns is a *ParseError.
	Parse(ctx context.Context, data []byte, fileName string) (*ParsedStatement, error)
}
