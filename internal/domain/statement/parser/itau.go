package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/gastosgo/statement-engine/internal/domain/statement/normalizer"
)

// itauMarkers identify an Itaú statement during detection. Any single hit is
// enough; the total-amount phrase catches statements where the bank name was
// mangled by the PDF's font encoding.
var itauMarkers = []string{
	"itaú",
	"itau",
	"itaucard",
	"total desta fatura",
}

// Labeled-phrase rules for the statement summary. Amounts accept an optional
// R$ prefix in plain or grouped Brazilian notation.
var (
	itauStatementDateRe = regexp.MustCompile(`(?i)emiss[ãa]o:?\s*(\d{2}/\d{2}/\d{4})`)
	itauDueDateRe       = regexp.MustCompile(`(?i)vencimento:?\s*(\d{2}/\d{2}/\d{4})`)
	itauPrevBalanceRe   = regexp.MustCompile(`(?i)total da fatura anterior:?\s*(?:R\$\s*)?([\d.,]+)`)
	itauPaymentsRe      = regexp.MustCompile(`(?i)pagamentos?\s+efetuados?(?:\s+em\s+\d{2}/\d{2}(?:/\d{4})?)?:?\s*-?\s*(?:R\$\s*)?([\d.,]+)`)
	itauPurchasesRe     = regexp.MustCompile(`(?i)compras(?:\s+e\s+saques)?:?\s*(?:R\$\s*)?([\d.,]+)`)
	itauFeesRe          = regexp.MustCompile(`(?i)encargos:?\s*(?:R\$\s*)?([\d.,]+)`)
	itauInterestRe      = regexp.MustCompile(`(?i)juros(?:\s+e\s+mora)?:?\s*(?:R\$\s*)?([\d.,]+)`)
	itauTotalRe         = regexp.MustCompile(`(?i)total desta fatura:?\s*(?:R\$\s*)?([\d.,]+)`)
)

// itauLineItemRe scans the flat text for transaction rows shaped
// "DD/MM <description> <amount>". The amount is either comma-decimal
// notation (with or without thousand grouping) or a plain two-decimal
// figure; metadata dates (DD/MM/YYYY) never match because the day/month
// must be followed by whitespace.
var itauLineItemRe = regexp.MustCompile(
	`(\d{2}/\d{2})\s+([^\n]+?)\s+(?:R\$\s*)?(-?\d+(?:\.\d{3})*,\d{2}|-?\d+\.\d{2})`)

// itauTrailingUFRe strips a trailing Brazilian state code left behind by the
// location column.
var itauTrailingUFRe = regexp.MustCompile(
	`\s+(?:AC|AL|AM|AP|BA|CE|DF|ES|GO|MA|MG|MS|MT|PA|PB|PE|PI|PR|RJ|RN|RO|RR|RS|SC|SE|SP|TO)$`)

// itauTokens lists the column noise and inline category keywords Itaú bleeds
// into the description column.
var itauTokens = normalizer.TokenSet{
	Noise: []string{
		"SAO PAULO",
		"SÃO PAULO",
		"RIO DE JANEIRO",
		"BELO HORIZONTE",
		"PORTO ALEGRE",
		"CURITIBA",
		"BRASIL",
	},
	Categories: []string{
		"ALIMENTAÇÃO",
		"ALIMENTACAO",
		"RESTAURANTES",
		"VESTUÁRIO",
		"VESTUARIO",
		"TRANSPORTE",
		"SAÚDE",
		"SAUDE",
		"LAZER",
		"EDUCAÇÃO",
		"EDUCACAO",
		"SERVIÇOS",
		"SERVICOS",
	},
}

// Line-item matches whose cleaned description is shorter than this are
// extraction noise, not transactions.
const itauMinDescriptionLen = 3

// ItauParser encodes the Itaú credit-card statement layout as ordered
// pattern rules over the extracted text.
type ItauParser struct {
	extractor TextExtractor
	cleaner   *normalizer.Cleaner
}

// NewItauParser creates the Itaú parser using the given text extractor.
func NewItauParser(extractor TextExtractor) *ItauParser {
	return &ItauParser{
		extractor: extractor,
		cleaner:   normalizer.NewCleaner(itauTokens),
	}
}

// BankCode implements StatementParser.
func (p *ItauParser) BankCode() string {
	return "itau"
}

// CanParse implements StatementParser: true when any Itaú marker phrase
// appears in the text.
func (p *ItauParser) CanParse(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range itauMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Parse implements StatementParser.
func (p *ItauParser) Parse(ctx context.Context, data []byte, fileName string) (*ParsedStatement, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewParseError(p.BankCode(), fileName, "importação cancelada", err)
	}

	text, err := p.extractor.ExtractText(data)
	if err != nil {
		return nil, NewParseError(p.BankCode(), fileName,
			"não foi possível ler o arquivo PDF", err)
	}

	if !p.CanParse(text) {
		return nil, NewParseError(p.BankCode(), fileName,
			"o arquivo não parece ser uma fatura do Itaú", ErrLayoutMismatch)
	}

	statement, err := p.parseText(text)
	if err != nil {
		return nil, AsParseError(err, p.BankCode(), fileName,
			"não foi possível interpretar a fatura")
	}

	return statement, nil
}

// parseText applies the layout rules to already-extracted text. Split out so
// rule sets can be tested against fixture blocks without real PDF files.
func (p *ItauParser) parseText(text string) (*ParsedStatement, error) {
	rawStatementDate, ok := firstMatch(itauStatementDateRe, text)
	if !ok {
		return nil, NewParseError(p.BankCode(), "",
			"data de emissão não encontrada na fatura", nil)
	}
	statementDate, err := NormalizeDate(rawStatementDate, 0)
	if err != nil {
		return nil, NewParseError(p.BankCode(), "",
			"data de emissão inválida", err)
	}

	rawDueDate, ok := firstMatch(itauDueDateRe, text)
	if !ok {
		return nil, NewParseError(p.BankCode(), "",
			"data de vencimento não encontrada na fatura", nil)
	}
	dueDate, err := NormalizeDate(rawDueDate, 0)
	if err != nil {
		return nil, NewParseError(p.BankCode(), "",
			"data de vencimento inválida", err)
	}

	rawTotal, ok := firstMatch(itauTotalRe, text)
	if !ok {
		return nil, NewParseError(p.BankCode(), "",
			"total da fatura não encontrado", nil)
	}
	totalAmount, err := NormalizeAmount(rawTotal)
	if err != nil {
		return nil, NewParseError(p.BankCode(), "",
			"total da fatura inválido", err)
	}

	statement := &ParsedStatement{
		BankCode:      p.BankCode(),
		StatementDate: statementDate,
		DueDate:       dueDate,
		TotalAmount:   totalAmount,
	}

	// Optional summary figures: banks omit zero-value sections, so absence
	// defaults to "0.00". A present-but-malformed figure is still an error.
	optional := []struct {
		re   *regexp.Regexp
		dest *string
		name string
	}{
		{itauPrevBalanceRe, &statement.PreviousBalance, "total da fatura anterior"},
		{itauPaymentsRe, &statement.PaymentsReceived, "pagamento efetuado"},
		{itauPurchasesRe, &statement.Purchases, "total de compras"},
		{itauFeesRe, &statement.Fees, "encargos"},
		{itauInterestRe, &statement.Interest, "juros"},
	}
	for _, field := range optional {
		raw, ok := firstMatch(field.re, text)
		if !ok {
			*field.dest = "0.00"
			continue
		}
		value, err := NormalizeAmount(raw)
		if err != nil {
			return nil, NewParseError(p.BankCode(), "",
				"valor de "+field.name+" inválido", err)
		}
		*field.dest = value
	}

	statement.LineItems = p.parseLineItems(text, rawStatementDate)
	return statement, nil
}

// parseLineItems extracts transaction rows. A candidate that fails date or
// amount normalization, or whose cleaned description is too short, is
// dropped silently: one mangled row must not abort the whole statement.
func (p *ItauParser) parseLineItems(text, rawStatementDate string) []ParsedLineItem {
	year := YearFromStatementDate(rawStatementDate)
	matches := itauLineItemRe.FindAllStringSubmatch(text, -1)

	items := make([]ParsedLineItem, 0, len(matches))
	for _, m := range matches {
		date, err := NormalizeDate(m[1], year)
		if err != nil {
			continue
		}

		amount, err := NormalizeAmount(m[3])
		if err != nil {
			continue
		}

		description, category := p.cleaner.Clean(m[2])
		description = strings.TrimSpace(itauTrailingUFRe.ReplaceAllString(description, ""))
		if len([]rune(description)) < itauMinDescriptionLen {
			continue
		}

		items = append(items, ParsedLineItem{
			Date:        date,
			Description: description,
			Amount:      amount,
			// The Itaú layout has no per-row payment marker; the
			// payments aggregate is extracted separately above.
			Type:     LineItemPurchase,
			Category: category,
		})
	}

	return items
}

// firstMatch returns the first capture group of re in text.
func firstMatch(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
