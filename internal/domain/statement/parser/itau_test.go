package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor feeds fixture text into parsers so layout rules can be
// exercised without real PDF files.
type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText([]byte) (string, error) {
	return s.text, s.err
}

const itauFixture = `ITAÚ UNIBANCO S.A.
Fatura do cartão de crédito
Emissão: 01/01/2024
Vencimento: 15/01/2024
Total da fatura anterior R$ 500,00
Pagamento efetuado R$ 500,00
Compras R$ 1.234,56
Total desta fatura R$ 1.234,56

05/01 SUPERMERCADO ABC 150,00
06/01 POSTO BR CENTRAL SAO PAULO SP 200,00
07/01 RESTAURANTE XYZ ALIMENTACAO 84,56
`

func parseItauText(t *testing.T, text string) (*ParsedStatement, error) {
	t.Helper()
	p := NewItauParser(stubExtractor{text: text})
	return p.Parse(context.Background(), []byte("%PDF-stub"), "fatura.pdf")
}

func TestItauParser_CanParse(t *testing.T) {
	p := NewItauParser(stubExtractor{})

	assert.True(t, p.CanParse("fatura Itaú Unibanco"))
	assert.True(t, p.CanParse("ITAUCARD MASTERCARD"))
	assert.True(t, p.CanParse("resumo Total desta fatura R$ 10,00"))
	assert.False(t, p.CanParse("extrato banco desconhecido"))
}

func TestItauParser_Parse(t *testing.T) {
	t.Run("extracts statement summary", func(t *testing.T) {
		statement, err := parseItauText(t, itauFixture)
		require.NoError(t, err)

		assert.Equal(t, "itau", statement.BankCode)
		assert.Equal(t, "2024-01-01", statement.StatementDate)
		assert.Equal(t, "2024-01-15", statement.DueDate)
		assert.Equal(t, "500.00", statement.PreviousBalance)
		assert.Equal(t, "500.00", statement.PaymentsReceived)
		assert.Equal(t, "1234.56", statement.Purchases)
		assert.Equal(t, "0.00", statement.Fees)
		assert.Equal(t, "0.00", statement.Interest)
		assert.Equal(t, "1234.56", statement.TotalAmount)
	})

	t.Run("extracts line items in document order", func(t *testing.T) {
		statement, err := parseItauText(t, itauFixture)
		require.NoError(t, err)
		require.Len(t, statement.LineItems, 3)

		first := statement.LineItems[0]
		assert.Equal(t, "2024-01-05", first.Date)
		assert.Equal(t, "SUPERMERCADO ABC", first.Description)
		assert.Equal(t, "150.00", first.Amount)
		assert.Equal(t, LineItemPurchase, first.Type)
		assert.Empty(t, first.Category)

		assert.Equal(t, "2024-01-06", statement.LineItems[1].Date)
		assert.Equal(t, "2024-01-07", statement.LineItems[2].Date)
	})

	t.Run("strips location noise from descriptions", func(t *testing.T) {
		statement, err := parseItauText(t, itauFixture)
		require.NoError(t, err)

		assert.Equal(t, "POSTO BR CENTRAL", statement.LineItems[1].Description)
	})

	t.Run("captures inline category keywords", func(t *testing.T) {
		statement, err := parseItauText(t, itauFixture)
		require.NoError(t, err)

		item := statement.LineItems[2]
		assert.Equal(t, "RESTAURANTE XYZ", item.Description)
		assert.Equal(t, "ALIMENTACAO", item.Category)
	})

	t.Run("classifies every line item as purchase", func(t *testing.T) {
		statement, err := parseItauText(t, itauFixture)
		require.NoError(t, err)

		for _, item := range statement.LineItems {
			assert.Equal(t, LineItemPurchase, item.Type)
		}
	})

	t.Run("fails when due date is missing", func(t *testing.T) {
		text := strings.ReplaceAll(itauFixture, "Vencimento: 15/01/2024", "")

		_, err := parseItauText(t, text)
		require.Error(t, err)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Contains(t, pe.Message, "vencimento")
		assert.Equal(t, "itau", pe.BankCode)
		assert.Equal(t, "fatura.pdf", pe.FileName)
	})

	t.Run("fails when statement date is missing", func(t *testing.T) {
		text := strings.ReplaceAll(itauFixture, "Emissão: 01/01/2024", "")

		_, err := parseItauText(t, text)
		require.Error(t, err)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Contains(t, pe.Message, "emissão")
	})

	t.Run("fails when total is missing", func(t *testing.T) {
		text := strings.ReplaceAll(itauFixture, "Total desta fatura R$ 1.234,56", "Itaú")

		_, err := parseItauText(t, text)
		require.Error(t, err)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Contains(t, pe.Message, "total da fatura")
	})

	t.Run("rejects text from another bank layout", func(t *testing.T) {
		_, err := parseItauText(t, "Extrato mensal\nBanco Desconhecido S.A.\n")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLayoutMismatch)
	})

	t.Run("wraps extraction failures", func(t *testing.T) {
		cause := errors.New("corrupt file")
		p := NewItauParser(stubExtractor{err: cause})

		_, err := p.Parse(context.Background(), []byte("%PDF-stub"), "fatura.pdf")
		require.Error(t, err)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.ErrorIs(t, err, cause)
	})
}

func TestItauParser_LineItemIsolation(t *testing.T) {
	t.Run("skips malformed rows without failing the statement", func(t *testing.T) {
		text := itauFixture +
			"31/02 LOJA DATA INVALIDA 50,00\n" + // impossible date
			"08/01 AB 10,00\n" + // description below minimum length
			"09/01 LIVRARIA CENTRAL 45.90\n" // plain decimal is fine

		statement, err := parseItauText(t, text)
		require.NoError(t, err)

		require.Len(t, statement.LineItems, 4)
		last := statement.LineItems[3]
		assert.Equal(t, "2024-01-09", last.Date)
		assert.Equal(t, "LIVRARIA CENTRAL", last.Description)
		assert.Equal(t, "45.90", last.Amount)
	})

	t.Run("accepts ungrouped comma-decimal amounts", func(t *testing.T) {
		text := itauFixture + "11/01 PASSAGEM AEREA 1500,00\n"

		statement, err := parseItauText(t, text)
		require.NoError(t, err)

		require.Len(t, statement.LineItems, 4)
		last := statement.LineItems[3]
		assert.Equal(t, "2024-01-11", last.Date)
		assert.Equal(t, "PASSAGEM AEREA", last.Description)
		assert.Equal(t, "1500.00", last.Amount)
	})

	t.Run("accepts negative amounts as refunds", func(t *testing.T) {
		text := itauFixture + "10/01 ESTORNO COMPRA ONLINE -99,90\n"

		statement, err := parseItauText(t, text)
		require.NoError(t, err)

		require.Len(t, statement.LineItems, 4)
		assert.Equal(t, "-99.90", statement.LineItems[3].Amount)
	})

	t.Run("infers line item year from the statement date", func(t *testing.T) {
		text := strings.NewReplacer(
			"Emissão: 01/01/2024", "Emissão: 28/12/2023",
			"Vencimento: 15/01/2024", "Vencimento: 10/01/2024",
		).Replace(itauFixture)

		statement, err := parseItauText(t, text)
		require.NoError(t, err)

		require.NotEmpty(t, statement.LineItems)
		assert.Equal(t, "2023-01-05", statement.LineItems[0].Date)
	})

	t.Run("returns empty line items for a summary-only statement", func(t *testing.T) {
		text := "Itaú\nEmissão: 01/01/2024\nVencimento: 15/01/2024\nTotal desta fatura 99,00\n"

		statement, err := parseItauText(t, text)
		require.NoError(t, err)
		assert.Empty(t, statement.LineItems)
	})
}

// Mirrors the minimal synthetic scenario the import API relies on.
func TestItauParser_MinimalStatement(t *testing.T) {
	text := "Emissão: 01/01/2024\n" +
		"Vencimento: 15/01/2024\n" +
		"Total desta fatura 1.234,56\n" +
		"05/01 SUPERMERCADO ABC 150,00\n"

	statement, err := parseItauText(t, text)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", statement.StatementDate)
	assert.Equal(t, "2024-01-15", statement.DueDate)
	assert.Equal(t, "1234.56", statement.TotalAmount)
	assert.Equal(t, "0.00", statement.PreviousBalance)
	assert.Equal(t, "0.00", statement.PaymentsReceived)

	require.Len(t, statement.LineItems, 1)
	item := statement.LineItems[0]
	assert.Equal(t, "2024-01-05", item.Date)
	assert.Equal(t, "SUPERMERCADO ABC", item.Description)
	assert.Equal(t, "150.00", item.Amount)
}
