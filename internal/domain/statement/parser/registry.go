package parser

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps bank codes to their statement parsers. It is populated once
// at construction and never mutated afterwards, so concurrent reads from
// simultaneous parse requests need no locking.
type Registry struct {
	parsers []StatementParser // registration order: the Detect tie-break
	byCode  map[string]StatementParser
}

// NewRegistry constructs and indexes every known bank parser. Adding a bank
// means implementing StatementParser and registering it here; callers never
// change.
//
// Detection is first-match-wins in registration order. Bank marker sets are
// assumed mutually exclusive; review the ordering when registering a parser
// whose markers could overlap an existing bank's.
func NewRegistry(extractor TextExtractor) *Registry {
	r := &Registry{byCode: make(map[string]StatementParser)}
	r.register(NewItauParser(extractor))
	return r
}

func (r *Registry) register(p StatementParser) {
	code := strings.ToLower(p.BankCode())
	if _, exists := r.byCode[code]; exists {
		panic(fmt.Sprintf("parser registry: duplicate bank code %q", code))
	}
	r.byCode[code] = p
	r.parsers = append(r.parsers, p)
}

// Get returns the parser for a bank code, case-insensitively. The error for
// an absent code enumerates every supported bank so the caller can surface
// the valid options.
func (r *Registry) Get(bankCode string) (StatementParser, error) {
	p, ok := r.byCode[strings.ToLower(strings.TrimSpace(bankCode))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (bancos suportados: %s)",
			ErrUnknownBank, bankCode, strings.Join(r.SupportedBanks(), ", "))
	}
	return p, nil
}

// Detect probes registered parsers against extracted text and returns the
// first whose CanParse claims it.
func (r *Registry) Detect(text string) (StatementParser, error) {
	for _, p := range r.parsers {
		if p.CanParse(text) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: não foi possível identificar o banco emissor da fatura",
		ErrBankNotDetected)
}

// SupportedBanks returns a sorted copy of the registered bank codes.
func (r *Registry) SupportedBanks() []string {
	codes := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
