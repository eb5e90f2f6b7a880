package ptr

import "strings"

// PageExtractor yields the text of each page of a document, in order. A page
// whose text cannot be extracted is returned as "".
type PageExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// DocumentResult is the outcome of parsing one file.
type DocumentResult struct {
	Result[Report]
	Path string
}

// ParsePages runs the whole pipeline over the page texts of one document:
// normalization, block extraction, row parsing and report assembly. The
// first failing stage ends the run.
func ParsePages(pages []string) Result[Report] {
	cleansed := JoinPages(pages)
	if strings.TrimSpace(cleansed) == "" {
		return Fail[Report](KindEmptyExtraction, "no text was extracted from the report")
	}

	block := ExtractTransactionsBlock(cleansed)
	if !block.Success {
		return failFrom[Report](block, "failed to extract transactions block")
	}

	txs := TransactionsFromBlock(block.Data)
	if !txs.Success {
		return failFrom[Report](txs, "failed to create transactions from block")
	}

	report := ReportFromText(cleansed, txs.Data)
	if !report.Success {
		return failFrom[Report](report, "failed to create report")
	}
	return report
}

// Parser parses documents read through a PageExtractor. It holds no mutable
// state and may be shared between goroutines if its extractor can.
type Parser struct {
	extractor PageExtractor
}

// NewParser returns a Parser reading documents with extractor.
func NewParser(extractor PageExtractor) *Parser {
	return &Parser{extractor: extractor}
}

// ParseFile extracts and parses the document at path.
func (p *Parser) ParseFile(path string) DocumentResult {
	pages, err := p.extractor.ExtractPages(path)
	if err != nil {
		return DocumentResult{
			Result: Fail[Report](KindUnreadableDocument, "could not read %s: %v", path, err),
			Path:   path,
		}
	}
	return DocumentResult{Result: ParsePages(pages), Path: path}
}
