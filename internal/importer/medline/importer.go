package medline

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/helixir/medline-fetcher/internal/domain"
	"github.com/helixir/medline-fetcher/internal/importer"
)

// FormatName tags entries produced by this importer.
const FormatName = "medline"

// Importer parses PubmedArticleSet XML streams into entries.
type Importer struct{}

// Compile-time check that Importer implements the parser capability.
var _ importer.Parser = (*Importer)(nil)

// New creates a new medline importer.
func New() *Importer {
	return &Importer{}
}

// Parse decodes one efetch response stream. A stream that cannot be decoded
// at all is a fatal ParseError; articles with missing pieces parse into
// partial entries and are reported as warnings.
func (i *Importer) Parse(r io.Reader) (*importer.Result, error) {
	var set articleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, &domain.ParseError{Source: FormatName, Cause: err}
	}

	result := &importer.Result{}
	for idx, a := range set.Articles {
		entry, warnings := articleToEntry(a)
		for _, w := range warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("article %d: %s", idx+1, w))
		}
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}

// articleToEntry maps one article onto an open entry field map.
func articleToEntry(a pubmedArticle) (*domain.Entry, []string) {
	citation := a.MedlineCitation
	art := citation.Article

	entry := domain.NewEntry(FormatName)
	var warnings []string

	entry.SetField(domain.FieldPMID, citation.PMID.Value)
	if citation.PMID.Value == "" {
		warnings = append(warnings, "missing PMID")
	}

	entry.SetField(domain.FieldTitle, strings.TrimSpace(art.ArticleTitle))
	if art.ArticleTitle == "" {
		warnings = append(warnings, "missing article title")
	}

	entry.SetField(domain.FieldJournal, art.Journal.Title)
	entry.SetField(domain.FieldJournalAbbreviation, art.Journal.ISOAbbreviation)
	entry.SetField(domain.FieldStatus, citation.Status)
	entry.SetField(domain.FieldVolume, art.Journal.JournalIssue.Volume)
	entry.SetField(domain.FieldIssue, art.Journal.JournalIssue.Issue)
	entry.SetField(domain.FieldPages, extractPages(art.Pagination))

	year, month := extractDate(art.Journal.JournalIssue.PubDate)
	entry.SetField(domain.FieldYear, year)
	entry.SetField(domain.FieldMonth, month)

	entry.SetField(domain.FieldDOI, extractDOI(art, a.PubmedData))
	entry.SetField(domain.FieldAuthor, extractAuthors(art.AuthorList))

	if art.Abstract != nil {
		entry.SetField(domain.FieldAbstract, extractAbstract(art.Abstract))
		entry.SetField(domain.FieldCopyright, strings.TrimSpace(art.Abstract.CopyrightInfo))
	}

	if citation.KeywordList != nil {
		entry.SetField(domain.FieldKeywords, extractKeywords(citation.KeywordList))
	}

	if len(art.Language) > 0 {
		entry.SetField(domain.FieldLanguage, art.Language[0])
	}

	return entry, warnings
}

// extractDOI checks ELocationID first (more reliable), then the article id
// list from PubmedData.
func extractDOI(art article, data pubmedData) string {
	for _, eloc := range art.ELocationID {
		if eloc.EIdType == "doi" && (eloc.Valid == "" || eloc.Valid == "Y") {
			return eloc.Value
		}
	}
	for _, aid := range data.ArticleIdList.ArticleIDs {
		if aid.IDType == "doi" {
			return aid.Value
		}
	}
	return ""
}

// extractDate returns the year and month strings of the publication date.
// A free-form MedlineDate ("2016 Jan-Feb", "2019-2020") yields only a year.
func extractDate(d pubDate) (year, month string) {
	if d.MedlineDate != "" {
		return yearFromMedlineDate(d.MedlineDate), ""
	}
	return d.Year, d.Month
}

// yearFromMedlineDate extracts the leading year from a MedlineDate string.
func yearFromMedlineDate(medlineDate string) string {
	parts := strings.Fields(medlineDate)
	if len(parts) == 0 {
		return ""
	}
	yearStr := strings.Split(parts[0], "-")[0]
	if _, err := strconv.Atoi(yearStr); err != nil {
		return ""
	}
	return yearStr
}

// extractAuthors joins author names with " and ", the conjunction
// bibliographic tooling expects in an author field.
func extractAuthors(list *authorList) string {
	if list == nil || len(list.Authors) == 0 {
		return ""
	}

	names := make([]string, 0, len(list.Authors))
	for _, a := range list.Authors {
		if a.ValidYN == "N" {
			continue
		}

		var name string
		switch {
		case a.CollectiveName != "":
			name = a.CollectiveName
		case a.ForeName != "" && a.LastName != "":
			name = a.ForeName + " " + a.LastName
		case a.LastName != "":
			name = a.LastName
			if a.Initials != "" {
				name = a.Initials + " " + a.LastName
			}
		}
		if name != "" {
			names = append(names, name)
		}
	}

	return strings.Join(names, " and ")
}

// extractAbstract concatenates the abstract sections into a single string,
// prefixing labeled sections of a structured abstract with their labels.
func extractAbstract(abs *abstract) string {
	if abs == nil || len(abs.AbstractTexts) == 0 {
		return ""
	}

	if len(abs.AbstractTexts) == 1 && abs.AbstractTexts[0].Label == "" {
		return strings.TrimSpace(abs.AbstractTexts[0].Value)
	}

	var parts []string
	for _, at := range abs.AbstractTexts {
		text := strings.TrimSpace(at.Value)
		if text == "" {
			continue
		}
		if at.Label != "" {
			parts = append(parts, at.Label+": "+text)
		} else {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// extractPages formats the page information, preferring the provider's
// pre-formatted MedlinePgn value.
func extractPages(p *pagination) string {
	if p == nil {
		return ""
	}
	if p.MedlinePgn != "" {
		return p.MedlinePgn
	}
	if p.StartPage != "" {
		if p.EndPage != "" && p.EndPage != p.StartPage {
			return p.StartPage + "-" + p.EndPage
		}
		return p.StartPage
	}
	return ""
}

// extractKeywords joins author-provided keywords with commas.
func extractKeywords(list *keywordList) string {
	keywords := make([]string, 0, len(list.Keywords))
	for _, kw := range list.Keywords {
		if v := strings.TrimSpace(kw.Value); v != "" {
			keywords = append(keywords, v)
		}
	}
	return strings.Join(keywords, ", ")
}
