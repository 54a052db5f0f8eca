// Package medline parses the PubmedArticleSet XML produced by the NCBI
// efetch endpoint into bibliographic entries.
//
// The schema is documented at https://www.ncbi.nlm.nih.gov/books/NBK25499/.
// Only the elements the importer maps onto entry fields are modeled here.
package medline

import "encoding/xml"

// articleSet is the root element of an efetch response.
type articleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

// pubmedArticle is a single article record.
type pubmedArticle struct {
	MedlineCitation medlineCitation `xml:"MedlineCitation"`
	PubmedData      pubmedData      `xml:"PubmedData"`
}

// medlineCitation carries the core bibliographic information. The Status
// attribute is the provider's curation status ("MEDLINE", "In-Process", ...).
type medlineCitation struct {
	Status      string       `xml:"Status,attr,omitempty"`
	PMID        pmid         `xml:"PMID"`
	Article     article      `xml:"Article"`
	KeywordList *keywordList `xml:"KeywordList,omitempty"`
}

// pmid is the PubMed identifier with optional version.
type pmid struct {
	Version int    `xml:"Version,attr,omitempty"`
	Value   string `xml:",chardata"`
}

type article struct {
	Journal      journal       `xml:"Journal"`
	ArticleTitle string        `xml:"ArticleTitle"`
	Pagination   *pagination   `xml:"Pagination,omitempty"`
	ELocationID  []eLocationID `xml:"ELocationID,omitempty"`
	Abstract     *abstract     `xml:"Abstract,omitempty"`
	AuthorList   *authorList   `xml:"AuthorList,omitempty"`
	Language     []string      `xml:"Language,omitempty"`
}

type journal struct {
	JournalIssue    journalIssue `xml:"JournalIssue"`
	Title           string       `xml:"Title,omitempty"`
	ISOAbbreviation string       `xml:"ISOAbbreviation,omitempty"`
}

type journalIssue struct {
	Volume  string  `xml:"Volume,omitempty"`
	Issue   string  `xml:"Issue,omitempty"`
	PubDate pubDate `xml:"PubDate"`
}

// pubDate has two mutually exclusive shapes: structured Year/Month/Day or a
// free-form MedlineDate such as "2016 Jan-Feb".
type pubDate struct {
	Year        string `xml:"Year,omitempty"`
	Month       string `xml:"Month,omitempty"`
	Day         string `xml:"Day,omitempty"`
	MedlineDate string `xml:"MedlineDate,omitempty"`
}

type pagination struct {
	StartPage  string `xml:"StartPage,omitempty"`
	EndPage    string `xml:"EndPage,omitempty"`
	MedlinePgn string `xml:"MedlinePgn,omitempty"`
}

// eLocationID is an electronic location identifier (DOI or PII).
type eLocationID struct {
	EIdType string `xml:"EIdType,attr"`
	Valid   string `xml:"ValidYN,attr,omitempty"`
	Value   string `xml:",chardata"`
}

type abstract struct {
	AbstractTexts []abstractText `xml:"AbstractText"`
	CopyrightInfo string         `xml:"CopyrightInformation,omitempty"`
}

// abstractText is one section of a possibly structured abstract.
type abstractText struct {
	Label string `xml:"Label,attr,omitempty"`
	Value string `xml:",chardata"`
}

type authorList struct {
	Authors []author `xml:"Author"`
}

type author struct {
	ValidYN        string `xml:"ValidYN,attr,omitempty"`
	LastName       string `xml:"LastName,omitempty"`
	ForeName       string `xml:"ForeName,omitempty"`
	Initials       string `xml:"Initials,omitempty"`
	CollectiveName string `xml:"CollectiveName,omitempty"`
}

type keywordList struct {
	Keywords []keyword `xml:"Keyword"`
}

type keyword struct {
	Value string `xml:",chardata"`
}

// pubmedData carries provider-side identifiers beyond the citation itself.
type pubmedData struct {
	PublicationStatus string        `xml:"PublicationStatus,omitempty"`
	ArticleIdList     articleIDList `xml:"ArticleIdList"`
}

type articleIDList struct {
	ArticleIDs []articleID `xml:"ArticleId"`
}

type articleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}
