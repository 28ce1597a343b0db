package services

// CatalogVersion is bumped whenever DocumentCatalog changes. The aggregate
// verdict requires one row per catalog entry, so both move together.
const CatalogVersion = 1

// DocumentType describes one required compliance document
type DocumentType struct {
	Key            string `json:"document_type"`
	Label          string `json:"label"`
	ValidityMonths int    `json:"expiryMonths"`
	Downloadable   bool   `json:"downloadable"`
	TemplateFile   string `json:"-"`
}

// DocumentCatalog is the closed set of documents every artisan must provide, in display order
var DocumentCatalog = []DocumentType{
	{Key: "kbis", Label: "KBIS", ValidityMonths: 3},
	{Key: "assurance_decennale", Label: "Assurance décennale", ValidityMonths: 12},
	{Key: "attestation_vigilance_urssaf", Label: "Attestation de vigilance URSSAF", ValidityMonths: 6},
	{Key: "liste_salaries_etrangers", Label: "Liste des salariés étrangers", ValidityMonths: 12, Downloadable: true, TemplateFile: "template-liste-salaries-etrangers.pdf"},
	{Key: "declaration_honneur", Label: "Déclaration sur l'honneur", ValidityMonths: 12, Downloadable: true, TemplateFile: "template-declaration-honneur.pdf"},
}

// LookupDocumentType returns the catalog entry for key
func LookupDocumentType(key string) (DocumentType, bool) {
	for _, dt := range DocumentCatalog {
		if dt.Key == key {
			return dt, true
		}
	}
	return DocumentType{}, false
}

func requireDocumentType(key string) (DocumentType, error) {
	if key == "" {
		return DocumentType{}, validationErr("document_type is required")
	}
	dt, ok := LookupDocumentType(key)
	if !ok {
		return DocumentType{}, &ValidationError{
			Code:    "INVALID_DOCUMENT_TYPE",
			Message: "Unknown document type: " + key,
		}
	}
	return dt, nil
}

