package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"resume-builder/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed document.schema.json
var documentSchema []byte

func validate(docLoader gojsonschema.JSONLoader) error {
	schemaLoader := gojsonschema.NewBytesLoader(documentSchema)
	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// ValidateJSON validates raw document JSON against the document schema.
func ValidateJSON(b []byte) error {
	return validate(gojsonschema.NewBytesLoader(b))
}

// DecodeDocument validates b and decodes it into a document with the
// authored sections guaranteed present.
func DecodeDocument(b []byte) (*domain.Document, error) {
	if err := ValidateJSON(b); err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc.Profile.BaseFontSize == 0 {
		doc.Profile.BaseFontSize = domain.DefaultBaseFontSize
	}
	sortDocument(&doc)
	doc.EnsureAuthoredSections()
	return &doc, nil
}
