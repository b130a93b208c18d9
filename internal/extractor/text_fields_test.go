package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seacrew/internal/extractor"
)

func TestFieldsFromText_LabelledPassport(t *testing.T) {
	text := `REPUBLIC OF INDIA
Passport No: U2701560
Full Name: RAVI KUMAR
Date of Issue: 04/07/2017
Date of Expiry: 03 JUL 2027
Place of Issue: MUMBAI
P<INDKUMAR<<RAVI<<<<<<<<<<<<<<<<<<<<<<<<<<<<
U27015603IND8001012M2707039<<<<<<<<<<<<<<<04`

	f := extractor.FieldsFromText(text)

	assert.Equal(t, "U2701560", f.DocumentNumber)
	assert.Equal(t, "RAVI KUMAR", f.HolderName)
	assert.Equal(t, "04/07/2017", f.IssueDate)
	assert.Equal(t, "03 JUL 2027", f.ExpiryDate)
	assert.Equal(t, "MUMBAI", f.IssuingAuthority)
	assert.Equal(t, "P<INDKUMAR<<RAVI<<<<<<<<<<<<<<<<<<<<<<<<<<<<\nU27015603IND8001012M2707039<<<<<<<<<<<<<<<04", f.MRZValue)
	assert.Equal(t, text, f.RawText)
}

func TestFieldsFromText_NothingFound(t *testing.T) {
	f := extractor.FieldsFromText("blurry")

	assert.Empty(t, f.DocumentNumber)
	assert.Empty(t, f.ExpiryDate)
	assert.Empty(t, f.MRZValue)
}
