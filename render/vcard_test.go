package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrk-foods/cardsysbackend/models"
)

func TestVcard(t *testing.T) {
	emp := &models.Employee{
		Name:   "Jane Doe",
		Mobile: "+1 555 0100",
		Email:  "jane@x.com",
	}

	vcard := Vcard(emp)

	assert.Contains(t, vcard, "FN:Jane Doe")
	assert.Contains(t, vcard, "N:Doe;Jane")
	assert.Contains(t, vcard, "TEL;TYPE=CELL:+1 555 0100")
	assert.Contains(t, vcard, "EMAIL:jane@x.com")
	assert.NotContains(t, vcard, "URL:")
	assert.True(t, strings.HasPrefix(vcard, "BEGIN:VCARD\r\nVERSION:3.0"))
	assert.True(t, strings.HasSuffix(vcard, "END:VCARD"))
}

func TestVcardOmitsEmptyLines(t *testing.T) {
	emp := &models.Employee{Name: "Solo"}

	vcard := Vcard(emp)

	for _, absent := range []string{"TEL", "EMAIL", "URL", "TITLE", "ADR"} {
		assert.NotContains(t, vcard, absent+":", "line %s should be omitted", absent)
	}
	assert.Contains(t, vcard, "ORG:"+OrgName)
	assert.Contains(t, vcard, "N:Solo")
}

func TestVcardFullRecord(t *testing.T) {
	emp := &models.Employee{
		Name:        "Arun Kumar Raj",
		Designation: "Sales Head",
		Mobile:      "+91 98765 43210",
		Email:       "arun@mrkfoods.example",
		Website:     "mrkfoods.example",
		Address:     "12 Market Road, Chennai",
	}

	vcard := Vcard(emp)
	lines := strings.Split(vcard, "\r\n")

	assert.Equal(t, "BEGIN:VCARD", lines[0])
	assert.Contains(t, lines, "N:Raj;Kumar;Arun")
	assert.Contains(t, lines, "URL:mrkfoods.example")
	assert.Contains(t, lines, "TITLE:Sales Head")
	assert.Contains(t, lines, "ADR;TYPE=WORK:;;12 Market Road, Chennai")
}

func TestVcardFilename(t *testing.T) {
	assert.Equal(t, "Jane_Doe.vcf", VcardFilename(&models.Employee{Name: "Jane Doe"}))
	assert.Equal(t, "contact.vcf", VcardFilename(&models.Employee{}))
	assert.Equal(t, "A_B_C.vcf", VcardFilename(&models.Employee{Name: "  A  B   C "}))
}
