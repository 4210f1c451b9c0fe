package render

import (
	"strings"

	"github.com/mrk-foods/cardsysbackend/models"
)

// OrgName is the fixed organisation line on every exported contact.
const OrgName = "MRK Foods Private Limited"

// Vcard builds the save-contact export for a record. Lines whose source
// field is empty are omitted; the result is CRLF-joined per RFC 2426.
func Vcard(emp *models.Employee) string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + emp.Name,
		"N:" + reversedNameTokens(emp.Name),
	}
	if emp.Mobile != "" {
		lines = append(lines, "TEL;TYPE=CELL:"+emp.Mobile)
	}
	if emp.Email != "" {
		lines = append(lines, "EMAIL:"+emp.Email)
	}
	if emp.Website != "" {
		lines = append(lines, "URL:"+emp.Website)
	}
	if emp.Designation != "" {
		lines = append(lines, "TITLE:"+emp.Designation)
	}
	lines = append(lines, "ORG:"+OrgName)
	if emp.Address != "" {
		lines = append(lines, "ADR;TYPE=WORK:;;"+emp.Address)
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\r\n")
}

// VcardFilename is the suggested download name: the employee name with
// whitespace runs collapsed to underscores.
func VcardFilename(emp *models.Employee) string {
	name := emp.Name
	if name == "" {
		name = "contact"
	}
	return strings.Join(strings.Fields(name), "_") + ".vcf"
}

// reversedNameTokens turns "Jane Doe" into "Doe;Jane" for the structured
// N line.
func reversedNameTokens(name string) string {
	tokens := strings.Split(name, " ")
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return strings.Join(tokens, ";")
}
