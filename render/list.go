package render

import (
	"net/url"
	"strings"

	"github.com/mrk-foods/cardsysbackend/models"
)

// Initials derives the avatar placeholder text: the upper-cased first
// letters of the first two space-separated name tokens, "?" for an empty
// name.
func Initials(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "?"
	}
	var b strings.Builder
	for i, tok := range tokens {
		if i == 2 {
			break
		}
		first := []rune(tok)[0]
		b.WriteString(strings.ToUpper(string(first)))
	}
	return b.String()
}

// CardURL builds the public card link for a record: the deployment base
// with the dashboard's own filename stripped, plus card.html?id=<id>.
func CardURL(base, id string) string {
	base = strings.TrimSuffix(base, "dashboard.html")
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "card.html?id=" + url.QueryEscape(id)
}

// RenderList projects the record set into dashboard table rows, one per
// record, in exactly the order received. An empty set renders a distinct
// empty-state view instead of an empty table.
func RenderList(employees []models.Employee, baseURL string) string {
	if len(employees) == 0 {
		return `<div class="empty-state" id="emptyState"><p>No employee cards yet. Add one to get started.</p></div>`
	}

	var b strings.Builder
	b.WriteString("<table class=\"emp-table\"><tbody id=\"empTableBody\">\n")
	for _, emp := range employees {
		writeListRow(&b, emp, baseURL)
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func writeListRow(b *strings.Builder, emp models.Employee, baseURL string) {
	cardURL := CardURL(baseURL, emp.ID)

	b.WriteString("<tr>\n<td><div class=\"emp-name-cell\">")
	if emp.PhotoURL != "" {
		b.WriteString(`<img src="` + EscapeHTML(emp.PhotoURL) + `" class="emp-avatar" alt="` + EscapeHTML(emp.Name) + `">`)
	} else {
		b.WriteString(`<div class="emp-avatar-placeholder">` + EscapeHTML(Initials(emp.Name)) + `</div>`)
	}
	b.WriteString(`<div><div class="emp-name">` + EscapeHTML(emp.Name) + `</div>`)
	b.WriteString(`<div class="emp-designation">` + EscapeHTML(emp.Designation) + `</div></div></div></td>` + "\n")

	b.WriteString("<td>" + EscapeHTML(orDash(emp.Mobile)) + "</td>\n")
	b.WriteString(`<td><span class="badge">` + EscapeHTML(orDash(emp.Designation)) + "</span></td>\n")

	b.WriteString(`<td><div class="actions-cell">`)
	b.WriteString(`<a href="` + EscapeHTML(cardURL) + `" target="_blank" class="btn btn-green btn-sm">View Card</a>`)
	b.WriteString(`<button data-action="copy-link" data-url="` + EscapeHTML(cardURL) + `" class="btn btn-secondary btn-sm">Copy Link</button>`)
	b.WriteString(`<button data-action="qr" data-id="` + EscapeHTML(emp.ID) + `" class="btn btn-secondary btn-sm">QR</button>`)
	b.WriteString(`<button data-action="edit" data-id="` + EscapeHTML(emp.ID) + `" class="btn btn-maroon btn-sm">Edit</button>`)
	b.WriteString(`<button data-action="delete" data-id="` + EscapeHTML(emp.ID) + `" data-confirm="type DELETE to confirm" class="btn btn-danger btn-sm">Delete</button>`)
	b.WriteString("</div></td>\n</tr>\n")
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
