package render

import (
	"strings"

	"github.com/mrk-foods/cardsysbackend/models"
)

// The only two distinguished card error states.
const (
	ErrNoEmployeeID = "No employee ID specified."
	ErrCardNotFound = "Employee card not found. Please check the link."
)

// RenderCardError renders the dedicated error view for a card request.
func RenderCardError(msg string) string {
	return `<div class="error-state" id="errorState"><p id="errorMsg">` + EscapeHTML(msg) + `</p></div>`
}

// RenderCard projects a single record into the public-facing profile view.
// Every optional field is hidden, not rendered blank, when absent. All
// interpolated text is HTML-escaped.
func RenderCard(emp *models.Employee, cardURL string) string {
	var b strings.Builder
	b.WriteString("<div class=\"digital-card\" id=\"digitalCard\">\n")

	writeCardHeader(&b, emp)
	writeContactList(&b, emp)
	writeActionButtons(&b, emp, cardURL)
	writeSocialLinks(&b, emp)

	b.WriteString(`<div class="card-qr"><img id="cardQR" src="` +
		EscapeHTML(QRImageURL(cardURL, CardQRSize, true)) + `" alt="QR code"></div>` + "\n")
	b.WriteString("</div>")
	return b.String()
}

func writeCardHeader(b *strings.Builder, emp *models.Employee) {
	logo := emp.LogoURL
	if logo == "" {
		logo = "mrk_logo.jpg"
	}
	b.WriteString(`<img class="card-logo" id="cardLogo" src="` + EscapeHTML(logo) + `" alt="Company logo">` + "\n")

	if emp.PhotoURL != "" {
		b.WriteString(`<img class="card-photo" id="cardPhoto" src="` + EscapeHTML(emp.PhotoURL) + `" alt="` + EscapeHTML(emp.Name) + `">` + "\n")
	} else {
		b.WriteString(`<div class="card-photo-placeholder" id="cardPhotoPlaceholder">` + EscapeHTML(Initials(emp.Name)) + "</div>\n")
	}

	b.WriteString(`<h1 class="card-name" id="cardName">` + EscapeHTML(emp.Name) + "</h1>\n")
	if emp.Designation != "" {
		b.WriteString(`<p class="card-designation" id="cardDesignation">` + EscapeHTML(emp.Designation) + "</p>\n")
	}
}

func writeContactList(b *strings.Builder, emp *models.Employee) {
	var items []string
	if emp.Mobile != "" {
		items = append(items, `<li class="contact-item"><div class="contact-icon phone"></div><div class="contact-text"><a href="tel:`+EscapeHTML(emp.Mobile)+`">`+EscapeHTML(emp.Mobile)+`</a></div></li>`)
	}
	if emp.Email != "" {
		items = append(items, `<li class="contact-item"><div class="contact-icon email"></div><div class="contact-text"><a href="mailto:`+EscapeHTML(emp.Email)+`">`+EscapeHTML(emp.Email)+`</a></div></li>`)
	}
	if emp.Website != "" {
		items = append(items, `<li class="contact-item"><div class="contact-icon web"></div><div class="contact-text"><a href="`+EscapeHTML(NormalizeWebsiteURL(emp.Website))+`" target="_blank" rel="noopener">`+EscapeHTML(emp.Website)+`</a></div></li>`)
	}
	if emp.Address != "" {
		items = append(items, `<li class="contact-item"><div class="contact-icon address"></div><div class="contact-text">`+EscapeHTML(emp.Address)+`</div></li>`)
	}
	if len(items) == 0 {
		return
	}
	b.WriteString(`<ul class="contact-list" id="contactList">` + strings.Join(items, "") + "</ul>\n")
}

func writeActionButtons(b *strings.Builder, emp *models.Employee, cardURL string) {
	if num := WhatsappNumber(emp); num != "" {
		b.WriteString(`<a class="btn-action" id="btnWhatsapp" href="https://wa.me/` + num + `">WhatsApp</a>` + "\n")
	}
	if emp.Mobile != "" {
		b.WriteString(`<a class="btn-action" id="btnCall" href="tel:` + EscapeHTML(emp.Mobile) + `">Call</a>` + "\n")
	}
	if emp.Email != "" {
		b.WriteString(`<a class="btn-action" id="btnEmail" href="mailto:` + EscapeHTML(emp.Email) + `">Email</a>` + "\n")
	}

	b.WriteString(`<a class="btn-action" id="btnSave" href="/api/employees/` + EscapeHTML(emp.ID) + `/vcard" download>Save Contact</a>` + "\n")
	// share falls back client-side: native share, clipboard, manual copy
	b.WriteString(`<button class="btn-action" id="btnShare" data-share-url="` + EscapeHTML(cardURL) + `" data-share-title="` + EscapeHTML(emp.Name) + ` - ` + OrgName + `">Share</button>` + "\n")

	if emp.CatalogueLink != "" {
		b.WriteString(`<a class="btn-action" id="btnCatalogue" href="` + EscapeHTML(NormalizeWebsiteURL(emp.CatalogueLink)) + `" target="_blank" rel="noopener">Catalogue</a>` + "\n")
	}
}

func writeSocialLinks(b *strings.Builder, emp *models.Employee) {
	var links []string
	if emp.Facebook != "" {
		links = append(links, `<a class="social-link" id="socialFb" href="`+EscapeHTML(emp.Facebook)+`">Facebook</a>`)
	}
	if emp.Linkedin != "" {
		links = append(links, `<a class="social-link" id="socialLn" href="`+EscapeHTML(emp.Linkedin)+`">LinkedIn</a>`)
	}
	if emp.Instagram != "" {
		links = append(links, `<a class="social-link" id="socialIg" href="`+EscapeHTML(emp.Instagram)+`">Instagram</a>`)
	}
	if num := WhatsappNumber(emp); num != "" {
		links = append(links, `<a class="social-link" id="socialWa" href="https://wa.me/`+num+`">WhatsApp</a>`)
	}
	if len(links) == 0 {
		return
	}
	b.WriteString(`<div class="social-links">` + strings.Join(links, "") + "</div>\n")
}

// WhatsappNumber returns the digits-only deep-link number, preferring the
// whatsapp field and falling back to mobile.
func WhatsappNumber(emp *models.Employee) string {
	src := emp.Whatsapp
	if src == "" {
		src = emp.Mobile
	}
	var b strings.Builder
	for _, r := range src {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeWebsiteURL prefixes a scheme when the stored value has none.
func NormalizeWebsiteURL(u string) string {
	if !strings.HasPrefix(u, "http") {
		return "https://" + u
	}
	return u
}
