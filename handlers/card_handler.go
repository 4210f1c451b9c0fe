package handlers

import (
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/mrk-foods/cardsysbackend/config"
	"github.com/mrk-foods/cardsysbackend/render"
	"github.com/mrk-foods/cardsysbackend/repository"
)

// CardHandler serves the public card page. No authentication required.
type CardHandler struct {
	Repo repository.EmployeeStore
	Cfg  config.Config
}

// ServeCard renders one employee's profile from the shareable URL
// card.html?id=<recordId>. The two error states get their own views.
func (ch *CardHandler) ServeCard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	id := r.URL.Query().Get("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(render.Page("Card", render.RenderCardError(render.ErrNoEmployeeID))))
		return
	}

	employee, err := ch.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(render.Page("Card", render.RenderCardError(render.ErrCardNotFound))))
			return
		}
		log.Printf("Error loading employee %s for card: %v", id, err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(render.Page("Card", render.RenderCardError("Something went wrong. Please try again."))))
		return
	}

	cardURL := render.CardURL(ch.Cfg.PublicBaseURL, employee.ID)
	_, _ = w.Write([]byte(render.Page(employee.Name+" - "+render.OrgName, render.RenderCard(employee, cardURL))))
}
