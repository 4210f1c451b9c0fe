package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/mrk-foods/cardsysbackend/config"
	"github.com/mrk-foods/cardsysbackend/render"
	"github.com/mrk-foods/cardsysbackend/repository"
)

// DashboardHandler serves the admin list view.
type DashboardHandler struct {
	Repo repository.EmployeeStore
	Cfg  config.Config
}

func (dh *DashboardHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	employees, err := dh.Repo.ListAll()
	if err != nil {
		log.Printf("Error listing employees for dashboard: %v", err)
		http.Error(w, "Failed to load employees", http.StatusInternalServerError)
		return
	}

	body := fmt.Sprintf(`<div class="dashboard"><div class="stats"><span id="statTotal">%d</span> cards</div>%s</div>`,
		len(employees), render.RenderList(employees, dh.Cfg.PublicBaseURL))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(render.Page("Dashboard - "+render.OrgName, body)))
}
