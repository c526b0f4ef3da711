package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlefebvre/parcinfo-backend/api/controllers"
	"github.com/mlefebvre/parcinfo-backend/api/middleware"
	employeesvc "github.com/mlefebvre/parcinfo-backend/internal/employees"
	inventorysvc "github.com/mlefebvre/parcinfo-backend/internal/inventory"
	loansvc "github.com/mlefebvre/parcinfo-backend/internal/loans"
	"github.com/mlefebvre/parcinfo-backend/pkg/config"
	"github.com/mlefebvre/parcinfo-backend/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Cache     controllers.Pinger
	Inventory inventorysvc.Service
	Employees employeesvc.Service
	Loans     loansvc.Service
	Registry  *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Actor(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Cache))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/loans", func(r chi.Router) {
		r.Post("/", controllers.CreateLoan(deps.Loans, logg))
		r.Get("/", controllers.ListLoans(deps.Loans, logg))
		r.Post("/batch-delete", controllers.BatchDeleteLoans(deps.Loans, logg))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.GetLoan(deps.Loans, logg))
			r.Delete("/", controllers.DeleteLoan(deps.Loans, logg))
			r.Post("/close", controllers.CloseLoan(deps.Loans, logg))
			r.Post("/lines", controllers.AddLoanLine(deps.Loans, logg))
			r.Delete("/lines/{lineID}", controllers.RemoveLoanLine(deps.Loans, logg))
			r.Put("/signatures/{kind}", controllers.UploadSignature(deps.Loans, logg))
			r.Delete("/signatures/{kind}", controllers.DeleteSignature(deps.Loans, logg))
		})
	})

	r.Route("/api/v1/models", func(r chi.Router) {
		r.Post("/", controllers.CreateAssetModel(deps.Inventory, logg))
		r.Get("/", controllers.ListAssetModels(deps.Inventory, logg))
	})

	r.Route("/api/v1/assets", func(r chi.Router) {
		r.Post("/", controllers.CreateAssetItem(deps.Inventory, logg))
		r.Get("/", controllers.ListAssetItems(deps.Inventory, logg))
		r.Get("/{id}", controllers.GetAssetItem(deps.Inventory, logg))
		r.Put("/{id}/status", controllers.UpdateAssetStatus(deps.Inventory, logg))
	})

	r.Route("/api/v1/stock", func(r chi.Router) {
		r.Post("/", controllers.CreateStockItem(deps.Inventory, logg))
		r.Get("/", controllers.ListStockItems(deps.Inventory, logg))
		r.Get("/{id}", controllers.GetStockItem(deps.Inventory, logg))
		r.Post("/{id}/adjust", controllers.AdjustStockQuantity(deps.Inventory, logg))
	})

	r.Route("/api/v1/employees", func(r chi.Router) {
		r.Post("/", controllers.CreateEmployee(deps.Employees, logg))
		r.Get("/", controllers.ListEmployees(deps.Employees, logg))
		r.Get("/{id}", controllers.GetEmployee(deps.Employees, logg))
	})

	if cfg != nil && cfg.Signatures.Dir != "" && cfg.Signatures.PublicURL != "" {
		fs := http.StripPrefix(cfg.Signatures.PublicURL+"/", http.FileServer(http.Dir(cfg.Signatures.Dir)))
		r.Method(http.MethodGet, cfg.Signatures.PublicURL+"/*", fs)
	}

	return r
}
