package routes

import (
	"net/http"
	"strings"

	_ "github.com/oggyb/portfolio-backend/internal/docs" // swagger docs
	"github.com/oggyb/portfolio-backend/internal/response"
	swaggerHandler "github.com/swaggo/http-swagger"
)

type AppDeps struct {
	Home     HomeHandler
	Contact  ContactHandler
	Schedule ScheduleHandler

	// Limit wraps the public create endpoints. Optional.
	Limit func(http.Handler) http.Handler
}

type HomeHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type ContactHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type ScheduleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Upcoming(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

func Register(mux *http.ServeMux, d AppDeps) {
	limit := d.Limit
	if limit == nil {
		limit = func(h http.Handler) http.Handler { return h }
	}

	mux.HandleFunc("GET /{$}", d.Home.Index)
	mux.HandleFunc("GET /health", d.Home.Health)

	// Contact
	mux.Handle("POST /api/contact/{$}", limit(http.HandlerFunc(d.Contact.Create)))
	mux.HandleFunc("GET /api/contact/{$}", d.Contact.List)
	mux.HandleFunc("GET /api/contact/{id}/{$}", d.Contact.Get)

	// Call scheduling
	mux.Handle("POST /api/schedule-call/{$}", limit(http.HandlerFunc(d.Schedule.Create)))
	mux.HandleFunc("GET /api/schedule-call/{$}", d.Schedule.List)
	mux.HandleFunc("GET /api/schedule-call/upcoming/{$}", d.Schedule.Upcoming)
	mux.HandleFunc("GET /api/schedule-call/{id}/{$}", d.Schedule.Get)

	//Swagger
	mux.HandleFunc("GET /swagger/", swaggerHandler.WrapHandler)

	// Fallback for undefined routes: 405 when the path exists under another
	// method, 404 otherwise.
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(mux, r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
			response.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}

var routeMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// allowedMethods lists the methods under which r's path reaches a route
// other than the fallback.
func allowedMethods(mux *http.ServeMux, r *http.Request) []string {
	var allow []string
	for _, m := range routeMethods {
		if m == r.Method {
			continue
		}
		alt := r.Clone(r.Context())
		alt.Method = m
		if _, pattern := mux.Handler(alt); pattern != "" && pattern != "/" {
			allow = append(allow, m)
		}
	}
	return allow
}
