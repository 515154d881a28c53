package chi

import (
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists every HTTP operation of the gateway.
type ServerInterface interface {
	// (GET /)
	Root(w http.ResponseWriter, r *http.Request)
	// (GET /test)
	Diagnose(w http.ResponseWriter, r *http.Request)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
	// (GET /schema)
	ListSchemas(w http.ResponseWriter, r *http.Request)
	// (POST /api/products)
	CreateProduct(w http.ResponseWriter, r *http.Request)
	// (GET /api/products)
	ListProducts(w http.ResponseWriter, r *http.Request, params ListProductsParams)
	// (GET /api/products/{id})
	GetProduct(w http.ResponseWriter, r *http.Request, id string)
	// (POST /api/seed)
	SeedProducts(w http.ResponseWriter, r *http.Request)
	// (POST /api/orders)
	CreateOrder(w http.ResponseWriter, r *http.Request)
	// (GET /api/orders/{id})
	GetOrder(w http.ResponseWriter, r *http.Request, id string)
	// (POST /api/users)
	CreateUser(w http.ResponseWriter, r *http.Request)
}

// ListProductsParams defines parameters for ListProducts.
type ListProductsParams struct {
	Category *string `form:"category,omitempty" json:"category,omitempty"`
	Q        *string `form:"q,omitempty" json:"q,omitempty"`
	Limit    *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

// ChiServerOptions configures route registration.
type ChiServerOptions struct {
	BaseRouter       gochi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError is reported when a parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// serverInterfaceWrapper binds request parameters before calling the handler.
type serverInterfaceWrapper struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverInterfaceWrapper) ListProducts(w http.ResponseWriter, r *http.Request) {
	var params ListProductsParams

	if err := runtime.BindQueryParameter("form", true, false, "category", r.URL.Query(), &params.Category); err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "category", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &params.Q); err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	siw.handler.ListProducts(w, r, params)
}

func (siw *serverInterfaceWrapper) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	siw.handler.GetProduct(w, r, id)
}

func (siw *serverInterfaceWrapper) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	siw.handler.GetOrder(w, r, id)
}

func (siw *serverInterfaceWrapper) bindID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", gochi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return "", false
	}
	return id, true
}

// HandlerWithOptions registers every route on the base router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = gochi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := serverInterfaceWrapper{
		handler:          si,
		errorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Get("/", si.Root)
	r.Get("/test", si.Diagnose)
	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)
	r.Get("/schema", si.ListSchemas)
	r.Route("/api", func(r gochi.Router) {
		r.Post("/products", si.CreateProduct)
		r.Get("/products", wrapper.ListProducts)
		r.Get("/products/{id}", wrapper.GetProduct)
		r.Post("/seed", si.SeedProducts)
		r.Post("/orders", si.CreateOrder)
		r.Get("/orders/{id}", wrapper.GetOrder)
		r.Post("/users", si.CreateUser)
	})
	return r
}
