package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aretw0/lattice/api"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/oapi-codegen/runtime"
)

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(api.Spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
}

func mustSpecRouter() routers.Router {
	doc, err := LoadSpec(context.Background())
	if err != nil {
		panic(err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		panic(fmt.Errorf("openapi router: %w", err))
	}
	return router
}

// validateRequests rejects requests whose parameters or body do not match
// the OpenAPI document. Routes the document does not describe pass through.
func (s *Server) validateRequests(router routers.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength != 0 && r.Header.Get("Content-Type") == "" {
				r.Header.Set("Content-Type", "application/json")
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				s.logger.Debug("request rejected", "operation", route.Operation.OperationID, "err", err)
				s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ServeSpec handles GET /openapi.yaml.
func (s *Server) ServeSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	if _, err := w.Write(api.Spec); err != nil {
		s.logger.Error("spec write failed", "error", err)
	}
}

// queryParam binds a form-style query parameter the way generated servers do.
func queryParam(r *http.Request, name string, required bool) (string, error) {
	var value string
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), &value); err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return value, nil
}
