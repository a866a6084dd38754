package providers

import (
	"crypto/subtle"
	"mafiabot/internal/structures"
	"net/http"
	"strings"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

type RouterProvider struct {
	urls    []string
	methods map[string]map[string]http.Handler
	token   string
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

// GetRoutes returns one route per url, in registration order. A url
// registered for several methods dispatches on the request method.
func (rp *RouterProvider) GetRoutes() []structures.Route {
	routes := make([]structures.Route, 0, len(rp.urls))
	for _, url := range rp.urls {
		routes = append(routes, structures.Route{
			Url:     url,
			Handler: rp.guard(methodHandler(rp.methods[url])),
		})
	}
	return routes
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	byMethod, ok := rp.methods[url]
	if !ok {
		byMethod = make(map[string]http.Handler)
		rp.methods[url] = byMethod
		rp.urls = append(rp.urls, url)
	}
	byMethod[method] = handler
}

func (rp *RouterProvider) guard(handler http.Handler) http.Handler {
	if rp.token == "" {
		return handler
	}
	return bearerHandler(rp.token, handler)
}

// NewRouterProvider returns a router whose routes require
// "Authorization: Bearer <token>" when token is not empty.
func NewRouterProvider(token string) RouterProviderInterface {
	return &RouterProvider{
		methods: make(map[string]map[string]http.Handler),
		token:   token,
	}
}

func methodHandler(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.Method]
		if !ok {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func bearerHandler(token string, handler http.Handler) http.Handler {
	expected := []byte(token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
